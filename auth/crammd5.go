package auth

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"

	"github.com/emersion/go-sasl"
)

// cramMD5Client implements CRAM-MD5 (RFC 2195): the decoded server
// challenge is keyed-hashed with HMAC-MD5 using the password as key, the
// reply is "username" SP hex digest.
type cramMD5Client struct {
	username string
	secret   string
}

var _ sasl.Client = (*cramMD5Client)(nil)

func newCramMD5Client(username, secret string) sasl.Client {
	return &cramMD5Client{username: username, secret: secret}
}

func (a *cramMD5Client) Start() (string, []byte, error) {
	return "CRAM-MD5", nil, nil
}

func (a *cramMD5Client) Next(challenge []byte) ([]byte, error) {
	mac := hmac.New(md5.New, []byte(a.secret))
	mac.Write(challenge)

	return []byte(a.username + " " + hex.EncodeToString(mac.Sum(nil))), nil
}
