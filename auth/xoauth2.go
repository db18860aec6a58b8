package auth

import "github.com/emersion/go-sasl"

// xoauth2Client implements the XOAUTH2 bearer-token mechanism. The payload
// goes out as the initial response. On failure the server issues one more
// challenge carrying a JSON error document and expects an empty reply
// before it sends the final status, so the first challenge is answered
// with an empty response and any further one aborts.
type xoauth2Client struct {
	username   string
	token      string
	challenged bool
}

var _ sasl.Client = (*xoauth2Client)(nil)

func newXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username: username, token: token}
}

func (a *xoauth2Client) Start() (string, []byte, error) {
	payload := "user=" + a.username + "\x01auth=Bearer " + a.token + "\x01\x01"

	return "XOAUTH2", []byte(payload), nil
}

func (a *xoauth2Client) Next(challenge []byte) ([]byte, error) {
	if a.challenged {
		return nil, sasl.ErrUnexpectedServerChallenge
	}

	a.challenged = true

	return []byte{}, nil
}
