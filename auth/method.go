package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Method is one of the authentication mechanisms this client implements.
// Everything that selects or encodes a mechanism switches over the full
// set.
type Method uint8

const (
	MethodCRAMMD5 Method = iota
	MethodLogin
	MethodPlain
	MethodXOAuth2
)

var ErrUnknownMethod = errors.New("unknown authentication method")

func (m Method) String() string {
	switch m {
	case MethodCRAMMD5:
		return "CRAM-MD5"
	case MethodLogin:
		return "LOGIN"
	case MethodPlain:
		return "PLAIN"
	case MethodXOAuth2:
		return "XOAUTH2"
	}

	return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
}

// ParseMethod maps a mechanism token to its Method. Tokens are matched
// case-insensitively; configuration files and servers disagree on casing.
func ParseMethod(token string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "CRAM-MD5":
		return MethodCRAMMD5, nil
	case "LOGIN":
		return MethodLogin, nil
	case "PLAIN":
		return MethodPlain, nil
	case "XOAUTH2":
		return MethodXOAuth2, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, token)
}

func ParseMethods(tokens []string) ([]Method, error) {
	methods := make([]Method, 0, len(tokens))

	for _, token := range tokens {
		method, err := ParseMethod(token)
		if err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}

	return methods, nil
}
