package auth

import (
	"errors"
	"fmt"

	"github.com/emersion/go-sasl"
)

var ErrMissingAccessToken = errors.New("missing access token")

// NewMechanism builds the SASL client for the selected method. The XOAUTH2
// token requirement is checked here, before any network round trip happens.
func NewMechanism(method Method, credentials Credentials) (sasl.Client, error) {
	switch method {
	case MethodCRAMMD5:
		return newCramMD5Client(credentials.Username, credentials.Password), nil
	case MethodLogin:
		return newLoginClient(credentials.Username, credentials.Password), nil
	case MethodPlain:
		return sasl.NewPlainClient("", credentials.Username, credentials.Password), nil
	case MethodXOAuth2:
		if credentials.AccessToken == "" {
			return nil, ErrMissingAccessToken
		}

		return newXOAuth2Client(credentials.Username, credentials.AccessToken), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}
