package auth

import "github.com/emersion/go-sasl"

// loginClient implements the obsolete but widely deployed LOGIN mechanism:
// no initial response, then one turn for the username and one for the
// password. The prompt text is ignored; servers send anything from
// "Username:" to localized strings.
type loginClient struct {
	username string
	password string
	step     int
}

var _ sasl.Client = (*loginClient)(nil)

func newLoginClient(username, password string) sasl.Client {
	return &loginClient{username: username, password: password}
}

func (a *loginClient) Start() (string, []byte, error) {
	return sasl.Login, nil, nil
}

func (a *loginClient) Next(challenge []byte) ([]byte, error) {
	a.step++

	switch a.step {
	case 1:
		return []byte(a.username), nil
	case 2:
		return []byte(a.password), nil
	}

	return nil, sasl.ErrUnexpectedServerChallenge
}
