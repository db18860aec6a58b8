package auth

import (
	"bytes"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Challenge and digest from RFC 2195 section 2.
func TestCramMD5KnownAnswer(t *testing.T) {
	client, err := NewMechanism(MethodCRAMMD5, Credentials{Username: "tim", Password: "tanstaaftanstaaf"})
	require.NoError(t, err)

	mech, initialResponse, err := client.Start()
	require.NoError(t, err)
	assert.Equal(t, "CRAM-MD5", mech)
	assert.Nil(t, initialResponse)

	response, err := client.Next([]byte("<1896.697170952@postoffice.reston.mci.net>"))
	require.NoError(t, err)
	assert.Equal(t, "tim b913a602c7eda7a495b4e6e7334d3890", string(response))
}

func TestLoginAnswersChallengesInOrder(t *testing.T) {
	client, err := NewMechanism(MethodLogin, Credentials{Username: "user@example.com", Password: "secret"})
	require.NoError(t, err)

	mech, initialResponse, err := client.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.Login, mech)
	assert.Nil(t, initialResponse)

	// Prompt text varies between servers and must not matter.
	username, err := client.Next([]byte("Benutzername:"))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", string(username))

	password, err := client.Next([]byte("2.Password"))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(password))

	_, err = client.Next([]byte("again?"))
	assert.ErrorIs(t, err, sasl.ErrUnexpectedServerChallenge)
}

func TestPlainInitialResponse(t *testing.T) {
	client, err := NewMechanism(MethodPlain, Credentials{Username: "a@b.com", Password: "p"})
	require.NoError(t, err)

	mech, initialResponse, err := client.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.Plain, mech)
	assert.Equal(t, []byte("\x00a@b.com\x00p"), initialResponse)

	// The blob decodes back into the original pair.
	parts := bytes.Split(initialResponse, []byte{0})
	require.Len(t, parts, 3)
	assert.Empty(t, parts[0])
	assert.Equal(t, "a@b.com", string(parts[1]))
	assert.Equal(t, "p", string(parts[2]))
}

func TestXOAuth2InitialResponse(t *testing.T) {
	client, err := NewMechanism(MethodXOAuth2, Credentials{Username: "user@example.com", AccessToken: "ya29.token"})
	require.NoError(t, err)

	mech, initialResponse, err := client.Start()
	require.NoError(t, err)
	assert.Equal(t, "XOAUTH2", mech)
	assert.Equal(t, "user=user@example.com\x01auth=Bearer ya29.token\x01\x01", string(initialResponse))
}

func TestXOAuth2AcknowledgesOneErrorChallenge(t *testing.T) {
	client, err := NewMechanism(MethodXOAuth2, Credentials{Username: "u", AccessToken: "tok"})
	require.NoError(t, err)

	_, _, err = client.Start()
	require.NoError(t, err)

	// The error document gets an empty reply so the server can finish with
	// its final status.
	response, err := client.Next([]byte(`{"status":"401"}`))
	require.NoError(t, err)
	assert.NotNil(t, response)
	assert.Empty(t, response)

	_, err = client.Next([]byte("again"))
	assert.ErrorIs(t, err, sasl.ErrUnexpectedServerChallenge)
}

func TestXOAuth2RequiresAccessToken(t *testing.T) {
	client, err := NewMechanism(MethodXOAuth2, Credentials{Username: "u", Password: "ignored"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAccessToken)
	assert.Nil(t, client)
}

func TestNewMechanismRejectsUnknownMethod(t *testing.T) {
	client, err := NewMechanism(Method(99), Credentials{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.Nil(t, client)
}

func TestCredentialsStringHidesSecrets(t *testing.T) {
	credentials := Credentials{Username: "user@example.com", Password: "hunter2", AccessToken: "ya29.raw-token"}

	dump := credentials.String()

	assert.Contains(t, dump, "user@example.com")
	assert.Contains(t, dump, "<hidden>")
	assert.NotContains(t, dump, "hunter2")
	assert.NotContains(t, dump, "ya29")
}
