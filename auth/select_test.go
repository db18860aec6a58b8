package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		advertised []string
		client     []Method
		want       Method
		wantErr    bool
	}{
		{
			name:       "server order wins over client order",
			advertised: []string{"LOGIN", "PLAIN"},
			client:     []Method{MethodPlain, MethodLogin},
			want:       MethodLogin,
		},
		{
			name:       "unknown server tokens are skipped",
			advertised: []string{"SCRAM-SHA-256", "GSSAPI", "PLAIN"},
			client:     []Method{MethodPlain},
			want:       MethodPlain,
		},
		{
			name:       "client list filters eligibility",
			advertised: []string{"PLAIN", "LOGIN"},
			client:     []Method{MethodLogin},
			want:       MethodLogin,
		},
		{
			name:       "lowercase advertisement",
			advertised: []string{"cram-md5"},
			client:     []Method{MethodCRAMMD5},
			want:       MethodCRAMMD5,
		},
		{
			name:       "no overlap",
			advertised: []string{"PLAIN"},
			client:     []Method{MethodXOAuth2},
			wantErr:    true,
		},
		{
			name:       "nothing advertised",
			advertised: nil,
			client:     []Method{MethodPlain, MethodLogin},
			wantErr:    true,
		},
		{
			name:       "only unknown mechanisms advertised",
			advertised: []string{"GSSAPI", "NTLM"},
			client:     []Method{MethodPlain},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := Select(tt.advertised, tt.client)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoSupportedMethod)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, method)
		})
	}
}
