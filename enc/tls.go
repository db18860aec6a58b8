package enc

import (
	"crypto/tls"
	"fmt"

	"github.com/croessner/smtp-login/config"
)

// GetClientTLSConfig builds the client-side TLS configuration used for the
// replacement connection after STARTTLS. Returns nil when the secure
// policy is off; the session then stays in plaintext.
func GetClientTLSConfig(client config.Client) (*tls.Config, error) {
	if client.Secure == false {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		ServerName:         client.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: client.TLS.SkipVerify,
	}

	if client.TLS.Cert == "" && client.TLS.Key == "" {
		return tlsConfig, nil
	}

	if client.TLS.Cert == "" || client.TLS.Key == "" {
		return nil, fmt.Errorf("client certificate requires both cert and key")
	}

	cert, err := tls.LoadX509KeyPair(client.TLS.Cert, client.TLS.Key)
	if err != nil {
		return nil, fmt.Errorf("error while loading TLS certificate or key: %v", err)
	}

	tlsConfig.Certificates = []tls.Certificate{cert}

	return tlsConfig, nil
}
