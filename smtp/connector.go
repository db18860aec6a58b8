package smtp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/croessner/smtp-login/context"
	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/proto"
)

// Connector produces connected sessions. Every attempt runs on its own
// goroutine and is bounded by the connect timeout, which covers the dial
// and the server greeting together.
type Connector struct {
	transport iface.Transport
	parser    iface.ResponseParser
	ctx       *context.Context
}

func NewConnector(ctx *context.Context, transport iface.Transport, parser iface.ResponseParser) *Connector {
	return &Connector{
		transport: transport,
		parser:    parser,
		ctx:       ctx,
	}
}

// CandidatePorts builds the port priority list: the explicitly requested
// port first, then plain SMTP, its common alternative and the submission
// port, de-duplicated while keeping the order.
func CandidatePorts(requested int) []int {
	candidates := []int{proto.PortSMTP, proto.PortSMTPAlt, proto.PortSubmission}

	if requested > 0 {
		candidates = append([]int{requested}, candidates...)
	}

	seen := make(map[int]struct{}, len(candidates))
	ports := make([]int, 0, len(candidates))

	for _, port := range candidates {
		if _, found := seen[port]; found {
			continue
		}

		seen[port] = struct{}{}

		ports = append(ports, port)
	}

	return ports
}

// Connect walks the candidate ports in order and returns the first session
// whose dial and greeting completed within the timeout.
func (c *Connector) Connect(host string, ports []int, timeout time.Duration) (*SessionImpl, error) {
	logger := log.GetLogger(c.ctx)

	for _, port := range ports {
		session, err := c.attempt(host, port, timeout, nil)
		if err != nil {
			if c.ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
			}

			logger.Debug("Connection attempt failed",
				slog.String(log.KeyHost, host),
				slog.Int(log.KeyPort, port),
				slog.String(log.KeyError, err.Error()),
			)

			continue
		}

		logger.Info("Connected",
			slog.String(log.KeyHost, host),
			slog.Int(log.KeyPort, port),
			slog.String(log.KeyLocal, session.LocalAddr().String()),
			slog.String(log.KeyRemote, session.RemoteAddr().String()),
			session.Session(),
		)

		return session, nil
	}

	return nil, fmt.Errorf("%w: no candidate port of %v accepted a connection to %s", ErrConnectionFailed, ports, host)
}

// ConnectTLS dials the TLS-designated port once, with the client TLS
// configuration attached before the dial. This is the replacement
// connection after STARTTLS; there is no port fallback on this path.
func (c *Connector) ConnectTLS(host string, port int, timeout time.Duration, tlsConfig *tls.Config) (*SessionImpl, error) {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}

	session, err := c.attempt(host, port, timeout, tlsConfig)
	if err != nil {
		return nil, err
	}

	session.InitializeTLSFields()

	log.GetLogger(c.ctx).Info("Encrypted connection established",
		slog.String(log.KeyHost, host),
		slog.Int(log.KeyPort, port),
		session.Session(),
		slog.String(log.KeyTLSProtocol, session.GetTLSProtocol()),
		slog.String(log.KeyTLSCipherSuite, session.GetTLSCipherSuite()),
		slog.String(log.KeyTLSServerCName, session.GetTLSServerCName()),
		slog.String(log.KeyTLSServerDN, session.GetTLSServerDN()),
		slog.String(log.KeyTLSIssuerDN, session.GetTLSIssuerDN()),
		slog.String(log.KeyTLSNotBefore, session.GetTLSNotBefore()),
		slog.String(log.KeyTLSNotAfter, session.GetTLSNotAfter()),
		slog.String(log.KeyTLSSerial, session.GetTLSSerial()),
		slog.String(log.KeyTLSDNSNames, session.GetTLSDNSNames()),
		slog.String(log.KeyTLSFingerprint, session.GetTLSFingerprint()),
		slog.Bool(log.KeyTLSVerified, session.GetTLSVerified()),
	)

	return session, nil
}

type attemptResult struct {
	session *SessionImpl
	err     error
}

// attempt dials one port on its own goroutine and joins it with the
// timeout and the context. When either wins, the attempt is abandoned; the
// goroutine notices on completion and closes whatever it opened instead of
// handing it to a caller that has moved on.
func (c *Connector) attempt(host string, port int, timeout time.Duration, tlsConfig *tls.Config) (*SessionImpl, error) {
	results := make(chan attemptResult)
	abandoned := make(chan struct{})

	go func() {
		conn := c.transport.NewConn()

		if tlsConfig != nil {
			conn.AttachTLS(tlsConfig)
		}

		session, err := c.open(conn, host, port, timeout)

		select {
		case results <- attemptResult{session: session, err: err}:
		case <-abandoned:
			_ = conn.Close()
		}
	}()

	select {
	case result := <-results:
		return result.session, result.err
	case <-c.ctx.Done():
		close(abandoned)

		return nil, fmt.Errorf("connect %s:%d: %w", host, port, c.ctx.Err())
	case <-time.After(timeout):
		close(abandoned)

		return nil, fmt.Errorf("connect %s:%d: no greeting within %s", host, port, timeout)
	}
}

// open performs the blocking part of one attempt: dial, wrap the handle in
// a session and consume the server greeting.
func (c *Connector) open(conn iface.TransportConn, host string, port int, timeout time.Duration) (*SessionImpl, error) {
	if err := conn.Connect(host, port, timeout); err != nil {
		return nil, err
	}

	session := NewSession(c.ctx, conn, c.parser, host, port, timeout)

	responses, err := session.ReadResponse("greeting")
	if err != nil {
		_ = conn.Close()

		return nil, err
	}

	if reply := responses[len(responses)-1]; reply.Code != proto.CodeReady {
		_ = conn.Close()

		return nil, &proto.ReplyError{Command: "greeting", Code: reply.Code, Message: reply.Message}
	}

	if !conn.IsConnected() {
		return nil, fmt.Errorf("connect %s:%d: transport closed during greeting", host, port)
	}

	return session, nil
}
