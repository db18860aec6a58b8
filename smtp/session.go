package smtp

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/croessner/smtp-login/context"
	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/proto"
)

// SessionImpl is one live connection to a server, plaintext or encrypted.
// A login attempt owns at most one at a time; the TLS upgrade closes the
// plaintext instance and creates a fresh one instead of mutating it.
type SessionImpl struct {
	conn   iface.TransportConn
	parser iface.ResponseParser
	logger *slog.Logger
	ctx    *context.Context

	sessionID string
	host      string

	tlsProtocol    string
	tlsCipherSuite string
	tlsServerCName string
	tlsServerDN    string
	tlsIssuerDN    string
	tlsNotBefore   string
	tlsNotAfter    string
	tlsSerial      string
	tlsDNSNames    string
	tlsFingerprint string

	commandTimeout time.Duration

	port int

	tlsVerified bool
	tlsFlag     bool
}

var _ iface.SMTPSession = (*SessionImpl)(nil)

// NewSession wraps an already connected transport handle. The command
// timeout bounds each ReadResponse call from here on.
func NewSession(ctx *context.Context, conn iface.TransportConn, parser iface.ResponseParser, host string, port int, commandTimeout time.Duration) *SessionImpl {
	return &SessionImpl{
		conn:           conn,
		parser:         parser,
		logger:         log.GetLogger(ctx),
		ctx:            ctx.Copy(),
		sessionID:      ksuid.New().String(),
		host:           host,
		port:           port,
		commandTimeout: commandTimeout,
		tlsFlag:        conn.IsEncrypted(),
	}
}

func (s *SessionImpl) WriteLine(line string) error {
	return s.conn.WriteLine(line)
}

// ReadResponse collects one full server reply to the given command,
// including every line of a multi-line reply. The status code must stay
// the same across all lines of one reply.
func (s *SessionImpl) ReadResponse(command string) ([]proto.Response, error) {
	if err := s.conn.SetDeadline(time.Now().Add(s.commandTimeout)); err != nil {
		return nil, err
	}

	defer func() {
		_ = s.conn.SetDeadline(time.Time{})
	}()

	var responses []proto.Response

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			return nil, fmt.Errorf("%s: reading response: %w", command, err)
		}

		response, err := s.parser.ParseLine(line, command)
		if err != nil {
			return nil, err
		}

		if len(responses) > 0 && responses[0].Code != response.Code {
			return nil, fmt.Errorf("%s: %w: status code changed from %d to %d within one reply",
				command, proto.ErrMalformedResponse, responses[0].Code, response.Code)
		}

		responses = append(responses, response)

		if response.Last {
			return responses, nil
		}
	}
}

// Exchange writes one command line and reads the complete reply to it.
func (s *SessionImpl) Exchange(command string) ([]proto.Response, error) {
	verb := commandVerb(command)

	if err := s.WriteLine(command); err != nil {
		return nil, fmt.Errorf("%s: writing command: %w", verb, err)
	}

	return s.ReadResponse(verb)
}

func commandVerb(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}

	return command
}

func (s *SessionImpl) Session() slog.Attr {
	return slog.String("session", s.sessionID)
}

func (s *SessionImpl) GetLogger() *slog.Logger {
	return s.logger
}

func (s *SessionImpl) GetContext() *context.Context {
	return s.ctx
}

func (s *SessionImpl) GetHost() string {
	return s.host
}

func (s *SessionImpl) GetPort() int {
	return s.port
}

func (s *SessionImpl) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *SessionImpl) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// Quit ends the session politely. The QUIT reply is read so the server
// sees an orderly shutdown, but nothing depends on its content anymore.
func (s *SessionImpl) Quit() error {
	if s.conn == nil || !s.conn.IsConnected() {
		return nil
	}

	if responses, err := s.Exchange(proto.QUIT); err == nil {
		if reply := responses[len(responses)-1]; reply.Code != proto.CodeBye {
			s.logger.Debug("Unexpected reply to QUIT",
				slog.String(log.KeyCommand, proto.QUIT),
				slog.String("reply", reply.String()),
				s.Session(),
			)
		}
	}

	return s.Close()
}

// Close drops the transport without a protocol goodbye. The TLS upgrade
// relies on this: after a positive STARTTLS reply the old socket must not
// see another plaintext command.
func (s *SessionImpl) Close() error {
	if s.conn == nil {
		return nil
	}

	return s.conn.Close()
}

func (s *SessionImpl) GetTLSFlag() bool {
	return s.tlsFlag
}

// InitializeTLSFields copies the handshake outcome of an encrypted
// connection into the session so log statements can report on it.
func (s *SessionImpl) InitializeTLSFields() {
	connectionState, ok := s.conn.TLSState()
	if !ok {
		return
	}

	s.tlsFlag = true
	s.tlsProtocol = versionToString(connectionState.Version)
	s.tlsCipherSuite = tls.CipherSuiteName(connectionState.CipherSuite)
	s.tlsVerified = len(connectionState.VerifiedChains) > 0

	if len(connectionState.PeerCertificates) == 0 {
		return
	}

	serverCert := connectionState.PeerCertificates[0]

	s.tlsFingerprint = fingerprint(serverCert)
	s.tlsServerCName = serverCert.Subject.CommonName
	s.tlsServerDN = serverCert.Subject.String()
	s.tlsIssuerDN = serverCert.Issuer.String()
	s.tlsNotBefore = serverCert.NotBefore.String()
	s.tlsNotAfter = serverCert.NotAfter.String()
	s.tlsSerial = serverCert.SerialNumber.String()

	if len(serverCert.DNSNames) > 0 {
		s.tlsDNSNames = strings.Join(serverCert.DNSNames, ", ")
	}
}

func versionToString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS1.0"
	case tls.VersionTLS11:
		return "TLS1.1"
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	}

	return "unknown"
}

func fingerprint(cert *x509.Certificate) string {
	digest := sha256.Sum256(cert.Raw)

	return hex.EncodeToString(digest[:])
}

func (s *SessionImpl) GetTLSProtocol() string {
	return s.tlsProtocol
}

func (s *SessionImpl) GetTLSCipherSuite() string {
	return s.tlsCipherSuite
}

func (s *SessionImpl) GetTLSServerCName() string {
	return s.tlsServerCName
}

func (s *SessionImpl) GetTLSServerDN() string {
	return s.tlsServerDN
}

func (s *SessionImpl) GetTLSIssuerDN() string {
	return s.tlsIssuerDN
}

func (s *SessionImpl) GetTLSNotBefore() string {
	return s.tlsNotBefore
}

func (s *SessionImpl) GetTLSNotAfter() string {
	return s.tlsNotAfter
}

func (s *SessionImpl) GetTLSSerial() string {
	return s.tlsSerial
}

func (s *SessionImpl) GetTLSDNSNames() string {
	return s.tlsDNSNames
}

func (s *SessionImpl) GetTLSFingerprint() string {
	return s.tlsFingerprint
}

func (s *SessionImpl) GetTLSVerified() bool {
	return s.tlsVerified
}
