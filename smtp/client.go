package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/croessner/smtp-login/auth"
	"github.com/croessner/smtp-login/context"
	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/commands"
	"github.com/croessner/smtp-login/smtp/proto"
)

const (
	DefaultDomainName     = "localhost"
	DefaultConnectTimeout = 30 * time.Second
)

// Options configures one Client. The zero value is usable once Host is
// set: ports, domain name, timeout and method list fall back to defaults.
type Options struct {
	Host           string
	DomainName     string
	AuthMethods    []auth.Method
	TLSConfig      *tls.Config
	ConnectTimeout time.Duration
	Port           int
	TLSPort        int
	Secure         bool
}

func (o Options) withDefaults() Options {
	if o.DomainName == "" {
		o.DomainName = DefaultDomainName
	}

	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	if o.TLSPort <= 0 {
		o.TLSPort = proto.PortSubmission
	}

	if len(o.AuthMethods) == 0 {
		o.AuthMethods = []auth.Method{auth.MethodCRAMMD5, auth.MethodPlain, auth.MethodLogin}
	}

	return o
}

// Client drives one login: connect with port fallback, negotiate
// capabilities, opportunistically upgrade to TLS, pick the mechanism both
// sides support and run it. An instance is good for exactly one Login
// call.
type Client struct {
	transport iface.Transport
	parser    iface.ResponseParser
	ctx       *context.Context
	opts      Options
	state     State
}

func NewClient(ctx *context.Context, transport iface.Transport, opts Options) *Client {
	return &Client{
		transport: transport,
		parser:    proto.NewParser(),
		ctx:       ctx,
		opts:      opts.withDefaults(),
		state:     StateDisconnected,
	}
}

func (c *Client) State() State {
	return c.state
}

func (c *Client) setState(next State, session *SessionImpl) {
	c.state = next

	attrs := []any{slog.String(log.KeyState, next.String())}

	if session != nil {
		attrs = append(attrs, session.Session())
	}

	log.GetLogger(c.ctx).Debug("State transition", attrs...)
}

// Login runs the whole sequence and hands the authenticated session to the
// caller, who owns it from then on. Failures come back as a *LoginError
// wrapping a category sentinel; whatever connection was open at that point
// is closed before Login returns.
func (c *Client) Login(credentials auth.Credentials) (*SessionImpl, error) {
	logger := log.GetLogger(c.ctx)
	connector := NewConnector(c.ctx, c.transport, c.parser)

	c.setState(StateConnecting, nil)

	session, err := connector.Connect(c.opts.Host, CandidatePorts(c.opts.Port), c.opts.ConnectTimeout)
	if err != nil {
		return nil, c.fail(nil, nil, err)
	}

	c.setState(StateConnected, session)

	capabilities, err := c.negotiate(session)
	if err != nil {
		return nil, c.fail(session, ErrProtocol, err)
	}

	c.setState(StateNegotiated, session)

	if c.opts.Secure && capabilities.HasStartTLS() {
		session, err = c.upgrade(connector, session)
		if err != nil {
			return nil, c.fail(session, ErrTLS, err)
		}

		capabilities, err = c.negotiate(session)
		if err != nil {
			return nil, c.fail(session, ErrProtocol, err)
		}

		c.setState(StateRenegotiated, session)
	} else if c.opts.Secure {
		logger.Debug("STARTTLS not advertised, staying in plaintext", session.Session())
	}

	method, err := auth.Select(capabilities.GetAuthMethods(), c.opts.AuthMethods)
	if err != nil {
		return nil, c.fail(session, nil, err)
	}

	c.setState(StateMethodSelected, session)
	logger.Debug("Authentication method selected",
		slog.String(log.KeyMethod, method.String()),
		session.Session(),
	)

	mechanism, err := auth.NewMechanism(method, credentials)
	if err != nil {
		return nil, c.fail(session, nil, err)
	}

	c.setState(StateAuthenticating, session)

	authenticate := &commands.Authenticate{Mechanism: mechanism}
	if err = authenticate.Execute(session); err != nil {
		return nil, c.fail(session, authFailureCategory(err), err)
	}

	c.setState(StateReady, session)
	logger.Info("Authentication succeeded",
		slog.String(log.KeyHost, c.opts.Host),
		slog.String(log.KeyMethod, method.String()),
		slog.Bool("encrypted", session.GetTLSFlag()),
		session.Session(),
	)

	return session, nil
}

// negotiate runs the capability exchange on the given session.
func (c *Client) negotiate(session *SessionImpl) (*proto.Capabilities, error) {
	ehlo := &commands.Ehlo{Domain: c.opts.DomainName}
	if err := ehlo.Execute(session); err != nil {
		return nil, err
	}

	return ehlo.Capabilities, nil
}

// upgrade replaces the plaintext session with an encrypted one: STARTTLS,
// full close of the old handle, fresh dial on the TLS port. The returned
// session still needs a renegotiation, because capabilities may change
// across the upgrade. On error the returned session is whichever handle is
// still open, or nil.
func (c *Client) upgrade(connector *Connector, session *SessionImpl) (*SessionImpl, error) {
	c.setState(StateTLSUpgrading, session)

	startTLS := &commands.StartTLS{}
	if err := startTLS.Execute(session); err != nil {
		return session, err
	}

	// After the positive STARTTLS reply the old socket must not see
	// another plaintext command.
	_ = session.Close()

	tlsSession, err := connector.ConnectTLS(c.opts.Host, c.opts.TLSPort, c.opts.ConnectTimeout, c.opts.TLSConfig)
	if err != nil {
		return nil, err
	}

	c.setState(StateReconnected, tlsSession)

	return tlsSession, nil
}

// fail closes whatever session is still open, marks the terminal state and
// wraps the cause for the caller. The category sentinel is attached unless
// the chain already carries one.
func (c *Client) fail(session *SessionImpl, category error, err error) error {
	failedIn := c.state

	if session != nil {
		_ = session.Close()
	}

	c.setState(StateFailed, session)

	if category != nil && !errors.Is(err, category) {
		err = fmt.Errorf("%w: %w", category, err)
	}

	return &LoginError{Host: c.opts.Host, State: failedIn, Err: err}
}

// authFailureCategory distinguishes a server "no" from a broken dialogue:
// only a final negative status counts as rejected credentials.
func authFailureCategory(err error) error {
	var replyErr *proto.ReplyError

	if errors.As(err, &replyErr) {
		return ErrAuthenticationRejected
	}

	return ErrProtocol
}
