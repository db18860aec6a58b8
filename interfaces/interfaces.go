package iface

import (
	"crypto/tls"
	"log/slog"
	"net"
	"time"

	"github.com/croessner/smtp-login/smtp/proto"
)

type Transport interface {
	NewConn() TransportConn
}

type TransportConn interface {
	AttachTLS(tlsConfig *tls.Config)
	Connect(host string, port int, timeout time.Duration) error
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	IsConnected() bool
	IsEncrypted() bool
	TLSState() (tls.ConnectionState, bool)
	SetDeadline(deadline time.Time) error
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

type ResponseParser interface {
	ParseLine(line string, command string) (proto.Response, error)
}

type SMTPSession interface {
	WriteLine(line string) error
	ReadResponse(command string) ([]proto.Response, error)
	Exchange(command string) ([]proto.Response, error)
	Session() slog.Attr
	GetLogger() *slog.Logger
	GetTLSFlag() bool
	Quit() error
	Close() error
}

type SMTPCommand interface {
	Execute(session SMTPSession) error
}
