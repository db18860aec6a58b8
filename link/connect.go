package link

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/textproto"
	"strconv"
	"time"

	iface "github.com/croessner/smtp-login/interfaces"
)

type Transport struct{}

var _ iface.Transport = (*Transport)(nil)

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) NewConn() iface.TransportConn {
	return &Conn{}
}

// Conn is one TCP connection to the server, optionally TLS-wrapped when a
// TLS configuration was attached before Connect.
type Conn struct {
	rawConn   net.Conn
	tpConn    *textproto.Conn
	tlsConfig *tls.Config
	tlsFlag   bool
}

var _ iface.TransportConn = (*Conn)(nil)

func (c *Conn) AttachTLS(tlsConfig *tls.Config) {
	c.tlsConfig = tlsConfig
}

func (c *Conn) Connect(host string, port int, timeout time.Duration) error {
	var (
		conn net.Conn
		err  error
	)

	if c.rawConn != nil {
		return fmt.Errorf("connection to %s already open", c.rawConn.RemoteAddr())
	}

	address := net.JoinHostPort(host, strconv.Itoa(port))

	if c.tlsConfig != nil {
		dialer := &net.Dialer{Timeout: timeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", address, c.tlsConfig)
	} else {
		conn, err = net.DialTimeout("tcp", address, timeout)
	}

	if err != nil {
		return err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	if tlsConn, ok := conn.(*tls.Conn); ok {
		if tcpConn, ok := tlsConn.NetConn().(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}

		c.tlsFlag = true
	}

	c.rawConn = conn
	c.tpConn = textproto.NewConn(conn)

	return nil
}

func (c *Conn) ReadLine() (string, error) {
	if c.tpConn == nil {
		return "", fmt.Errorf("connection not open")
	}

	return c.tpConn.ReadLine()
}

func (c *Conn) WriteLine(line string) error {
	if c.tpConn == nil {
		return fmt.Errorf("connection not open")
	}

	return c.tpConn.PrintfLine("%s", line)
}

func (c *Conn) Close() error {
	if c.tpConn == nil {
		return nil
	}

	err := c.tpConn.Close()

	c.tpConn = nil
	c.rawConn = nil

	return err
}

func (c *Conn) IsConnected() bool {
	return c.rawConn != nil
}

func (c *Conn) IsEncrypted() bool {
	return c.tlsFlag
}

func (c *Conn) TLSState() (tls.ConnectionState, bool) {
	tlsConn, ok := c.rawConn.(*tls.Conn)
	if !ok {
		return tls.ConnectionState{}, false
	}

	return tlsConn.ConnectionState(), true
}

func (c *Conn) SetDeadline(deadline time.Time) error {
	if c.rawConn == nil {
		return fmt.Errorf("connection not open")
	}

	return c.rawConn.SetDeadline(deadline)
}

func (c *Conn) LocalAddr() net.Addr {
	if c.rawConn == nil {
		return nil
	}

	return c.rawConn.LocalAddr()
}

func (c *Conn) RemoteAddr() net.Addr {
	if c.rawConn == nil {
		return nil
	}

	return c.rawConn.RemoteAddr()
}
