package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	iface "github.com/croessner/smtp-login/interfaces"
)

// fakeScript describes how one port behaves: the greeting pushed after a
// successful dial and a handler factory producing per-connection reply
// logic. Ports without a script refuse the connection.
type fakeScript struct {
	greeting  []string
	handler   func() func(line string) []string
	dialErr   error
	dialDelay time.Duration
}

// replyTable builds a handler that matches the whole written line first and
// its verb second. Lines without an entry get a 500.
func replyTable(steps map[string][]string) func() func(line string) []string {
	return func() func(line string) []string {
		return func(line string) []string {
			if reply, ok := steps[line]; ok {
				return reply
			}

			if fields := strings.Fields(line); len(fields) > 0 {
				if reply, ok := steps[fields[0]]; ok {
					return reply
				}
			}

			return []string{"500 5.5.1 command unrecognized"}
		}
	}
}

type fakeTransport struct {
	scripts  map[int]*fakeScript
	conns    []*fakeConn
	attempts []int
	mu       sync.Mutex
}

var _ iface.Transport = (*fakeTransport)(nil)

func newFakeTransport() *fakeTransport {
	return &fakeTransport{scripts: make(map[int]*fakeScript)}
}

func (t *fakeTransport) NewConn() iface.TransportConn {
	t.mu.Lock()

	defer t.mu.Unlock()

	conn := &fakeConn{transport: t}
	t.conns = append(t.conns, conn)

	return conn
}

func (t *fakeTransport) attemptedPorts() []int {
	t.mu.Lock()

	defer t.mu.Unlock()

	return append([]int(nil), t.attempts...)
}

func (t *fakeTransport) openConns() int {
	t.mu.Lock()
	conns := append([]*fakeConn(nil), t.conns...)
	t.mu.Unlock()

	open := 0

	for _, conn := range conns {
		if conn.IsConnected() {
			open++
		}
	}

	return open
}

func (t *fakeTransport) writtenLines() []string {
	t.mu.Lock()
	conns := append([]*fakeConn(nil), t.conns...)
	t.mu.Unlock()

	var lines []string

	for _, conn := range conns {
		lines = append(lines, conn.writtenTo()...)
	}

	return lines
}

type fakeConn struct {
	transport *fakeTransport
	handle    func(line string) []string
	queue     []string
	wrote     []string
	tlsConfig *tls.Config
	port      int
	connected bool
	encrypted bool
	closed    bool
	mu        sync.Mutex
}

var _ iface.TransportConn = (*fakeConn)(nil)

func (c *fakeConn) AttachTLS(tlsConfig *tls.Config) {
	c.tlsConfig = tlsConfig
}

func (c *fakeConn) Connect(host string, port int, timeout time.Duration) error {
	c.transport.mu.Lock()
	c.transport.attempts = append(c.transport.attempts, port)
	script := c.transport.scripts[port]
	c.transport.mu.Unlock()

	if script == nil {
		return fmt.Errorf("dial tcp %s:%d: connection refused", host, port)
	}

	if script.dialDelay > 0 {
		time.Sleep(script.dialDelay)
	}

	if script.dialErr != nil {
		return script.dialErr
	}

	c.mu.Lock()

	defer c.mu.Unlock()

	c.connected = true
	c.encrypted = c.tlsConfig != nil
	c.port = port
	c.queue = append(c.queue, script.greeting...)

	if script.handler != nil {
		c.handle = script.handler()
	}

	return nil
}

func (c *fakeConn) ReadLine() (string, error) {
	c.mu.Lock()

	defer c.mu.Unlock()

	if !c.connected || c.closed {
		return "", fmt.Errorf("connection not open")
	}

	if len(c.queue) == 0 {
		return "", io.EOF
	}

	line := c.queue[0]
	c.queue = c.queue[1:]

	return line, nil
}

func (c *fakeConn) WriteLine(line string) error {
	c.mu.Lock()

	defer c.mu.Unlock()

	if !c.connected || c.closed {
		return fmt.Errorf("connection not open")
	}

	c.wrote = append(c.wrote, line)

	if c.handle != nil {
		c.queue = append(c.queue, c.handle(line)...)
	}

	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()

	defer c.mu.Unlock()

	c.closed = true
	c.connected = false

	return nil
}

func (c *fakeConn) IsConnected() bool {
	c.mu.Lock()

	defer c.mu.Unlock()

	return c.connected && !c.closed
}

func (c *fakeConn) IsEncrypted() bool {
	c.mu.Lock()

	defer c.mu.Unlock()

	return c.encrypted
}

func (c *fakeConn) TLSState() (tls.ConnectionState, bool) {
	c.mu.Lock()

	defer c.mu.Unlock()

	if !c.encrypted {
		return tls.ConnectionState{}, false
	}

	return tls.ConnectionState{
		Version:     tls.VersionTLS13,
		CipherSuite: tls.TLS_AES_128_GCM_SHA256,
	}, true
}

func (c *fakeConn) SetDeadline(deadline time.Time) error {
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 53412}
}

func (c *fakeConn) RemoteAddr() net.Addr {
	c.mu.Lock()

	defer c.mu.Unlock()

	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: c.port}
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()

	defer c.mu.Unlock()

	return c.closed
}

func (c *fakeConn) writtenTo() []string {
	c.mu.Lock()

	defer c.mu.Unlock()

	return append([]string(nil), c.wrote...)
}
