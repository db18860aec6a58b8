package commands

import (
	"log/slog"

	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/proto"
)

// StartTLS asks the server to accept a TLS handshake. A positive reply
// obligates the caller to drop this session and handshake on a fresh
// connection; no further command may cross the old socket.
type StartTLS struct{}

var _ iface.SMTPCommand = (*StartTLS)(nil)

func (c *StartTLS) Execute(session iface.SMTPSession) error {
	responses, err := session.Exchange(proto.STARTTLS)
	if err != nil {
		return err
	}

	if reply := responses[len(responses)-1]; reply.Code != proto.CodeReady {
		return &proto.ReplyError{Command: proto.STARTTLS, Code: reply.Code, Message: reply.Message}
	}

	session.GetLogger().Debug("Server ready for TLS",
		slog.String(log.KeyCommand, proto.STARTTLS),
		session.Session(),
	)

	return nil
}
