package commands

import (
	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/smtp/proto"
)

// Noop asks the server for a sign of life without changing any state.
type Noop struct{}

var _ iface.SMTPCommand = (*Noop)(nil)

func (c *Noop) Execute(session iface.SMTPSession) error {
	responses, err := session.Exchange(proto.NOOP)
	if err != nil {
		return err
	}

	if reply := responses[len(responses)-1]; reply.Code != proto.CodeOK {
		return &proto.ReplyError{Command: proto.NOOP, Code: reply.Code, Message: reply.Message}
	}

	return nil
}
