package commands

import (
	"log/slog"

	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/proto"
)

// Ehlo negotiates capabilities and stores the result on the command. EHLO
// goes first; only a 500 or 502 reply marks a server that predates
// extended SMTP, in which case HELO runs instead and the result reports no
// extensions at all.
type Ehlo struct {
	Capabilities *proto.Capabilities
	Domain       string
}

func NewEhlo(domain string) *Ehlo {
	return &Ehlo{
		Domain: domain,
	}
}

var _ iface.SMTPCommand = (*Ehlo)(nil)

func (c *Ehlo) Execute(session iface.SMTPSession) error {
	responses, err := session.Exchange(proto.EHLO + " " + c.Domain)
	if err != nil {
		return err
	}

	reply := responses[len(responses)-1]

	switch reply.Code {
	case proto.CodeOK:
		c.Capabilities = proto.ParseCapabilities(responses)

		session.GetLogger().Debug("Capabilities negotiated",
			slog.String(log.KeyCommand, proto.EHLO),
			slog.Int("extensions", len(c.Capabilities.GetExtensions())),
			slog.Bool("starttls", c.Capabilities.HasStartTLS()),
			session.Session(),
		)

		return nil
	case proto.CodeSyntaxError, proto.CodeNotImplemented:
		// Pre-extension server, the only reply that justifies HELO.
	default:
		return &proto.ReplyError{Command: proto.EHLO, Code: reply.Code, Message: reply.Message}
	}

	session.GetLogger().Debug("EHLO rejected, falling back to HELO",
		slog.String(log.KeyCommand, proto.HELO),
		session.Session(),
	)

	responses, err = session.Exchange(proto.HELO + " " + c.Domain)
	if err != nil {
		return err
	}

	if reply = responses[len(responses)-1]; reply.Code != proto.CodeOK {
		return &proto.ReplyError{Command: proto.HELO, Code: reply.Code, Message: reply.Message}
	}

	c.Capabilities = proto.NewCapabilities()

	return nil
}
