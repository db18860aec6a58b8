package commands

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/emersion/go-sasl"

	iface "github.com/croessner/smtp-login/interfaces"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp/proto"
)

// Authenticate drives one SASL dialogue over an established session: the
// initial response if the mechanism has one, then base64 challenge turns
// until the server settles on a final status. A mechanism-level error
// aborts the exchange with "*" so the connection stays usable for the
// error path.
type Authenticate struct {
	Mechanism sasl.Client
}

func NewAuthenticate(mechanism sasl.Client) *Authenticate {
	return &Authenticate{
		Mechanism: mechanism,
	}
}

var _ iface.SMTPCommand = (*Authenticate)(nil)

func (c *Authenticate) Execute(session iface.SMTPSession) error {
	mech, initialResponse, err := c.Mechanism.Start()
	if err != nil {
		return err
	}

	command := proto.AUTH + " " + mech

	if initialResponse != nil {
		if len(initialResponse) == 0 {
			// RFC 4954: a zero-length initial response travels as "=".
			command += " ="
		} else {
			command += " " + base64.StdEncoding.EncodeToString(initialResponse)
		}
	}

	responses, err := session.Exchange(command)
	if err != nil {
		return err
	}

	var (
		challenge []byte
		response  []byte
	)

	reply := responses[len(responses)-1]

	for reply.Code == proto.CodeChallenge {
		challenge, err = base64.StdEncoding.DecodeString(reply.Message)
		if err != nil {
			c.abort(session)

			return fmt.Errorf("%s %s: %w: challenge is not base64: %q", proto.AUTH, mech, proto.ErrMalformedResponse, reply.Message)
		}

		response, err = c.Mechanism.Next(challenge)
		if err != nil {
			c.abort(session)

			return err
		}

		responses, err = session.Exchange(base64.StdEncoding.EncodeToString(response))
		if err != nil {
			return err
		}

		reply = responses[len(responses)-1]
	}

	if reply.Code != proto.CodeAuthOK {
		return &proto.ReplyError{Command: proto.AUTH + " " + mech, Code: reply.Code, Message: reply.Message}
	}

	session.GetLogger().Debug("Server accepted credentials",
		slog.String(log.KeyMethod, mech),
		session.Session(),
	)

	return nil
}

// abort cancels a half-finished AUTH exchange, see RFC 4954 section 4. The
// server answers with an error status that carries no information beyond
// the abort itself.
func (c *Authenticate) abort(session iface.SMTPSession) {
	_, _ = session.Exchange("*")
}
