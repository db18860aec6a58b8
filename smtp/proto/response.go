package proto

import (
	"errors"
	"fmt"
	"strconv"
)

// Response is a single reply line sent by the server. Multi-line replies
// arrive as a sequence of Responses sharing a code; Last marks the closing
// line of the reply.
type Response struct {
	Message string
	Code    int
	Last    bool
}

func (r Response) String() string {
	separator := " "
	if !r.Last {
		separator = "-"
	}

	return fmt.Sprintf("%d%s%s", r.Code, separator, r.Message)
}

var ErrMalformedResponse = errors.New("malformed server response")

// ReplyError carries a negative server reply together with the command that
// provoked it. The message is kept verbatim.
type ReplyError struct {
	Command string
	Message string
	Code    int
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("%s: server replied %d %s", e.Command, e.Code, e.Message)
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseLine turns one raw reply line into a Response. The command name is
// only used to give parse failures a context.
func (p *Parser) ParseLine(line string, command string) (Response, error) {
	if len(line) < 3 {
		return Response{}, fmt.Errorf("%s: %w: %q", command, ErrMalformedResponse, line)
	}

	code, err := strconv.Atoi(line[:3])
	if err != nil || code < 100 || code > 599 {
		return Response{}, fmt.Errorf("%s: %w: %q", command, ErrMalformedResponse, line)
	}

	if len(line) == 3 {
		return Response{Code: code, Last: true}, nil
	}

	switch line[3] {
	case ' ':
		return Response{Code: code, Message: line[4:], Last: true}, nil
	case '-':
		return Response{Code: code, Message: line[4:], Last: false}, nil
	}

	return Response{}, fmt.Errorf("%s: %w: %q", command, ErrMalformedResponse, line)
}
