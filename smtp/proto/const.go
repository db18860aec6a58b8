package proto

const (
	EHLO     = "EHLO"
	HELO     = "HELO"
	STARTTLS = "STARTTLS"
	AUTH     = "AUTH"
	NOOP     = "NOOP"
	QUIT     = "QUIT"
)

const (
	PIPELINING          = "PIPELINING"
	EIGHTBITMIME        = "8BITMIME"
	SMTPUTF8            = "SMTPUTF8"
	ENHANCEDSTATUSCODES = "ENHANCEDSTATUSCODES"
)

const (
	CodeReady          = 220
	CodeBye            = 221
	CodeAuthOK         = 235
	CodeOK             = 250
	CodeChallenge      = 334
	CodeUnavailable    = 421
	CodeSyntaxError    = 500
	CodeNotImplemented = 502
	CodeAuthFailed     = 535
)

const (
	PortSMTP       = 25
	PortSMTPAlt    = 2525
	PortSubmission = 587
)
