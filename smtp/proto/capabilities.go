package proto

import "strings"

// Capabilities is the view over an EHLO reply. A HELO reply yields the
// zero value: no extensions, no STARTTLS, no AUTH mechanisms.
type Capabilities struct {
	extensions  []string
	authMethods []string
	startTLS    bool
}

func NewCapabilities() *Capabilities {
	return &Capabilities{}
}

// ParseCapabilities derives Capabilities from an EHLO reply sequence. The
// first line carries the server identity and is skipped. STARTTLS only
// counts when advertised as a standalone keyword line; AUTH mechanism
// tokens keep their server order across one or more AUTH lines.
func ParseCapabilities(responses []Response) *Capabilities {
	capabilities := NewCapabilities()

	for index, response := range responses {
		if index == 0 {
			continue
		}

		line := strings.TrimSpace(response.Message)
		if line == "" {
			continue
		}

		capabilities.extensions = append(capabilities.extensions, line)

		fields := strings.Fields(line)

		switch strings.ToUpper(fields[0]) {
		case STARTTLS:
			if len(fields) == 1 {
				capabilities.startTLS = true
			}
		case AUTH:
			for _, mechanism := range fields[1:] {
				capabilities.authMethods = append(capabilities.authMethods, strings.ToUpper(mechanism))
			}
		}
	}

	return capabilities
}

func (c *Capabilities) HasStartTLS() bool {
	return c.startTLS
}

func (c *Capabilities) GetAuthMethods() []string {
	return c.authMethods
}

func (c *Capabilities) GetExtensions() []string {
	return c.extensions
}

func (c *Capabilities) HasExtension(keyword string) bool {
	for _, extension := range c.extensions {
		fields := strings.Fields(extension)

		if strings.EqualFold(fields[0], keyword) {
			return true
		}
	}

	return false
}
