package auth

import "fmt"

// Credentials carries everything a login attempt may need. Username and
// password serve the password mechanisms; AccessToken is only consulted by
// XOAUTH2.
type Credentials struct {
	Username    string
	Password    string
	AccessToken string
}

func (c *Credentials) String() string {
	return fmt.Sprintf("{ Username: '%s' Password: '%s' AccessToken: '%s' }",
		c.Username, mask(c.Password), mask(c.AccessToken))
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return "<hidden>"
}
