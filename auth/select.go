package auth

import "errors"

var ErrNoSupportedMethod = errors.New("no supported authentication method")

// Select walks the server-advertised mechanism tokens in server order and
// returns the first one the client list contains. The client list filters
// eligibility, it never reorders the server's preference.
func Select(advertised []string, clientMethods []Method) (Method, error) {
	for _, token := range advertised {
		method, err := ParseMethod(token)
		if err != nil {
			// Tokens without a local implementation are skipped.
			continue
		}

		for _, allowed := range clientMethods {
			if method == allowed {
				return method, nil
			}
		}
	}

	return 0, ErrNoSupportedMethod
}
