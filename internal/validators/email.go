package validators

import (
	"net/mail"
	"strings"
)

// IsEmail accepts a bare address with a dotted domain. Display names
// ("Ana <ana@x.com>") are rejected: the console stores addresses only.
func IsEmail(email string) bool {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
