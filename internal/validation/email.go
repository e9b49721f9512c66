package validation

import (
	"net/mail"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return invalid("email", "is too long (max 254 characters)")
	}

	if email == "" {
		return invalid("email", "is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "is not a valid address")
	}

	return nil
}
