package utils

import (
	"errors"
	"strings"
)

// NormalizeEmail canonicalizes an email address by lowercasing the domain
// part only. The local part is case-sensitive per RFC 5321 and is preserved
// verbatim: "Test2@Example.COM" becomes "Test2@example.com".
//
// Returns an error when the address is empty or contains no "@" separating a
// non-empty local part from a non-empty domain.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("email is empty")
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", errors.New("email has no valid local@domain form")
	}

	return email[:at+1] + strings.ToLower(email[at+1:]), nil
}
