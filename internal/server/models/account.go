// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"
	"unicode"
)

// Status describes whether an account may be used.
type Status int

const (
	StatusActive  Status = 1
	StatusBlocked Status = 2
)

// Account is a provisioned identity.
type Account struct {
	ID string
	// Name is the display name, normalized with NormalizeName at write time.
	Name string
	// Login is the unique login/email of the account.
	Login        string
	PasswordHash string
	Status       Status
	// MediaReferenceID points to the account's profile image, if any.
	MediaReferenceID string
	CreatedAt        time.Time
}

// NormalizeName capitalizes the first rune of every space-delimited token and
// lower-cases the rest. Tokens are split on spaces only, so hyphenated or
// apostrophed tokens keep a single leading capital ("mary-ann" -> "Mary-ann").
// The function is idempotent.
func NormalizeName(name string) string {
	tokens := strings.Split(name, " ")
	for i, token := range tokens {
		if token == "" {
			continue
		}
		runes := []rune(strings.ToLower(token))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
