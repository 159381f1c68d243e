// Package credentials implements the credential subsystem used by account
// provisioning: a password policy producing field-level errors and a Hasher
// for the opaque stored secret.
package credentials

import (
	"fmt"
	"strings"
)

// Hasher hashes plaintext passwords into opaque stored credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Policy validates registration input and returns all violations as
// field-level error descriptions, matching the registration response shape.
type Policy struct {
	MinPasswordLength int
}

const DefaultMinPasswordLength = 6

func NewPolicy() *Policy {
	return &Policy{MinPasswordLength: DefaultMinPasswordLength}
}

// Validate returns every violated rule; an empty slice means the input is
// acceptable.
func (p *Policy) Validate(name, login, password string) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if strings.TrimSpace(login) == "" {
		errs = append(errs, "login must not be empty")
	} else if !strings.Contains(login, "@") {
		errs = append(errs, "login must be an email address")
	}

	min := p.MinPasswordLength
	if min <= 0 {
		min = DefaultMinPasswordLength
	}
	if len(password) < min {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", min))
	}

	return errs
}
