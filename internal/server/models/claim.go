package models

// Claim types attached during provisioning.
const (
	ClaimTypeName  = "Name"
	ClaimTypeImage = "Image"
)

// Claim is a typed key/value fact attached to an account. Claims are
// append-only; multiple claims of the same type may exist.
type Claim struct {
	AccountID string
	Type      string
	Value     string
}
