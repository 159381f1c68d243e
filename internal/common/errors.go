// Package common defines shared constants and sentinel errors used across
// the layers of the provisioning service. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorLoginAlreadyExists = errors.New("login already exists")

	// Media-specific errors.
	ErrorUploadFailed       = errors.New("media upload failed")
	ErrorRemoteDeleteFailed = errors.New("remote media delete failed")
)
