// Package mediastore uploads binary content to a remote object store and
// deletes it by its opaque public identifier.
package mediastore

import "context"

// UploadResult is the stable reference returned for an uploaded object.
type UploadResult struct {
	// URL is the public URL of the stored object.
	URL string
	// PublicID is the opaque identifier used for later deletion.
	PublicID string
}

// Store is the media-store capability used by the provisioning workflow and
// the cascade cleanup. Both calls are blocking remote I/O and honor the
// deadline of the provided context.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
