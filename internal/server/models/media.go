package models

import "time"

// MediaReference is the local record tracking an uploaded remote asset.
//
// If RemotePublicID is non-empty, a corresponding remote object is assumed
// to exist; deleting the reference must pass through the media cascade so
// the remote object is cleaned up as well.
type MediaReference struct {
	ID string
	// URL is the public URL of the remote object.
	URL string
	// RemotePublicID is the opaque identifier used to delete the remote object.
	RemotePublicID string
	CreatedAt      time.Time
}

// CleanupTask records a remote object whose deletion failed during the
// cascade and must be retried out of band by the reconciler.
type CleanupTask struct {
	RemotePublicID string
	URL            string
	RecordedAt     time.Time
}
