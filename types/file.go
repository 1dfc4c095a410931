// Package types defines the shared data model: file descriptors, tracked
// upload entries, and the lifecycle event envelope.
package types

import (
	"io"
	"strings"
	"time"
)

// UploadStatus is the lifecycle state of one tracked file.
type UploadStatus string

// Lifecycle states. A file is created pending, moves to uploading when an
// upload pass reaches it, and ends in success or error. Retry moves an
// errored file back to pending.
const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
)

// IsTerminal returns true once the current attempt can no longer progress.
func (s UploadStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// DefaultMaxRetries is the per-file retry ceiling applied when the
// configuration leaves it unset.
const DefaultMaxRetries = 3

// FileInfo describes a candidate file. Name, MIME, and Size are declared
// metadata; checks read them as-is and never sniff the byte stream
// themselves. Open provides the byte stream for consumers that need one
// (dimension probing, transports) and may be nil for metadata-only entries.
type FileInfo struct {
	Name         string    `msgpack:"name"`
	MIME         string    `msgpack:"mime"`
	Size         int64     `msgpack:"size"`
	LastModified time.Time `msgpack:"last_modified,omitempty"`

	// Open returns a fresh reader over the file's bytes. Each call must
	// return an independent reader positioned at the start.
	Open func() (io.ReadCloser, error) `msgpack:"-" yaml:"-"`
}

// Extension returns the lowercased extension without the dot, or "" when
// the name has none. A trailing dot also counts as no extension.
func (f FileInfo) Extension() string {
	i := strings.LastIndexByte(f.Name, '.')
	if i < 0 || i == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[i+1:])
}

// IsImage reports whether the declared MIME type is an image type.
func (f FileInfo) IsImage() bool {
	return strings.HasPrefix(f.MIME, "image/")
}

// TrackedFile is one entry in the upload collection. The engine owns all
// mutation; consumers only ever see copies.
type TrackedFile struct {
	// ID is the engine-assigned identifier, unique within a session.
	ID   string   `msgpack:"id"`
	File FileInfo `msgpack:"file"`

	Status UploadStatus `msgpack:"status"`
	// Progress is the current attempt's percentage in [0,100]. It is
	// monotonically non-decreasing within an attempt and resets on retry.
	Progress int `msgpack:"progress"`
	// Error is the user-facing message of the last failure, empty
	// outside the error status.
	Error string `msgpack:"error,omitempty"`

	// URL and ThumbnailURL are set by the transport on success.
	URL          string `msgpack:"url,omitempty"`
	ThumbnailURL string `msgpack:"thumbnail_url,omitempty"`

	RetryCount int `msgpack:"retry_count"`
	MaxRetries int `msgpack:"max_retries"`

	AddedAt time.Time `msgpack:"added_at"`
}

// CanRetry reports whether another retry is allowed for this file.
func (f TrackedFile) CanRetry() bool {
	return f.Status == StatusError && f.RetryCount < f.MaxRetries
}
