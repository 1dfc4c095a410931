// Package transport defines the byte-transfer boundary of the widget.
//
// The engine invokes one adapter per pending file during an upload pass.
// Adapters must respect context cancellation and report progress through
// the supplied callback; the engine owns all state, adapters own none.
package transport

import (
	"context"

	"github.com/pelhamlabs/dropkit/types"
)

// ProgressFunc receives upload progress as an integer percent, 0-100.
// Adapters must report non-decreasing values within one attempt.
type ProgressFunc func(percent int)

// Result is the outcome of a single transfer attempt.
type Result struct {
	// Success reports whether the server accepted the file.
	Success bool
	// FileID is the server-assigned identifier.
	FileID string
	// URL is the location of the stored file.
	URL string
	// ThumbnailURL is a preview location, set for images only.
	ThumbnailURL string
	// Metadata carries any extra server-reported fields.
	Metadata map[string]string
	// Error describes a server-reported rejection when Success is false.
	Error string
}

// Adapter performs the actual byte transfer for one file.
//
// A nil onProgress is allowed. Transport-level failures (network, timeout)
// are returned as Go errors; server-side rejections come back as a Result
// with Success false.
type Adapter interface {
	Upload(ctx context.Context, file types.FileInfo, onProgress ProgressFunc) (*Result, error)

	// Close releases adapter resources.
	Close() error
}
