// Package metrics provides per-session widget metrics collection.
//
// The Collector accumulates counters for a single widget session. It is a
// leaf package with no internal dependencies; the engine increments it as
// commands execute.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the session counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	FilesSelected     int64
	FilesUploaded     int64
	FilesFailed       int64
	FilesRemoved      int64
	Retries           int64
	BytesUploaded     int64
	ValidationRejects int64
	Announcements     int64

	// Dimensions (informational, set at construction)
	SessionID string
	Variant   string
	Transport string
}

// Collector accumulates metrics during a widget session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	filesSelected     int64
	filesUploaded     int64
	filesFailed       int64
	filesRemoved      int64
	retries           int64
	bytesUploaded     int64
	validationRejects int64
	announcements     int64

	sessionID string
	variant   string
	transport string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(sessionID, variant, transport string) *Collector {
	return &Collector{
		sessionID: sessionID,
		variant:   variant,
		transport: transport,
	}
}

// AddFilesSelected records n files admitted into the collection.
func (c *Collector) AddFilesSelected(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesSelected += int64(n)
	c.mu.Unlock()
}

// IncFileUploaded records a successful upload and its byte size.
func (c *Collector) IncFileUploaded(sizeBytes int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesUploaded++
	c.bytesUploaded += sizeBytes
	c.mu.Unlock()
}

// IncFileFailed records a failed upload attempt.
func (c *Collector) IncFileFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesFailed++
	c.mu.Unlock()
}

// IncFileRemoved records a file removal.
func (c *Collector) IncFileRemoved() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.filesRemoved++
	c.mu.Unlock()
}

// IncRetry records a retry transition.
func (c *Collector) IncRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.retries++
	c.mu.Unlock()
}

// AddValidationRejects records n files rejected by admission control.
func (c *Collector) AddValidationRejects(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.validationRejects += int64(n)
	c.mu.Unlock()
}

// IncAnnouncement records an assistive-technology announcement.
func (c *Collector) IncAnnouncement() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.announcements++
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all counters. The
// Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		FilesSelected:     c.filesSelected,
		FilesUploaded:     c.filesUploaded,
		FilesFailed:       c.filesFailed,
		FilesRemoved:      c.filesRemoved,
		Retries:           c.retries,
		BytesUploaded:     c.bytesUploaded,
		ValidationRejects: c.validationRejects,
		Announcements:     c.announcements,

		SessionID: c.sessionID,
		Variant:   c.variant,
		Transport: c.transport,
	}
}
