// Package faults normalizes heterogeneous failures into user-facing,
// severity-ranked error records with remediation metadata.
//
// Classification never panics and never returns a Go error: malformed input
// degrades to the unknown-error code with whatever partial information is
// available. Records are immutable once constructed.
package faults

import "time"

// Type is the coarse failure category.
type Type string

// Failure categories.
const (
	TypeValidation Type = "validation"
	TypeNetwork    Type = "network"
	TypeTimeout    Type = "timeout"
	TypePermission Type = "permission"
	TypeQuota      Type = "quota"
	TypeUnknown    Type = "unknown"
)

// Severity ranks how aggressively a failure should be surfaced. It drives
// announcement gating, not the offered recovery actions.
type Severity string

// Severity levels, ordinal low to critical.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// AtLeast reports whether s ranks at or above other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// ActionKind tags a recovery action descriptor. The presentation layer owns
// the dispatch table; no handler closures live on the record, which keeps
// ProcessedError serializable.
type ActionKind string

// Recovery action kinds.
const (
	ActionRetry   ActionKind = "retry"
	ActionRemove  ActionKind = "remove"
	ActionClear   ActionKind = "clear"
	ActionContact ActionKind = "contact"
	ActionCustom  ActionKind = "custom"
)

// Action is a tagged recovery action descriptor.
type Action struct {
	ID       string     `msgpack:"id"`
	Label    string     `msgpack:"label"`
	Kind     ActionKind `msgpack:"kind"`
	Primary  bool       `msgpack:"primary,omitempty"`
	Disabled bool       `msgpack:"disabled,omitempty"`
	// Params parameterize custom actions for the caller's dispatch table.
	Params map[string]string `msgpack:"params,omitempty"`
}

// Context carries the situational metadata a failure occurred under.
type Context struct {
	FileID    string    `msgpack:"file_id,omitempty"`
	FileName  string    `msgpack:"file_name,omitempty"`
	FileSize  int64     `msgpack:"file_size,omitempty"`
	Operation string    `msgpack:"operation,omitempty"`
	Timestamp time.Time `msgpack:"timestamp"`
}

// ProcessedError is a normalized, user-facing error record.
type ProcessedError struct {
	// ID is unique per classification; classifying the same logical
	// failure twice produces two distinct records.
	ID string `msgpack:"id"`
	// Type is the coarse category.
	Type Type `msgpack:"type"`
	// Code is the machine-readable failure code.
	Code string `msgpack:"code"`
	// Title is the short heading for display.
	Title string `msgpack:"title"`
	// UserMessage is the context-enriched message shown to the user.
	UserMessage string `msgpack:"user_message"`
	// TechMessage preserves the original technical detail.
	TechMessage string   `msgpack:"tech_message"`
	Severity    Severity `msgpack:"severity"`
	// Recoverable means the user can take some action to resolve it.
	Recoverable bool `msgpack:"recoverable"`
	// Retryable means resubmitting the same operation may succeed.
	// Independent of Recoverable.
	Retryable   bool     `msgpack:"retryable"`
	Context     Context  `msgpack:"context"`
	Suggestions []string `msgpack:"suggestions,omitempty"`
	Actions     []Action `msgpack:"actions,omitempty"`
}

// UnknownCode is the fallback code for failures that match nothing.
const UnknownCode = "unknown-error"
