package faults

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/validate"
)

// Option adjusts a record during construction. Records are immutable after
// Classify returns.
type Option func(*ProcessedError)

// WithSeverity overrides the catalog severity, e.g. to escalate an unknown
// system failure to critical.
func WithSeverity(s Severity) Option {
	return func(pe *ProcessedError) { pe.Severity = s }
}

// WithAction appends a custom action descriptor. The presentation layer is
// expected to resolve it through its own dispatch table instead of the
// generic action handling.
func WithAction(a Action) Option {
	return func(pe *ProcessedError) {
		if a.Kind == "" {
			a.Kind = ActionCustom
		}
		pe.Actions = append(pe.Actions, a)
	}
}

// Classify converts a raw failure into a ProcessedError.
//
// raw may be a validate.Error (typed admission rejection), a Go error, a
// plain string, or anything else including nil. Classification never
// panics; unrecognizable input degrades to the unknown-error code.
func Classify(raw any, ctx *Context, cfg *config.Config, opts ...Option) ProcessedError {
	code, techMsg := deriveCode(raw)
	entry := lookup(code)

	pe := ProcessedError{
		ID:          newID(),
		Type:        entry.Type,
		Code:        code,
		Title:       entry.Title,
		UserMessage: entry.UserMessage,
		TechMessage: techMsg,
		Severity:    entry.Severity,
		Recoverable: entry.Recoverable,
		Retryable:   entry.Retryable,
		Suggestions: append([]string(nil), entry.Suggestions...),
	}

	if ctx != nil {
		pe.Context = *ctx
	}
	if pe.Context.Timestamp.IsZero() {
		pe.Context.Timestamp = time.Now()
	}
	if pe.Context.FileName != "" {
		pe.UserMessage = fmt.Sprintf("%s (File: %s)", pe.UserMessage, pe.Context.FileName)
	}

	pe.Suggestions = append(pe.Suggestions, dynamicSuggestions(code, cfg)...)
	pe.Actions = actionsFor(pe.Type, pe.Retryable)

	for _, opt := range opts {
		opt(&pe)
	}
	return pe
}

// Summary aggregates a batch classification, used to decide whether to show
// one combined message or a list.
type Summary struct {
	Total       int
	ByType      map[Type]int
	BySeverity  map[Severity]int
	Retryable   int
	Recoverable int
}

// ClassifyBatch classifies each raw failure and aggregates counts.
func ClassifyBatch(raws []any, ctx *Context, cfg *config.Config) ([]ProcessedError, Summary) {
	errs := lo.Map(raws, func(raw any, _ int) ProcessedError {
		return Classify(raw, ctx, cfg)
	})

	summary := Summary{
		Total:       len(errs),
		ByType:      lo.CountValuesBy(errs, func(pe ProcessedError) Type { return pe.Type }),
		BySeverity:  lo.CountValuesBy(errs, func(pe ProcessedError) Severity { return pe.Severity }),
		Retryable:   lo.CountBy(errs, func(pe ProcessedError) bool { return pe.Retryable }),
		Recoverable: lo.CountBy(errs, func(pe ProcessedError) bool { return pe.Recoverable }),
	}
	return errs, summary
}

// deriveCode extracts a failure code and the technical message from raw.
func deriveCode(raw any) (code, techMsg string) {
	switch v := raw.(type) {
	case nil:
		return UnknownCode, ""
	case validate.Error:
		return codeFromValidation(v)
	case *validate.Error:
		if v == nil {
			return UnknownCode, ""
		}
		return codeFromValidation(*v)
	case ProcessedError:
		// Already classified; reuse the code so titles stay stable.
		return v.Code, v.TechMessage
	case error:
		if v == nil {
			return UnknownCode, ""
		}
		return matchMessage(v.Error()), v.Error()
	case string:
		if v == "" {
			return UnknownCode, ""
		}
		return matchMessage(v), v
	default:
		return UnknownCode, fmt.Sprintf("%v", raw)
	}
}

func codeFromValidation(v validate.Error) (string, string) {
	if v.Code == "" {
		return UnknownCode, v.Message
	}
	return string(v.Code), v.Message
}

// matchMessage pattern-matches free-form failure text against known
// substrings, the same way the storage layer classifies backend errors.
func matchMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case containsAny(lower, "timeout", "timed out", "deadline exceeded"):
		return "timeout-error"
	case containsAny(lower, "network", "connection refused", "connection reset",
		"no route to host", "dial tcp", "dns", "offline", "unreachable"):
		return "network-error"
	case containsAny(lower, "access", "denied", "permission", "forbidden", "unauthorized"):
		return "permission-denied"
	case containsAny(lower, "quota", "no space left", "storage full"):
		return "quota-exceeded"
	case containsAny(lower, "upload failed", "transfer failed"):
		return "upload-failed"
	default:
		return UnknownCode
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dynamicSuggestions derives advice from the live configuration.
func dynamicSuggestions(code string, cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	v := cfg.Validation

	switch code {
	case "file-too-large":
		if v.MaxSize > 0 {
			return []string{fmt.Sprintf("Maximum file size is %s.", humanize.IBytes(uint64(v.MaxSize)))}
		}
	case "too-many-files":
		if v.MaxFiles > 0 {
			return []string{fmt.Sprintf("Up to %d files can be selected.", v.MaxFiles)}
		}
	case "invalid-file-type", "invalid-file-extension":
		if len(v.AllowedTypes) > 0 && v.AllowedTypes[0] != "*" {
			return []string{fmt.Sprintf("Allowed types: %s.", strings.Join(v.AllowedTypes, ", "))}
		}
	}
	return nil
}

// newID generates a fresh record id: monotonic timestamp plus random
// suffix. Two classifications of the same logical failure are distinct.
func newID() string {
	return fmt.Sprintf("err-%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
