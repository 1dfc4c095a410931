// Package validate implements admission control for candidate files.
//
// Checks are deterministic and side-effect free except for image dimension
// probing, which reads the image header out-of-band. No check ever returns a
// Go error to mean "invalid": outcomes are Result records, and an invalid
// file is a Result with a non-empty Errors list.
package validate

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pelhamlabs/dropkit/types"
)

// Kind groups validation error codes by the dimension they check.
// The fault classifier maps Kind directly to its coarse error type.
type Kind string

// Validation kinds.
const (
	KindType       Kind = "type"
	KindSize       Kind = "size"
	KindCount      Kind = "count"
	KindDimensions Kind = "dimensions"
)

// Code identifies a specific validation failure.
type Code string

// Validation error codes.
const (
	CodeInvalidFileType      Code = "invalid-file-type"
	CodeInvalidFileExtension Code = "invalid-file-extension"
	CodeFileTooLarge         Code = "file-too-large"
	CodeFileTooSmall         Code = "file-too-small"
	CodeTooManyFiles         Code = "too-many-files"
	CodeWidthTooLarge        Code = "width-too-large"
	CodeHeightTooLarge       Code = "height-too-large"
	CodeWidthTooSmall        Code = "width-too-small"
	CodeHeightTooSmall       Code = "height-too-small"
	CodeInvalidImage         Code = "invalid-image"
)

// Error is one typed validation failure.
type Error struct {
	Code    Code
	Kind    Kind
	Message string
}

// Result is the outcome of validating one file (or one batch-level check).
// Valid is true iff Errors is empty; Warnings may be non-empty either way.
type Result struct {
	Valid    bool
	Errors   []Error
	Warnings []string
}

// pass returns a valid Result carrying only warnings.
func pass(warnings ...string) Result {
	return Result{Valid: true, Warnings: warnings}
}

// merge appends another result into r, recomputing Valid.
func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Valid = len(r.Errors) == 0
}

// CheckType validates the declared MIME type and the filename extension.
//
// A "*" entry in either list disables that dimension's check. MIME matching
// is case-sensitive and supports exact matches and prefix wildcards
// ("image/*"). Extension matching is case-insensitive. When both dimensions
// are restricted and both fail, both errors are reported.
func CheckType(file types.FileInfo, allowedTypes, allowedExtensions []string) Result {
	result := Result{Valid: true}

	if !containsWildcard(allowedTypes) {
		if !mimeAllowed(file.MIME, allowedTypes) {
			result.Errors = append(result.Errors, Error{
				Code: CodeInvalidFileType,
				Kind: KindType,
				Message: fmt.Sprintf("file type %q is not allowed (allowed: %s)",
					file.MIME, strings.Join(allowedTypes, ", ")),
			})
		}
	}

	if !containsWildcard(allowedExtensions) {
		ext := file.Extension()
		if ext == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%q has no extension; type validation may be unreliable", file.Name))
		} else if !extensionAllowed(ext, allowedExtensions) {
			result.Errors = append(result.Errors, Error{
				Code: CodeInvalidFileExtension,
				Kind: KindType,
				Message: fmt.Sprintf("extension %q is not allowed (allowed: %s)",
					ext, strings.Join(allowedExtensions, ", ")),
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// CheckSize validates the declared byte size against [minBytes, maxBytes].
// Boundary values pass. maxBytes == 0 means unlimited. Warns above 80% of
// the ceiling and on zero-byte files.
func CheckSize(file types.FileInfo, maxBytes, minBytes int64) Result {
	result := Result{Valid: true}

	if maxBytes > 0 && file.Size > maxBytes {
		result.Errors = append(result.Errors, Error{
			Code: CodeFileTooLarge,
			Kind: KindSize,
			Message: fmt.Sprintf("%q is %s; the maximum allowed size is %s",
				file.Name, humanize.IBytes(uint64(file.Size)), humanize.IBytes(uint64(maxBytes))),
		})
	}
	if file.Size < minBytes {
		result.Errors = append(result.Errors, Error{
			Code: CodeFileTooSmall,
			Kind: KindSize,
			Message: fmt.Sprintf("%q is %s; the minimum allowed size is %s",
				file.Name, humanize.IBytes(uint64(file.Size)), humanize.IBytes(uint64(minBytes))),
		})
	}

	if file.Size == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%q is empty", file.Name))
	} else if maxBytes > 0 && file.Size <= maxBytes && file.Size*5 > maxBytes*4 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%q is close to the %s size limit", file.Name, humanize.IBytes(uint64(maxBytes))))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// CheckCount validates the whole batch against the file-count ceiling before
// any per-file check runs. maxFiles == 0 means unlimited. Warns once the
// running total exceeds 80% of the ceiling.
func CheckCount(batchSize, maxFiles, currentCount int) Result {
	if maxFiles <= 0 {
		return pass()
	}

	total := batchSize + currentCount
	if total > maxFiles {
		return Result{Errors: []Error{{
			Code: CodeTooManyFiles,
			Kind: KindCount,
			Message: fmt.Sprintf("selecting %d file(s) would exceed the limit of %d (already selected: %d)",
				batchSize, maxFiles, currentCount),
		}}}
	}

	if total*5 > maxFiles*4 {
		return pass(fmt.Sprintf("%d of %d file slots used", total, maxFiles))
	}
	return pass()
}

// containsWildcard reports whether the list disables its check via "*".
// An empty list also disables the check.
func containsWildcard(allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" {
			return true
		}
	}
	return false
}

// mimeAllowed matches the declared MIME against exact and prefix-wildcard
// patterns. Matching is case-sensitive.
func mimeAllowed(mime string, allowed []string) bool {
	for _, pattern := range allowed {
		if pattern == mime {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(mime, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// extensionAllowed matches case-insensitively; ext is already lowercased by
// FileInfo.Extension.
func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == ext {
			return true
		}
	}
	return false
}
