package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pelhamlabs/dropkit/types"
)

func file(name, mime string, size int64) types.FileInfo {
	return types.FileInfo{Name: name, MIME: mime, Size: size}
}

func TestCheckType(t *testing.T) {
	tests := []struct {
		name       string
		file       types.FileInfo
		types      []string
		extensions []string
		wantValid  bool
		wantCodes  []Code
	}{
		{
			name:       "wildcard on both dimensions always passes",
			file:       file("anything.xyz", "application/x-whatever", 1),
			types:      []string{"*"},
			extensions: []string{"*"},
			wantValid:  true,
		},
		{
			name:       "jpeg against image wildcard and extension list",
			file:       file("x.jpg", "image/jpeg", 1),
			types:      []string{"image/*"},
			extensions: []string{"jpg", "png"},
			wantValid:  true,
		},
		{
			name:       "both dimensions fail and both are reported",
			file:       file("x.txt", "text/plain", 1),
			types:      []string{"image/*"},
			extensions: []string{"jpg"},
			wantValid:  false,
			wantCodes:  []Code{CodeInvalidFileType, CodeInvalidFileExtension},
		},
		{
			name:       "exact mime match",
			file:       file("doc.pdf", "application/pdf", 1),
			types:      []string{"application/pdf"},
			extensions: []string{"*"},
			wantValid:  true,
		},
		{
			name:       "mime restricted, extension unrestricted, only mime checked",
			file:       file("photo.heic", "image/heic", 1),
			types:      []string{"application/pdf"},
			extensions: []string{"*"},
			wantValid:  false,
			wantCodes:  []Code{CodeInvalidFileType},
		},
		{
			name:       "extension comparison ignores case",
			file:       file("PHOTO.JPG", "image/jpeg", 1),
			types:      []string{"*"},
			extensions: []string{"jpg"},
			wantValid:  true,
		},
		{
			name:       "mime comparison is case-sensitive",
			file:       file("x.jpg", "IMAGE/JPEG", 1),
			types:      []string{"image/*"},
			extensions: []string{"*"},
			wantValid:  false,
			wantCodes:  []Code{CodeInvalidFileType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckType(tt.file, tt.types, tt.extensions)
			assert.Equal(t, tt.wantValid, got.Valid)
			codes := make([]Code, 0, len(got.Errors))
			for _, e := range got.Errors {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.wantCodes, append([]Code(nil), codes...))
		})
	}
}

func TestCheckType_NoExtensionWarnsButPasses(t *testing.T) {
	got := CheckType(file("README", "text/plain", 1), []string{"*"}, []string{"txt"})

	assert.True(t, got.Valid)
	assert.Empty(t, got.Errors)
	if assert.Len(t, got.Warnings, 1) {
		assert.Contains(t, got.Warnings[0], "no extension")
	}
}

func TestCheckSize(t *testing.T) {
	const max = 10 * 1024 * 1024

	tests := []struct {
		name      string
		size      int64
		min       int64
		wantValid bool
		wantCode  Code
	}{
		{name: "within bounds", size: 1024, wantValid: true},
		{name: "boundary size == max passes", size: max, wantValid: true},
		{name: "boundary size == min passes", size: 100, min: 100, wantValid: true},
		{name: "over max", size: max + 1, wantValid: false, wantCode: CodeFileTooLarge},
		{name: "under min", size: 99, min: 100, wantValid: false, wantCode: CodeFileTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckSize(file("f.bin", "application/octet-stream", tt.size), max, tt.min)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantCode != "" {
				if assert.Len(t, got.Errors, 1) {
					assert.Equal(t, tt.wantCode, got.Errors[0].Code)
				}
			}
		})
	}
}

func TestCheckSize_OversizeMessageNamesBothSizes(t *testing.T) {
	got := CheckSize(file("big.bin", "application/octet-stream", 15*1024*1024), 10*1024*1024, 0)

	assert.False(t, got.Valid)
	msg := got.Errors[0].Message
	assert.Contains(t, msg, "15")
	assert.Contains(t, msg, "10")
}

func TestCheckSize_Warnings(t *testing.T) {
	const max = 100

	t.Run("above 80 percent of max", func(t *testing.T) {
		got := CheckSize(file("near.bin", "", 81), max, 0)
		assert.True(t, got.Valid)
		assert.Len(t, got.Warnings, 1)
	})

	t.Run("exactly 80 percent stays quiet", func(t *testing.T) {
		got := CheckSize(file("ok.bin", "", 80), max, 0)
		assert.Empty(t, got.Warnings)
	})

	t.Run("zero bytes warns", func(t *testing.T) {
		got := CheckSize(file("empty.bin", "", 0), max, 0)
		assert.True(t, got.Valid)
		if assert.Len(t, got.Warnings, 1) {
			assert.True(t, strings.Contains(got.Warnings[0], "empty"))
		}
	})

	t.Run("unlimited max never warns about the ceiling", func(t *testing.T) {
		got := CheckSize(file("huge.bin", "", 1<<40), 0, 0)
		assert.True(t, got.Valid)
		assert.Empty(t, got.Warnings)
	})
}

func TestCheckCount(t *testing.T) {
	tests := []struct {
		name      string
		batch     int
		max       int
		current   int
		wantValid bool
		wantWarn  bool
	}{
		{name: "under limit", batch: 3, max: 10, wantValid: true},
		{name: "exactly at limit", batch: 10, max: 10, wantValid: true, wantWarn: true},
		{name: "one over limit", batch: 5, max: 10, current: 6, wantValid: false},
		{name: "current count alone can exceed", batch: 1, max: 3, current: 3, wantValid: false},
		{name: "above 80 percent warns", batch: 9, max: 10, wantValid: true, wantWarn: true},
		{name: "unlimited when max is zero", batch: 1000, max: 0, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCount(tt.batch, tt.max, tt.current)
			assert.Equal(t, tt.wantValid, got.Valid)
			if !tt.wantValid {
				assert.Equal(t, CodeTooManyFiles, got.Errors[0].Code)
			}
			assert.Equal(t, tt.wantWarn, len(got.Warnings) > 0)
		})
	}
}
