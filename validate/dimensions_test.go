package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pelhamlabs/dropkit/types"
)

type stubSizer struct {
	w, h int
	err  error
}

func (s stubSizer) Probe(context.Context, types.FileInfo) (int, int, error) {
	return s.w, s.h, s.err
}

func intp(v int) *int { return &v }

func TestCheckDimensions(t *testing.T) {
	img := file("photo.png", "image/png", 1)

	tests := []struct {
		name      string
		file      types.FileInfo
		bounds    DimensionBounds
		sizer     ImageSizer
		wantValid bool
		wantCodes []Code
	}{
		{
			name:      "non-image passes without probing",
			file:      file("doc.pdf", "application/pdf", 1),
			bounds:    DimensionBounds{MaxWidth: intp(10)},
			sizer:     stubSizer{err: errors.New("must not be called")},
			wantValid: true,
		},
		{
			name:      "no bounds set passes without probing",
			file:      img,
			bounds:    DimensionBounds{},
			sizer:     stubSizer{err: errors.New("must not be called")},
			wantValid: true,
		},
		{
			name:      "within all bounds",
			file:      img,
			bounds:    DimensionBounds{MaxWidth: intp(800), MaxHeight: intp(600), MinWidth: intp(10), MinHeight: intp(10)},
			sizer:     stubSizer{w: 640, h: 480},
			wantValid: true,
		},
		{
			name:      "boundary values pass",
			file:      img,
			bounds:    DimensionBounds{MaxWidth: intp(640), MinHeight: intp(480)},
			sizer:     stubSizer{w: 640, h: 480},
			wantValid: true,
		},
		{
			name:      "each violated bound reports independently",
			file:      img,
			bounds:    DimensionBounds{MaxWidth: intp(100), MinHeight: intp(1000)},
			sizer:     stubSizer{w: 640, h: 480},
			wantCodes: []Code{CodeWidthTooLarge, CodeHeightTooSmall},
		},
		{
			name:      "probe failure yields invalid-image alone",
			file:      img,
			bounds:    DimensionBounds{MaxWidth: intp(100), MaxHeight: intp(100)},
			sizer:     stubSizer{err: errors.New("bad header")},
			wantCodes: []Code{CodeInvalidImage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckDimensions(context.Background(), tt.file, tt.bounds, tt.sizer)
			assert.Equal(t, tt.wantValid, got.Valid)
			codes := make([]Code, 0, len(got.Errors))
			for _, e := range got.Errors {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, tt.wantCodes, append([]Code(nil), codes...))
		})
	}
}
