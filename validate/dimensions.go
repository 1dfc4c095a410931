package validate

import (
	"context"
	"fmt"
	"image"
	"io"

	// Registered for image.DecodeConfig header probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pelhamlabs/dropkit/types"
)

// ImageSizer probes an image's natural dimensions. Implementations must
// respect context cancellation; decoding is expected to happen out-of-band
// from the caller's perspective.
type ImageSizer interface {
	Probe(ctx context.Context, file types.FileInfo) (width, height int, err error)
}

// HeaderSizer reads only the image header via image.DecodeConfig. It is the
// default ImageSizer.
type HeaderSizer struct{}

// Probe implements ImageSizer by decoding the image config from the file's
// byte stream.
func (HeaderSizer) Probe(ctx context.Context, file types.FileInfo) (int, int, error) {
	if file.Open == nil {
		return 0, 0, fmt.Errorf("no byte stream for %q", file.Name)
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	rc, err := file.Open()
	if err != nil {
		return 0, 0, fmt.Errorf("open %q: %w", file.Name, err)
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %q: %w", file.Name, err)
	}
	return cfg.Width, cfg.Height, nil
}

// DimensionBounds are optional pixel bounds; a nil bound is not checked.
type DimensionBounds struct {
	MaxWidth  *int
	MaxHeight *int
	MinWidth  *int
	MinHeight *int
}

// Empty reports whether no bound is set.
func (b DimensionBounds) Empty() bool {
	return b.MaxWidth == nil && b.MaxHeight == nil && b.MinWidth == nil && b.MinHeight == nil
}

// CheckDimensions validates an image's natural dimensions against each
// provided bound independently; all four violations may co-occur. Non-image
// files pass trivially. A probe failure yields a single invalid-image error
// and no others.
func CheckDimensions(ctx context.Context, file types.FileInfo, bounds DimensionBounds, sizer ImageSizer) Result {
	if !file.IsImage() || bounds.Empty() {
		return pass()
	}
	if sizer == nil {
		sizer = HeaderSizer{}
	}

	w, h, err := sizer.Probe(ctx, file)
	if err != nil {
		return Result{Errors: []Error{{
			Code:    CodeInvalidImage,
			Kind:    KindDimensions,
			Message: fmt.Sprintf("%q could not be decoded as an image", file.Name),
		}}}
	}

	result := Result{Valid: true}
	if bounds.MaxWidth != nil && w > *bounds.MaxWidth {
		result.Errors = append(result.Errors, Error{
			Code:    CodeWidthTooLarge,
			Kind:    KindDimensions,
			Message: fmt.Sprintf("%q is %dpx wide; the maximum is %dpx", file.Name, w, *bounds.MaxWidth),
		})
	}
	if bounds.MaxHeight != nil && h > *bounds.MaxHeight {
		result.Errors = append(result.Errors, Error{
			Code:    CodeHeightTooLarge,
			Kind:    KindDimensions,
			Message: fmt.Sprintf("%q is %dpx tall; the maximum is %dpx", file.Name, h, *bounds.MaxHeight),
		})
	}
	if bounds.MinWidth != nil && w < *bounds.MinWidth {
		result.Errors = append(result.Errors, Error{
			Code:    CodeWidthTooSmall,
			Kind:    KindDimensions,
			Message: fmt.Sprintf("%q is %dpx wide; the minimum is %dpx", file.Name, w, *bounds.MinWidth),
		})
	}
	if bounds.MinHeight != nil && h < *bounds.MinHeight {
		result.Errors = append(result.Errors, Error{
			Code:    CodeHeightTooSmall,
			Kind:    KindDimensions,
			Message: fmt.Sprintf("%q is %dpx tall; the minimum is %dpx", file.Name, h, *bounds.MinHeight),
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// DetectMIME sniffs the content type from the file's byte stream. Used to
// fill FileInfo.MIME when the caller declares nothing; checks themselves
// only ever read the declared value.
func DetectMIME(file types.FileInfo) (string, error) {
	if file.Open == nil {
		return "", fmt.Errorf("no byte stream for %q", file.Name)
	}
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	mtype, err := mimetype.DetectReader(rc)
	if err != nil && err != io.EOF {
		return "", err
	}
	return mtype.String(), nil
}
