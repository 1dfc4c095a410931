package validate

import (
	"context"

	"github.com/pelhamlabs/dropkit/config"

	"github.com/pelhamlabs/dropkit/types"
)

// Rejected pairs a rejected candidate with the errors that excluded it.
type Rejected struct {
	File   types.FileInfo
	Errors []Error
}

// BatchResult partitions a candidate batch into accepted files and rejected
// entries. Warnings from the batch-level count check and every per-file
// check are concatenated in evaluation order.
type BatchResult struct {
	Accepted []types.FileInfo
	// TotalSize is the accumulated byte size of the accepted files.
	TotalSize int64
	Rejected  []Rejected
	Warnings  []string
}

// CheckFile runs the composite single-file validation: type, size, then
// dimensions when the config enables them and the file is an image. All
// errors and warnings accumulate; the file passes only with zero errors.
func CheckFile(ctx context.Context, file types.FileInfo, cfg *config.ValidationConfig, sizer ImageSizer) Result {
	result := CheckType(file, cfg.AllowedTypes, cfg.AllowedExtensions)
	result.merge(CheckSize(file, cfg.MaxSize, cfg.MinSize))

	if cfg.CheckDimensions && file.IsImage() {
		bounds := DimensionBounds{
			MaxWidth:  cfg.MaxWidth,
			MaxHeight: cfg.MaxHeight,
			MinWidth:  cfg.MinWidth,
			MinHeight: cfg.MinHeight,
		}
		result.merge(CheckDimensions(ctx, file, bounds, sizer))
	}

	return result
}

// CheckBatch admits a batch of candidates against the configuration.
//
// The count check runs once, first, against the whole batch: if admitting
// every candidate would exceed the ceiling, the entire batch is rejected
// with that single error and no per-file check runs. This is deliberate
// all-or-nothing admission at the batch boundary.
//
// Otherwise files are validated one at a time in input order. Each accepted
// file advances the already-selected baseline, so later files in the same
// batch observe the cumulative count of earlier ones.
func CheckBatch(ctx context.Context, files []types.FileInfo, cfg *config.ValidationConfig, currentCount int, sizer ImageSizer) BatchResult {
	var batch BatchResult

	countResult := CheckCount(len(files), cfg.MaxFiles, currentCount)
	batch.Warnings = append(batch.Warnings, countResult.Warnings...)
	if !countResult.Valid {
		for _, f := range files {
			batch.Rejected = append(batch.Rejected, Rejected{File: f, Errors: countResult.Errors})
		}
		return batch
	}

	selected := currentCount
	for _, f := range files {
		result := CheckFile(ctx, f, cfg, sizer)
		batch.Warnings = append(batch.Warnings, result.Warnings...)
		if !result.Valid {
			batch.Rejected = append(batch.Rejected, Rejected{File: f, Errors: result.Errors})
			continue
		}
		batch.Accepted = append(batch.Accepted, f)
		batch.TotalSize += f.Size
		selected++

		// Later files in the batch observe the advanced baseline for
		// their own count-adjacent warnings.
		batch.Warnings = append(batch.Warnings, CheckCount(0, cfg.MaxFiles, selected).Warnings...)
	}

	return batch
}
