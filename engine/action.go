// Package engine implements the authoritative upload state container.
//
// State transitions are modeled as a closed set of tagged actions processed
// by a single pure reducer. The Engine facade is the only writer; everything
// else reads snapshots or submits commands.
package engine

import (
	"github.com/samber/lo"

	"github.com/pelhamlabs/dropkit/types"
)

// State is the aggregate root. Files keep selection order and are never
// re-sorted; the derived index lists are recomputed on every mutation and
// always reference exactly one tracked file each.
type State struct {
	Files []types.TrackedFile
	// IsUploading is true for the whole duration of an upload pass.
	IsUploading bool
	// OverallProgress is the mean of per-file progress, 0 when empty.
	OverallProgress int
	// GlobalError is the last unattributable error message.
	GlobalError string

	// Derived index lists, recomputable from Files.
	CompletedIDs []string
	FailedIDs    []string
	QueuedIDs    []string
}

// find returns the index of the file with the given id, or -1.
func (s State) find(id string) int {
	for i := range s.Files {
		if s.Files[i].ID == id {
			return i
		}
	}
	return -1
}

// action is the closed command union consumed by reduce.
type action interface{ isAction() }

type actionAdd struct{ entries []types.TrackedFile }

type actionRemove struct{ id string }

type actionRetry struct{ id string }

type actionStartFile struct{ id string }

type actionProgress struct {
	id      string
	percent int
}

type actionSucceed struct {
	id           string
	url          string
	thumbnailURL string
}

type actionFail struct {
	id      string
	message string
}

type actionSetUploading struct{ on bool }

type actionGlobalError struct{ message string }

type actionClearFailed struct{}

type actionClearAll struct{}

func (actionAdd) isAction()          {}
func (actionRemove) isAction()       {}
func (actionRetry) isAction()        {}
func (actionStartFile) isAction()    {}
func (actionProgress) isAction()     {}
func (actionSucceed) isAction()      {}
func (actionFail) isAction()         {}
func (actionSetUploading) isAction() {}
func (actionGlobalError) isAction()  {}
func (actionClearFailed) isAction()  {}
func (actionClearAll) isAction()     {}

// reduce applies one action and returns the next state. It is pure: the
// input state is never mutated, and an action referencing an unknown id is
// a silent no-op so stale references (e.g. a double-click race on remove)
// can never crash the widget.
func reduce(s State, a action) State {
	next := s
	next.Files = append([]types.TrackedFile(nil), s.Files...)

	switch v := a.(type) {
	case actionAdd:
		next.Files = append(next.Files, v.entries...)

	case actionRemove:
		if i := next.find(v.id); i >= 0 {
			next.Files = append(next.Files[:i], next.Files[i+1:]...)
		}

	case actionRetry:
		if i := next.find(v.id); i >= 0 {
			f := next.Files[i]
			f.Status = types.StatusPending
			f.Progress = 0
			f.Error = ""
			f.RetryCount++
			next.Files[i] = f
		}

	case actionStartFile:
		if i := next.find(v.id); i >= 0 {
			f := next.Files[i]
			f.Status = types.StatusUploading
			f.Progress = 0
			f.Error = ""
			next.Files[i] = f
		}

	case actionProgress:
		if i := next.find(v.id); i >= 0 {
			f := next.Files[i]
			// Progress is monotonically non-decreasing within an attempt.
			if v.percent > f.Progress {
				f.Progress = clampPercent(v.percent)
				next.Files[i] = f
			}
		}

	case actionSucceed:
		if i := next.find(v.id); i >= 0 {
			f := next.Files[i]
			f.Status = types.StatusSuccess
			f.Progress = 100
			f.Error = ""
			f.URL = v.url
			f.ThumbnailURL = v.thumbnailURL
			next.Files[i] = f
		}

	case actionFail:
		if i := next.find(v.id); i >= 0 {
			f := next.Files[i]
			f.Status = types.StatusError
			f.Error = v.message
			next.Files[i] = f
		}

	case actionSetUploading:
		next.IsUploading = v.on

	case actionGlobalError:
		next.GlobalError = v.message

	case actionClearFailed:
		next.Files = lo.Filter(next.Files, func(f types.TrackedFile, _ int) bool {
			return f.Status != types.StatusError
		})

	case actionClearAll:
		next.Files = nil
		next.IsUploading = false
		next.GlobalError = ""
	}

	return recompute(next)
}

// recompute refreshes the derived aggregates from the file collection.
func recompute(s State) State {
	s.CompletedIDs = idsWithStatus(s.Files, types.StatusSuccess)
	s.FailedIDs = idsWithStatus(s.Files, types.StatusError)
	s.QueuedIDs = idsWithStatus(s.Files, types.StatusPending)

	if len(s.Files) == 0 {
		s.OverallProgress = 0
		return s
	}
	total := 0
	for _, f := range s.Files {
		total += f.Progress
	}
	s.OverallProgress = total / len(s.Files)
	return s
}

func idsWithStatus(files []types.TrackedFile, status types.UploadStatus) []string {
	return lo.FilterMap(files, func(f types.TrackedFile, _ int) (string, bool) {
		return f.ID, f.Status == status
	})
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
