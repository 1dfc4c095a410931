package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/faults"
	"github.com/pelhamlabs/dropkit/log"
	"github.com/pelhamlabs/dropkit/metrics"
	"github.com/pelhamlabs/dropkit/transport"
	"github.com/pelhamlabs/dropkit/types"
	"github.com/pelhamlabs/dropkit/validate"
)

// ErrUploadInFlight is returned when Upload is called while a pass is
// already running. Concurrent passes are rejected, not queued.
var ErrUploadInFlight = errors.New("upload already in progress")

// Engine owns the upload state for one widget session. All mutations go
// through its command surface; readers get copies. A mutex preserves the
// single-writer invariant when an upload pass runs on its own goroutine.
type Engine struct {
	mu    sync.Mutex
	state State

	errs          []faults.ProcessedError
	announcements []string
	seq           int64

	cfg       *config.Config
	adapter   transport.Adapter
	logger    *log.Logger
	collector *metrics.Collector
	sinks     []types.EventSink
	sizer     validate.ImageSizer
	sessionID string
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCollector sets the metrics collector. A nil collector is valid; all
// increments are nil-safe.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithSink registers a lifecycle event sink. Sinks are invoked
// synchronously in registration order.
func WithSink(s types.EventSink) Option {
	return func(e *Engine) { e.sinks = append(e.sinks, s) }
}

// WithImageSizer overrides the image dimension prober used by Admit.
func WithImageSizer(s validate.ImageSizer) Option {
	return func(e *Engine) { e.sizer = s }
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// New creates an empty engine over the given configuration and transport.
func New(cfg *config.Config, adapter transport.Adapter, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		adapter: adapter,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	if e.logger == nil {
		e.logger = log.Nop()
	}
	return e
}

// SessionID returns the widget session identifier.
func (e *Engine) SessionID() string { return e.sessionID }

// Config returns the effective configuration the engine was built with.
func (e *Engine) Config() *config.Config { return e.cfg }

// Snapshot returns a copy of the current state. The caller may read it
// freely; mutations never flow back.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	s := e.state
	s.Files = append([]types.TrackedFile(nil), e.state.Files...)
	s.CompletedIDs = append([]string(nil), e.state.CompletedIDs...)
	s.FailedIDs = append([]string(nil), e.state.FailedIDs...)
	s.QueuedIDs = append([]string(nil), e.state.QueuedIDs...)
	return s
}

// Errors returns a copy of the accumulated ProcessedError list.
func (e *Engine) Errors() []faults.ProcessedError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]faults.ProcessedError(nil), e.errs...)
}

// DrainAnnouncements returns and clears the queued assistive-technology
// announcements.
func (e *Engine) DrainAnnouncements() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.announcements
	e.announcements = nil
	return out
}

// Select wraps raw candidates into pending tracked files and appends them
// to the collection, preserving relative order. Select itself does not
// validate; callers run the validation pipeline first (or use Admit).
func (e *Engine) Select(files []types.FileInfo) []types.TrackedFile {
	if len(files) == 0 {
		return nil
	}

	maxRetries := e.cfg.Features.MaxRetries
	if maxRetries <= 0 {
		maxRetries = types.DefaultMaxRetries
	}

	entries := make([]types.TrackedFile, 0, len(files))
	now := time.Now()
	for _, f := range files {
		entries = append(entries, types.TrackedFile{
			ID:         uuid.NewString(),
			File:       f,
			Status:     types.StatusPending,
			MaxRetries: maxRetries,
			AddedAt:    now,
		})
	}

	e.mu.Lock()
	e.state = reduce(e.state, actionAdd{entries: entries})
	e.mu.Unlock()

	e.collector.AddFilesSelected(len(entries))
	e.logger.Info("files selected", map[string]any{"count": len(entries)})
	e.emit(types.EventSelect, entries)
	return entries
}

// Admit runs batch validation against the effective configuration, selects
// the accepted files, and routes the rejections through the classifier.
// This is the path the presentation variants use.
func (e *Engine) Admit(ctx context.Context, files []types.FileInfo) (validate.BatchResult, []types.TrackedFile) {
	e.mu.Lock()
	current := len(e.state.Files)
	e.mu.Unlock()

	batch := validate.CheckBatch(ctx, files, &e.cfg.Validation, current, e.sizer)

	var added []types.TrackedFile
	if len(batch.Accepted) > 0 {
		added = e.Select(batch.Accepted)
	}
	if len(batch.Rejected) > 0 {
		e.collector.AddValidationRejects(len(batch.Rejected))
		for _, rej := range batch.Rejected {
			e.HandleValidationErrors(rej.Errors, &faults.Context{
				FileName:  rej.File.Name,
				FileSize:  rej.File.Size,
				Operation: "select",
			})
		}
	}
	return batch, added
}

// Remove deletes the file and scrubs it from the derived index lists.
// Silent no-op when the id is absent.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	i := e.state.find(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	removed := e.state.Files[i]
	e.state = reduce(e.state, actionRemove{id: id})
	e.mu.Unlock()

	e.collector.IncFileRemoved()
	e.emit(types.EventRemove, []types.TrackedFile{removed})
}

// Retry transitions a failed file back to pending: clears its error, resets
// progress to 0, and increments its retry counter. The engine does not
// block retries past the limit; higher layers hide the action instead.
func (e *Engine) Retry(id string) {
	e.mu.Lock()
	i := e.state.find(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.state = reduce(e.state, actionRetry{id: id})
	retried := e.state.Files[e.state.find(id)]
	e.mu.Unlock()

	e.collector.IncRetry()
	e.emit(types.EventRetry, []types.TrackedFile{retried})
}

// RetryFailed retries every failed file still under its retry ceiling and
// returns the ids it retried alongside the ids it skipped at the limit, so
// callers can surface why a file was left alone.
func (e *Engine) RetryFailed() (retried, skipped []string) {
	e.mu.Lock()
	var candidates []types.TrackedFile
	for _, f := range e.state.Files {
		if f.Status == types.StatusError {
			candidates = append(candidates, f)
		}
	}
	e.mu.Unlock()

	for _, f := range candidates {
		if f.RetryCount >= f.MaxRetries {
			skipped = append(skipped, f.ID)
			continue
		}
		e.Retry(f.ID)
		retried = append(retried, f.ID)
	}
	return retried, skipped
}

// ClearFailed removes every failed file and prunes ProcessedError records
// whose context file name no longer matches a tracked file.
func (e *Engine) ClearFailed() {
	e.mu.Lock()
	e.state = reduce(e.state, actionClearFailed{})

	remaining := make(map[string]bool, len(e.state.Files))
	for _, f := range e.state.Files {
		remaining[f.File.Name] = true
	}
	kept := e.errs[:0]
	for _, pe := range e.errs {
		if pe.Context.FileName == "" || remaining[pe.Context.FileName] {
			kept = append(kept, pe)
		}
	}
	e.errs = kept
	e.mu.Unlock()
}

// ClearAll unconditionally empties the collection and resets every
// aggregate flag, regardless of individual file statuses.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.state = reduce(e.state, actionClearAll{})
	e.mu.Unlock()
	e.emit(types.EventClear, nil)
}

// Reset is engine teardown back to the initial state: files, errors, and
// announcements all dropped.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state = reduce(e.state, actionClearAll{})
	e.errs = nil
	e.announcements = nil
	e.mu.Unlock()
}

// UpdateProgress reports transfer progress for a specific file. Regression
// within an attempt is ignored by the reducer.
func (e *Engine) UpdateProgress(id string, percent int) {
	e.mu.Lock()
	i := e.state.find(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.state = reduce(e.state, actionProgress{id: id, percent: percent})
	updated := e.state.Files[e.state.find(id)]
	e.mu.Unlock()

	e.emit(types.EventProgress, []types.TrackedFile{updated})
}

// SetSuccess marks a file uploaded.
func (e *Engine) SetSuccess(id string) {
	e.setSuccess(id, "", "")
}

func (e *Engine) setSuccess(id, url, thumbnailURL string) {
	e.mu.Lock()
	i := e.state.find(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.state = reduce(e.state, actionSucceed{id: id, url: url, thumbnailURL: thumbnailURL})
	done := e.state.Files[e.state.find(id)]
	e.mu.Unlock()

	e.collector.IncFileUploaded(done.File.Size)
	e.emit(types.EventSuccess, []types.TrackedFile{done})
}

// SetError marks a file failed with the given message.
func (e *Engine) SetError(id, message string) {
	e.mu.Lock()
	i := e.state.find(id)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.state = reduce(e.state, actionFail{id: id, message: message})
	failed := e.state.Files[e.state.find(id)]
	e.mu.Unlock()

	e.collector.IncFileFailed()
	e.emit(types.EventError, []types.TrackedFile{failed})
}

// Upload processes every pending file sequentially, in collection order.
// Files in other statuses are left untouched. No two files are ever
// concurrently uploading under one engine; IsUploading spans the whole
// pass. A second call while a pass runs returns ErrUploadInFlight.
// Cancellation is honored between files and between progress ticks.
func (e *Engine) Upload(ctx context.Context) error {
	e.mu.Lock()
	if e.state.IsUploading {
		e.mu.Unlock()
		return ErrUploadInFlight
	}
	pending := make([]types.TrackedFile, 0, len(e.state.Files))
	for _, f := range e.state.Files {
		if f.Status == types.StatusPending {
			pending = append(pending, f)
		}
	}
	if len(pending) == 0 {
		e.mu.Unlock()
		return nil
	}
	e.state = reduce(e.state, actionSetUploading{on: true})
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.state = reduce(e.state, actionSetUploading{on: false})
		e.mu.Unlock()
	}()

	e.logger.Info("upload pass started", map[string]any{"pending": len(pending)})
	e.emit(types.EventUploadStart, pending)

	for _, f := range pending {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("upload pass canceled", map[string]any{"file": f.File.Name})
			return err
		}
		e.uploadOne(ctx, f)
	}

	e.logger.Info("upload pass finished", nil)
	return nil
}

// uploadOne drives a single file through the transport adapter.
func (e *Engine) uploadOne(ctx context.Context, f types.TrackedFile) {
	e.mu.Lock()
	if e.state.find(f.ID) < 0 {
		// Removed while queued.
		e.mu.Unlock()
		return
	}
	e.state = reduce(e.state, actionStartFile{id: f.ID})
	e.mu.Unlock()

	result, err := e.adapter.Upload(ctx, f.File, func(percent int) {
		e.UpdateProgress(f.ID, percent)
	})

	switch {
	case err != nil:
		pe := e.HandleError(err, &faults.Context{
			FileID:    f.ID,
			FileName:  f.File.Name,
			FileSize:  f.File.Size,
			Operation: "upload",
		})
		e.logger.Error("upload failed", map[string]any{
			"file": f.File.Name,
			"code": pe.Code,
		})
	case result != nil && !result.Success:
		e.HandleError(result.Error, &faults.Context{
			FileID:    f.ID,
			FileName:  f.File.Name,
			FileSize:  f.File.Size,
			Operation: "upload",
		})
	default:
		var url, thumb string
		if result != nil {
			url, thumb = result.URL, result.ThumbnailURL
		}
		e.setSuccess(f.ID, url, thumb)
	}
}

// HandleError routes a raw failure through the classifier, appends the
// record, and stores the message on the named file or as the global error.
// It never panics; if classification itself fails, the raw message is kept
// as the global error so error handling can never take down the widget.
func (e *Engine) HandleError(raw any, ctx *faults.Context) (pe faults.ProcessedError) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", raw)
			e.mu.Lock()
			e.state = reduce(e.state, actionGlobalError{message: msg})
			e.mu.Unlock()
			pe = faults.ProcessedError{Code: faults.UnknownCode, UserMessage: msg}
		}
	}()

	pe = faults.Classify(raw, ctx, e.cfg)

	e.mu.Lock()
	e.errs = append(e.errs, pe)
	attributed := false
	if ctx != nil && ctx.FileID != "" && e.state.find(ctx.FileID) >= 0 {
		e.state = reduce(e.state, actionFail{id: ctx.FileID, message: pe.UserMessage})
		attributed = true
	}
	if !attributed {
		e.state = reduce(e.state, actionGlobalError{message: pe.UserMessage})
	}
	var failed []types.TrackedFile
	if attributed {
		failed = []types.TrackedFile{e.state.Files[e.state.find(ctx.FileID)]}
	}
	if faults.ShouldAnnounce(pe) {
		e.announcements = append(e.announcements, faults.FormatAnnouncement(pe))
		e.collector.IncAnnouncement()
	}
	e.mu.Unlock()

	if attributed {
		e.collector.IncFileFailed()
	}
	e.emit(types.EventError, failed)
	return pe
}

// HandleValidationErrors is the batch form of HandleError. With more than
// one error the global message is the summarized count.
func (e *Engine) HandleValidationErrors(rawErrors []validate.Error, ctx *faults.Context) []faults.ProcessedError {
	if len(rawErrors) == 0 {
		return nil
	}

	raws := make([]any, len(rawErrors))
	for i, ve := range rawErrors {
		raws[i] = ve
	}
	processed, _ := faults.ClassifyBatch(raws, ctx, e.cfg)

	e.mu.Lock()
	e.errs = append(e.errs, processed...)
	if len(processed) > 1 {
		e.state = reduce(e.state, actionGlobalError{
			message: fmt.Sprintf("%d validation errors occurred", len(processed)),
		})
	} else {
		e.state = reduce(e.state, actionGlobalError{message: processed[0].UserMessage})
	}
	for _, pe := range processed {
		if faults.ShouldAnnounce(pe) {
			e.announcements = append(e.announcements, faults.FormatAnnouncement(pe))
			e.collector.IncAnnouncement()
		}
	}
	e.mu.Unlock()

	e.emit(types.EventError, nil)
	return processed
}

// DismissError removes one record from the accumulated error list.
func (e *Engine) DismissError(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, pe := range e.errs {
		if pe.ID == id {
			e.errs = append(e.errs[:i], e.errs[i+1:]...)
			return
		}
	}
}

// DismissAllErrors drops every record and clears the global error.
func (e *Engine) DismissAllErrors() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = nil
	e.state = reduce(e.state, actionGlobalError{message: ""})
}

// emit delivers a lifecycle event to every registered sink.
func (e *Engine) emit(eventType types.EventType, files []types.TrackedFile) {
	e.mu.Lock()
	e.seq++
	event := types.Event{
		Type:      eventType,
		Files:     files,
		Timestamp: time.Now(),
		SessionID: e.sessionID,
		Seq:       e.seq,
	}
	sinks := e.sinks
	e.mu.Unlock()

	for _, sink := range sinks {
		sink.Consume(event)
	}
}
