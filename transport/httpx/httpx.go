// Package httpx implements a multipart HTTP POST transport adapter.
//
// Posts the file bytes to a configurable URL. Retries with exponential
// backoff on 5xx responses and network errors; 4xx responses are
// non-retriable and fail immediately.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pelhamlabs/dropkit/transport"
	"github.com/pelhamlabs/dropkit/types"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// Config configures the HTTP adapter.
type Config struct {
	// URL is the upload endpoint to POST to (required).
	URL string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration
	// Retries is the number of retry attempts on transient failures
	// (default 3).
	Retries int
}

// Adapter uploads files via multipart HTTP POST.
type Adapter struct {
	config Config
	client *http.Client
}

// New creates an HTTP adapter from the given config.
// Returns an error if the URL is empty.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("http transport requires a URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// serverResponse is the minimal JSON shape expected from the endpoint.
type serverResponse struct {
	FileID       string            `json:"file_id"`
	URL          string            `json:"url"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Upload posts the file as multipart form data.
// Progress is derived from bytes read off the source against the declared
// size; it reaches 100 when the body has been fully sent.
func (a *Adapter) Upload(ctx context.Context, file types.FileInfo, onProgress transport.ProgressFunc) (*transport.Result, error) {
	if file.Open == nil {
		return nil, fmt.Errorf("httpx: no byte stream for %q", file.Name)
	}

	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + a.config.Retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("httpx: context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("httpx: context canceled during backoff: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		result, err := a.doUpload(ctx, file, onProgress)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// 4xx responses are non-retriable, stop immediately.
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return nil, fmt.Errorf("httpx: non-retriable error: %w", err)
		}
	}

	return nil, fmt.Errorf("httpx: failed after %d attempts: %w", attempts, lastErr)
}

// StatusError is returned for non-2xx HTTP responses.
// Wrapping the status code allows callers to distinguish retriable (5xx)
// from non-retriable (4xx) failures.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// doUpload performs a single multipart POST.
func (a *Adapter) doUpload(ctx context.Context, file types.FileInfo, onProgress transport.ProgressFunc) (*transport.Result, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", file.Name, err)
	}
	defer src.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", file.Name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		counted := &progressReader{r: src, total: file.Size, onProgress: onProgress}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, pr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var sr serverResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if onProgress != nil {
		onProgress(100)
	}

	return &transport.Result{
		Success:      true,
		FileID:       sr.FileID,
		URL:          sr.URL,
		ThumbnailURL: sr.ThumbnailURL,
		Metadata:     sr.Metadata,
	}, nil
}

// Close releases adapter resources.
func (a *Adapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// progressReader reports read progress against a declared total.
// Percent is capped at 99 until the response confirms completion.
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress transport.ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.onProgress != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 99 {
			percent = 99
		}
		if percent > p.last {
			p.last = percent
			p.onProgress(percent)
		}
	}
	return n, err
}

// Verify Adapter implements the transport interface.
var _ transport.Adapter = (*Adapter)(nil)
