// Package eventlog streams widget lifecycle events to an io.Writer as
// length-prefixed msgpack frames.
//
// The frame format is a 4-byte big-endian payload length followed by the
// msgpack-encoded event. Integrators can tail the stream to mirror widget
// activity into their own systems without linking against the engine.
package eventlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pelhamlabs/dropkit/types"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (1 MiB), including prefix.
	MaxFrameSize = 1 * 1024 * 1024
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
	// MaxPayloadSize is the maximum payload size.
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
)

// Writer encodes lifecycle events as frames. It implements
// types.EventSink, so it can be registered directly on the engine.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewWriter creates an event log writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Consume implements types.EventSink. Write failures are sticky: after the
// first failure every subsequent event is dropped, so a broken pipe cannot
// stall the engine's command surface.
func (lw *Writer) Consume(event types.Event) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if lw.err != nil {
		return
	}
	lw.err = writeFrame(lw.w, event)
}

// Err returns the sticky write error, if any.
func (lw *Writer) Err() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.err
}

// writeFrame encodes one event with its length prefix.
func writeFrame(w io.Writer, event types.Event) error {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		return fmt.Errorf("eventlog: marshal event: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("eventlog: payload size %d exceeds maximum %d", len(payload), MaxPayloadSize)
	}

	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("eventlog: write prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("eventlog: write payload: %w", err)
	}
	return nil
}

// Reader decodes frames written by Writer.
type Reader struct {
	r io.Reader
}

// NewReader creates an event log reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads one event. Returns io.EOF when the stream ends cleanly.
func (lr *Reader) Next() (*types.Event, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(lr.r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("eventlog: read prefix: %w", err)
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size > MaxPayloadSize {
		return nil, fmt.Errorf("eventlog: payload size %d exceeds maximum %d", size, MaxPayloadSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(lr.r, payload); err != nil {
		return nil, fmt.Errorf("eventlog: read payload: %w", err)
	}

	var event types.Event
	if err := msgpack.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("eventlog: decode event: %w", err)
	}
	return &event, nil
}

// Verify Writer implements the sink interface.
var _ types.EventSink = (*Writer)(nil)
