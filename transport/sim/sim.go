// Package sim implements the bundled latency/failure transport simulator.
//
// It drives synthetic progress ticks at a configurable interval over a
// configurable transfer duration, succeeds with a configurable probability,
// and generates deterministic thumbnail URLs for image MIME types. The tick
// loop is an explicit cancellable task: cancellation is honored between
// ticks, never queued behind them.
package sim

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/transport"
	"github.com/pelhamlabs/dropkit/types"
)

// Default tuning applied when the config leaves a knob unset.
const (
	DefaultDelay        = 1500 * time.Millisecond
	DefaultTickInterval = 150 * time.Millisecond
	DefaultSuccessRate  = 0.9
)

// Simulator is a transport.Adapter that fakes transfers.
type Simulator struct {
	delay        time.Duration
	tickInterval time.Duration
	successRate  float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulator from config. A zero seed seeds from the clock;
// a fixed seed makes failure sequences reproducible for demos and tests.
func New(cfg config.SimConfig) *Simulator {
	delay := cfg.Delay.Duration
	if delay <= 0 {
		delay = DefaultDelay
	}
	tick := cfg.TickInterval.Duration
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	rate := cfg.SuccessRate
	if rate <= 0 {
		rate = DefaultSuccessRate
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		delay:        delay,
		tickInterval: tick,
		successRate:  rate,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Upload simulates one transfer. Progress climbs linearly from 0 to 100
// across the configured delay; the outcome is drawn once up front so a
// canceled transfer never consumes a draw out of order.
func (s *Simulator) Upload(ctx context.Context, file types.FileInfo, onProgress transport.ProgressFunc) (*transport.Result, error) {
	succeed := s.draw() < s.successRate

	ticks := int(s.delay / s.tickInterval)
	if ticks < 1 {
		ticks = 1
	}

	for i := 1; i <= ticks; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.tickInterval):
		}
		if onProgress != nil {
			onProgress(i * 100 / ticks)
		}
	}

	if !succeed {
		return nil, fmt.Errorf("simulated network error uploading %q", file.Name)
	}

	result := &transport.Result{
		Success: true,
		FileID:  fmt.Sprintf("sim-%08x", digest(file.Name)),
		URL:     fmt.Sprintf("https://uploads.example.com/%08x/%s", digest(file.Name), file.Name),
	}
	if file.IsImage() {
		result.ThumbnailURL = fmt.Sprintf("https://uploads.example.com/%08x/thumb_%s", digest(file.Name), file.Name)
	}
	return result, nil
}

// Close implements transport.Adapter.
func (s *Simulator) Close() error { return nil }

func (s *Simulator) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// digest hashes a name so simulated URLs are stable across runs.
func digest(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// Verify Simulator implements the adapter interface.
var _ transport.Adapter = (*Simulator)(nil)
