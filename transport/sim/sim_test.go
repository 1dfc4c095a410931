package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/types"
)

func simConfig(rate float64, seed int64) config.SimConfig {
	return config.SimConfig{
		Delay:        config.Duration{Duration: 40 * time.Millisecond},
		TickInterval: config.Duration{Duration: 10 * time.Millisecond},
		SuccessRate:  rate,
		Seed:         seed,
	}
}

func TestUpload_ProgressClimbsTo100(t *testing.T) {
	s := New(simConfig(1.0, 7))

	var ticks []int
	result, err := s.Upload(context.Background(), types.FileInfo{Name: "a.bin"}, func(p int) {
		ticks = append(ticks, p)
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Success)

	require.NotEmpty(t, ticks)
	for i := 1; i < len(ticks); i++ {
		assert.GreaterOrEqual(t, ticks[i], ticks[i-1], "progress must never regress")
	}
	assert.Equal(t, 100, ticks[len(ticks)-1])
}

func TestUpload_StableURLsAndImageThumbnails(t *testing.T) {
	s := New(simConfig(1.0, 7))

	img, err := s.Upload(context.Background(), types.FileInfo{Name: "photo.png", MIME: "image/png"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, img.URL)
	assert.NotEmpty(t, img.ThumbnailURL)

	doc, err := s.Upload(context.Background(), types.FileInfo{Name: "doc.pdf", MIME: "application/pdf"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.URL)
	assert.Empty(t, doc.ThumbnailURL, "thumbnails only for images")

	again, err := s.Upload(context.Background(), types.FileInfo{Name: "photo.png", MIME: "image/png"}, nil)
	require.NoError(t, err)
	assert.Equal(t, img.URL, again.URL, "URLs derive from the name, not the attempt")
}

func TestUpload_SeededOutcomesAreReproducible(t *testing.T) {
	outcomes := func(seed int64) []bool {
		s := New(simConfig(0.5, seed))
		var got []bool
		for i := 0; i < 20; i++ {
			_, err := s.Upload(context.Background(), types.FileInfo{Name: "f.bin"}, nil)
			got = append(got, err == nil)
		}
		return got
	}

	first := outcomes(42)
	second := outcomes(42)
	assert.Equal(t, first, second)

	failures := 0
	for _, ok := range first {
		if !ok {
			failures++
		}
	}
	assert.Positive(t, failures, "a 50%% failure rate over 20 draws should fail at least once")
}

func TestUpload_CancellationBetweenTicks(t *testing.T) {
	cfg := simConfig(1.0, 7)
	cfg.Delay = config.Duration{Duration: 10 * time.Second}
	cfg.TickInterval = config.Duration{Duration: 10 * time.Millisecond}
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := s.Upload(ctx, types.FileInfo{Name: "slow.bin"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must not wait out the transfer")
}

func TestNew_AppliesDefaults(t *testing.T) {
	s := New(config.SimConfig{})
	assert.Equal(t, DefaultDelay, s.delay)
	assert.Equal(t, DefaultTickInterval, s.tickInterval)
	assert.InDelta(t, DefaultSuccessRate, s.successRate, 0.0001)
}
