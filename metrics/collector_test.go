package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("s1", "manager", "sim")

	c.AddFilesSelected(3)
	c.IncFileUploaded(100)
	c.IncFileUploaded(250)
	c.IncFileFailed()
	c.IncFileRemoved()
	c.IncRetry()
	c.AddValidationRejects(2)
	c.IncAnnouncement()

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.FilesSelected)
	assert.Equal(t, int64(2), snap.FilesUploaded)
	assert.Equal(t, int64(350), snap.BytesUploaded)
	assert.Equal(t, int64(1), snap.FilesFailed)
	assert.Equal(t, int64(1), snap.FilesRemoved)
	assert.Equal(t, int64(1), snap.Retries)
	assert.Equal(t, int64(2), snap.ValidationRejects)
	assert.Equal(t, int64(1), snap.Announcements)
	assert.Equal(t, "s1", snap.SessionID)
	assert.Equal(t, "manager", snap.Variant)
	assert.Equal(t, "sim", snap.Transport)
}

func TestCollector_SnapshotIsImmutable(t *testing.T) {
	c := NewCollector("s1", "button", "sim")
	c.AddFilesSelected(1)

	snap := c.Snapshot()
	c.AddFilesSelected(5)

	assert.Equal(t, int64(1), snap.FilesSelected)
	assert.Equal(t, int64(6), c.Snapshot().FilesSelected)
}

func TestCollector_NilReceiverIsSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.AddFilesSelected(1)
		c.IncFileUploaded(10)
		c.IncFileFailed()
		c.IncFileRemoved()
		c.IncRetry()
		c.AddValidationRejects(1)
		c.IncAnnouncement()
	})
	assert.Equal(t, Snapshot{}, c.Snapshot())
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("s1", "gallery", "sim")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncFileUploaded(1)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, int64(1000), snap.FilesUploaded)
	assert.Equal(t, int64(1000), snap.BytesUploaded)
}
