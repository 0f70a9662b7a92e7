package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJobLifecycle(t *testing.T) {
	job := &PublishJob{ID: "pub_1", Status: JobStatusPending}
	assert.False(t, job.IsTerminal())

	job.MarkStarted()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.MarkSuccess("42", "https://example.com/posts/42")
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, "42", job.RemoteID)
	assert.Equal(t, "https://example.com/posts/42", job.RemoteURL)
	require.NotNil(t, job.CompletedAt)
	assert.Nil(t, job.Log)
	assert.True(t, job.IsTerminal())
}

func TestPublishJobMarkFailed(t *testing.T) {
	job := &PublishJob{ID: "pub_2", Status: JobStatusRunning}
	job.MarkFailed("upstream rejected the post", "provider=wordpress")

	assert.Equal(t, JobStatusFailed, job.Status)
	require.NotNil(t, job.Log)
	assert.Equal(t, "upstream rejected the post", job.Log.Error)
	assert.False(t, job.Log.Timestamp.IsZero())
	assert.True(t, job.IsTerminal())
}

func TestPublishJobResetForRetry(t *testing.T) {
	job := &PublishJob{ID: "pub_3", Status: JobStatusRunning}
	job.MarkFailed("boom", "")
	job.ResetForRetry()

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.Empty(t, job.RemoteID)
	assert.Empty(t, job.RemoteURL)
}

func TestPublishJobIsDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	immediate := &PublishJob{Status: JobStatusPending}
	assert.True(t, immediate.IsDue(now))

	scheduled := &PublishJob{Status: JobStatusPending, ScheduledFor: &future}
	assert.False(t, scheduled.IsDue(now))

	overdue := &PublishJob{Status: JobStatusPending, ScheduledFor: &past}
	assert.True(t, overdue.IsDue(now))

	running := &PublishJob{Status: JobStatusRunning, ScheduledFor: &past}
	assert.False(t, running.IsDue(now))
}

func TestVideoJobLifecycle(t *testing.T) {
	job := &VideoJob{ID: "vid_1", Status: VideoJobStatusPending}

	job.MarkStarted()
	assert.Equal(t, VideoJobStatusRunning, job.Status)

	job.MarkProcessing("remote-123")
	assert.Equal(t, VideoJobStatusProcessing, job.Status)
	assert.Equal(t, "remote-123", job.RemoteJobID)
	assert.False(t, job.IsTerminal())

	job.MarkCompleted("", "https://cdn.example.com/video.mp4")
	assert.Equal(t, VideoJobStatusCompleted, job.Status)
	assert.Equal(t, "https://cdn.example.com/video.mp4", job.AssetURL)
	assert.True(t, job.IsTerminal())
}
