package models

import "time"

// JobStatus tracks a publish or video job through its lifecycle.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// JobLog records the outcome of the most recent execution attempt.
type JobLog struct {
	Error     string    `json:"error,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishMeta carries optional per-platform publishing options.
type PublishMeta struct {
	Title      string   `json:"title,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// PublishJob is a scheduled or immediate request to push a content version
// to an external platform. UserID is denormalized from the session so the
// per-user pending ceiling can be checked with a single query.
type PublishJob struct {
	ID           string              `json:"id" badgerhold:"key"`
	UserID       string              `json:"user_id" badgerhold:"index"`
	SessionID    string              `json:"session_id" badgerhold:"index"`
	VersionID    string              `json:"version_id"`
	IntegrationID string             `json:"integration_id" badgerhold:"index"`
	Provider     IntegrationProvider `json:"provider"`
	Status       JobStatus           `json:"status" badgerhold:"index"`
	ScheduledFor *time.Time          `json:"scheduled_for,omitempty"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	RemoteID     string              `json:"remote_id,omitempty"`
	RemoteURL    string              `json:"remote_url,omitempty"`
	Log          *JobLog             `json:"log,omitempty"`
	Meta         PublishMeta         `json:"meta"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// IsTerminal reports whether the job has finished, successfully or not.
func (j *PublishJob) IsTerminal() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusFailed
}

// IsDue reports whether the job should run now: pending with no schedule,
// or pending with a scheduled time at or before now.
func (j *PublishJob) IsDue(now time.Time) bool {
	if j.Status != JobStatusPending {
		return false
	}
	return j.ScheduledFor == nil || !j.ScheduledFor.After(now)
}

// MarkStarted transitions the job to running.
func (j *PublishJob) MarkStarted() {
	now := time.Now().UTC()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkSuccess records the remote result and transitions to success.
func (j *PublishJob) MarkSuccess(remoteID, remoteURL string) {
	now := time.Now().UTC()
	j.Status = JobStatusSuccess
	j.RemoteID = remoteID
	j.RemoteURL = remoteURL
	j.CompletedAt = &now
	j.Log = nil
	j.UpdatedAt = now
}

// MarkFailed records the failure and transitions to failed.
func (j *PublishJob) MarkFailed(reason, detail string) {
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Log = &JobLog{Error: reason, Detail: detail, Timestamp: now}
	j.UpdatedAt = now
}

// ResetForRetry clears execution state so a failed job can run again.
func (j *PublishJob) ResetForRetry() {
	j.Status = JobStatusPending
	j.StartedAt = nil
	j.CompletedAt = nil
	j.RemoteID = ""
	j.RemoteURL = ""
	j.UpdatedAt = time.Now().UTC()
}
