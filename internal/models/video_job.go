package models

import "time"

// VideoJobStatus tracks a media generation job. Sync providers go straight
// from running to completed; async providers sit in processing while the
// remote render is polled.
type VideoJobStatus string

const (
	VideoJobStatusPending    VideoJobStatus = "pending"
	VideoJobStatusRunning    VideoJobStatus = "running"
	VideoJobStatusProcessing VideoJobStatus = "processing"
	VideoJobStatusCompleted  VideoJobStatus = "completed"
	VideoJobStatusFailed     VideoJobStatus = "failed"
)

// VideoJob is a request to render a content version as audio or video via
// an external media provider.
type VideoJob struct {
	ID            string              `json:"id" badgerhold:"key"`
	UserID        string              `json:"user_id" badgerhold:"index"`
	SessionID     string              `json:"session_id" badgerhold:"index"`
	VersionID     string              `json:"version_id"`
	IntegrationID string              `json:"integration_id" badgerhold:"index"`
	Provider      IntegrationProvider `json:"provider"`
	Status        VideoJobStatus      `json:"status" badgerhold:"index"`
	RemoteJobID   string              `json:"remote_job_id,omitempty"`
	AssetPath     string              `json:"asset_path,omitempty"`
	AssetURL      string              `json:"asset_url,omitempty"`
	StartedAt     *time.Time          `json:"started_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Log           *JobLog             `json:"log,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// IsTerminal reports whether the job has finished.
func (j *VideoJob) IsTerminal() bool {
	return j.Status == VideoJobStatusCompleted || j.Status == VideoJobStatusFailed
}

// MarkStarted transitions the job to running.
func (j *VideoJob) MarkStarted() {
	now := time.Now().UTC()
	j.Status = VideoJobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkProcessing records the remote job handle while an async render runs.
func (j *VideoJob) MarkProcessing(remoteJobID string) {
	j.Status = VideoJobStatusProcessing
	j.RemoteJobID = remoteJobID
	j.UpdatedAt = time.Now().UTC()
}

// MarkCompleted records the finished asset.
func (j *VideoJob) MarkCompleted(assetPath, assetURL string) {
	now := time.Now().UTC()
	j.Status = VideoJobStatusCompleted
	j.AssetPath = assetPath
	j.AssetURL = assetURL
	j.CompletedAt = &now
	j.Log = nil
	j.UpdatedAt = now
}

// MarkFailed records the failure and transitions to failed.
func (j *VideoJob) MarkFailed(reason string) {
	now := time.Now().UTC()
	j.Status = VideoJobStatusFailed
	j.CompletedAt = &now
	j.Log = &JobLog{Error: reason, Timestamp: now}
	j.UpdatedAt = now
}
