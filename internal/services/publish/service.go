package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/services/sessions"
)

// Service validates, schedules and executes publish jobs. Execution is
// at-least-once: a retried job that already published creates a duplicate
// remote post rather than risking a silent drop.
type Service struct {
	logger      arbor.ILogger
	config      *common.PublishConfig
	storage     interfaces.StorageManager
	credentials interfaces.CredentialService
	registry    interfaces.AdapterRegistry
	events      interfaces.EventService
	sessions    *sessions.Service
}

func NewService(
	cfg *common.Config,
	storage interfaces.StorageManager,
	credentials interfaces.CredentialService,
	events interfaces.EventService,
	sessionSvc *sessions.Service,
) *Service {
	client := httpclient.New(cfg.Publish.GetRequestTimeout())
	return &Service{
		logger:      common.GetLogger(),
		config:      &cfg.Publish,
		storage:     storage,
		credentials: credentials,
		registry:    NewRegistry(client),
		events:      events,
		sessions:    sessionSvc,
	}
}

// ScheduleRequest is the input to Schedule.
type ScheduleRequest struct {
	VersionID     string             `json:"version_id" validate:"required"`
	IntegrationID string             `json:"integration_id" validate:"required"`
	ScheduledFor  *time.Time         `json:"scheduled_for,omitempty"`
	Meta          models.PublishMeta `json:"meta"`
}

// Schedule validates a publish request and creates a pending job. A nil
// schedule time means the job is due immediately.
func (s *Service) Schedule(ctx context.Context, userID string, req ScheduleRequest) (*models.PublishJob, error) {
	if err := validator.New().Struct(&req); err != nil {
		return nil, models.NewValidationError("version_id and integration_id are required", "")
	}

	version, err := s.storage.Versions().Get(req.VersionID)
	if err != nil {
		return nil, err
	}
	if version.UserID != userID {
		return nil, models.NewAuthorizationError("content version belongs to another user")
	}
	if version.Body == "" {
		return nil, models.NewValidationError("content version has an empty body", "version_id")
	}
	if limit := models.MaxPublishBodyLength(version.Platform); len([]rune(version.Body)) > limit {
		return nil, models.NewValidationError(
			fmt.Sprintf("content exceeds the %d character limit for %s", limit, version.Platform), "version_id")
	}

	integration, _, err := s.credentials.Resolve(ctx, req.IntegrationID)
	if err != nil {
		return nil, err
	}
	if integration.UserID != userID {
		return nil, models.NewAuthorizationError("integration belongs to another user")
	}
	if !integration.IsActive {
		return nil, models.NewValidationError("integration is not active", "integration_id")
	}
	if _, err := s.registry.Adapter(integration.Provider); err != nil {
		return nil, err
	}

	if req.ScheduledFor != nil && !req.ScheduledFor.After(time.Now()) {
		return nil, models.NewValidationError("scheduled time must be in the future", "scheduled_for")
	}

	active, err := s.storage.PublishJobs().CountActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if active >= s.config.MaxPendingJobsPerUser {
		return nil, models.NewRateLimitError("too many active publish jobs", active, s.config.MaxPendingJobsPerUser)
	}

	now := time.Now().UTC()
	job := &models.PublishJob{
		ID:            common.NewPublishJobID(),
		UserID:        userID,
		SessionID:     version.SessionID,
		VersionID:     version.ID,
		IntegrationID: integration.ID,
		Provider:      integration.Provider,
		Status:        models.JobStatusPending,
		ScheduledFor:  req.ScheduledFor,
		Meta:          req.Meta,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("job_id", job.ID).
		Str("provider", string(job.Provider)).
		Str("version_id", version.ID).
		Msg("Publish job scheduled")
	s.notify(ctx, job)
	return job, nil
}

// Execute runs one job to completion. Only pending jobs execute; anything
// else is a conflict so double-delivery cannot be triggered through the API.
func (s *Service) Execute(ctx context.Context, jobID string) (*models.PublishJob, error) {
	job, err := s.storage.PublishJobs().Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPending {
		return nil, models.NewConflictError(fmt.Sprintf("job is %s, only pending jobs can execute", job.Status))
	}

	job.MarkStarted()
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}
	s.notify(ctx, job)

	result, execErr := s.run(ctx, job)
	if execErr != nil {
		job.MarkFailed(execErr.Error(), fmt.Sprintf("provider=%s version=%s", job.Provider, job.VersionID))
		if err := s.storage.PublishJobs().Save(job); err != nil {
			return nil, err
		}
		s.logger.Warn().
			Err(execErr).
			Str("job_id", job.ID).
			Str("provider", string(job.Provider)).
			Msg("Publish job failed")
		s.notify(ctx, job)
		return job, nil
	}

	job.MarkSuccess(result.RemoteID, result.RemoteURL)
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("job_id", job.ID).
		Str("remote_id", result.RemoteID).
		Str("remote_url", result.RemoteURL).
		Msg("Publish job completed")
	s.notify(ctx, job)
	s.sessions.MarkPublished(ctx, job.SessionID)
	return job, nil
}

func (s *Service) run(ctx context.Context, job *models.PublishJob) (*interfaces.PublishResult, error) {
	version, err := s.storage.Versions().Get(job.VersionID)
	if err != nil {
		return nil, err
	}
	_, creds, err := s.credentials.Resolve(ctx, job.IntegrationID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.registry.Adapter(job.Provider)
	if err != nil {
		return nil, err
	}

	session, err := s.storage.Sessions().Get(job.SessionID)
	title := job.Meta.Title
	if title == "" && err == nil {
		title = session.Title
	}

	return adapter.Publish(ctx, interfaces.PublishRequest{
		Body:        version.Body,
		Title:       title,
		Meta:        job.Meta,
		Credentials: creds,
	})
}

// ExecuteDue runs every pending job whose time has arrived. Called by the
// scheduler sweep.
func (s *Service) ExecuteDue(ctx context.Context, now time.Time) int {
	due, err := s.storage.PublishJobs().ListDue(now)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list due publish jobs")
		return 0
	}

	executed := 0
	for _, job := range due {
		if _, err := s.Execute(ctx, job.ID); err != nil {
			s.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Due job execution refused")
			continue
		}
		executed++
	}
	return executed
}

// Retry resets a failed job and executes it again. Retrying is
// at-least-once: a job that failed after partial delivery may publish
// duplicates.
func (s *Service) Retry(ctx context.Context, userID, jobID string) (*models.PublishJob, error) {
	job, err := s.owned(userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusFailed {
		return nil, models.NewConflictError(fmt.Sprintf("only failed jobs can be retried, job is %s", job.Status))
	}

	job.ResetForRetry()
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}
	return s.Execute(ctx, job.ID)
}

// Cancel marks a pending job failed with a cancellation log entry.
func (s *Service) Cancel(ctx context.Context, userID, jobID string) (*models.PublishJob, error) {
	job, err := s.owned(userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPending {
		return nil, models.NewConflictError(fmt.Sprintf("only pending jobs can be cancelled, job is %s", job.Status))
	}

	job.MarkFailed("cancelled by user", "")
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}
	s.notify(ctx, job)
	return job, nil
}

// Reschedule moves a pending job to a new future time.
func (s *Service) Reschedule(ctx context.Context, userID, jobID string, scheduledFor time.Time) (*models.PublishJob, error) {
	job, err := s.owned(userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPending {
		return nil, models.NewConflictError(fmt.Sprintf("only pending jobs can be rescheduled, job is %s", job.Status))
	}
	if !scheduledFor.After(time.Now()) {
		return nil, models.NewValidationError("scheduled time must be in the future", "scheduled_for")
	}

	utc := scheduledFor.UTC()
	job.ScheduledFor = &utc
	job.UpdatedAt = time.Now().UTC()
	if err := s.storage.PublishJobs().Save(job); err != nil {
		return nil, err
	}
	s.notify(ctx, job)
	return job, nil
}

// Get returns an owned job.
func (s *Service) Get(ctx context.Context, userID, jobID string) (*models.PublishJob, error) {
	return s.owned(userID, jobID)
}

// List returns the user's jobs, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID string, status models.JobStatus, limit, offset int) ([]*models.PublishJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.storage.PublishJobs().ListByUser(userID, status, limit, offset)
}

// ListBySession returns the jobs for an owned session.
func (s *Service) ListBySession(ctx context.Context, userID, sessionID string) ([]*models.PublishJob, error) {
	session, err := s.storage.Sessions().Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.NewAuthorizationError("session belongs to another user")
	}
	return s.storage.PublishJobs().ListBySession(sessionID)
}

func (s *Service) owned(userID, jobID string) (*models.PublishJob, error) {
	job, err := s.storage.PublishJobs().Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, models.NewAuthorizationError("publish job belongs to another user")
	}
	return job, nil
}

func (s *Service) notify(ctx context.Context, job *models.PublishJob) {
	s.events.Publish(ctx, interfaces.Event{
		Type:   interfaces.EventPublishUpdated,
		UserID: job.UserID,
		Payload: map[string]interface{}{
			"job_id":     job.ID,
			"session_id": job.SessionID,
			"status":     string(job.Status),
			"remote_url": job.RemoteURL,
		},
	})
}
