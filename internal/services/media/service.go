package media

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// Service runs media generation jobs. Sync providers finish inside
// StartJob's background task; async providers are polled on a fixed
// interval until they complete or the attempt budget runs out.
type Service struct {
	logger      arbor.ILogger
	config      *common.MediaConfig
	storage     interfaces.StorageManager
	credentials interfaces.CredentialService
	events      interfaces.EventService
	generators  map[models.IntegrationProvider]interfaces.MediaGenerator
}

func NewService(
	cfg *common.Config,
	storage interfaces.StorageManager,
	credentials interfaces.CredentialService,
	events interfaces.EventService,
) *Service {
	client := httpclient.New(cfg.Publish.GetRequestTimeout())
	s := &Service{
		logger:      common.GetLogger(),
		config:      &cfg.Media,
		storage:     storage,
		credentials: credentials,
		events:      events,
		generators:  make(map[models.IntegrationProvider]interfaces.MediaGenerator),
	}
	for _, g := range []interfaces.MediaGenerator{
		NewElevenLabsGenerator(client, cfg.Media.AssetDir),
		NewHeyGenGenerator(client),
	} {
		s.generators[g.Provider()] = g
	}
	return s
}

func (s *Service) Generator(provider models.IntegrationProvider) (interfaces.MediaGenerator, error) {
	g, ok := s.generators[provider]
	if !ok {
		return nil, models.NewValidationError(fmt.Sprintf("media generation with %q is not supported", provider), "provider")
	}
	return g, nil
}

// StartJob validates a render request, creates the job and runs it in the
// background.
func (s *Service) StartJob(ctx context.Context, userID, versionID, integrationID string) (*models.VideoJob, error) {
	version, err := s.storage.Versions().Get(versionID)
	if err != nil {
		return nil, err
	}
	if version.UserID != userID {
		return nil, models.NewAuthorizationError("content version belongs to another user")
	}
	if version.Body == "" {
		return nil, models.NewValidationError("content version has an empty body", "version_id")
	}

	integration, _, err := s.credentials.Resolve(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	if integration.UserID != userID {
		return nil, models.NewAuthorizationError("integration belongs to another user")
	}
	if _, err := s.Generator(integration.Provider); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.VideoJob{
		ID:            common.NewVideoJobID(),
		UserID:        userID,
		SessionID:     version.SessionID,
		VersionID:     version.ID,
		IntegrationID: integration.ID,
		Provider:      integration.Provider,
		Status:        models.VideoJobStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.storage.VideoJobs().Save(job); err != nil {
		return nil, err
	}

	common.SafeGo(s.logger, "media-job-"+job.ID, func() {
		s.runJob(context.Background(), job.ID)
	})

	s.logger.Info().
		Str("job_id", job.ID).
		Str("provider", string(job.Provider)).
		Msg("Media job started")
	return job, nil
}

func (s *Service) runJob(ctx context.Context, jobID string) {
	job, err := s.storage.VideoJobs().Get(jobID)
	if err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Media job lost its record")
		return
	}

	version, err := s.storage.Versions().Get(job.VersionID)
	if err != nil {
		s.fail(ctx, job, err.Error())
		return
	}
	_, creds, err := s.credentials.Resolve(ctx, job.IntegrationID)
	if err != nil {
		s.fail(ctx, job, err.Error())
		return
	}
	generator, err := s.Generator(job.Provider)
	if err != nil {
		s.fail(ctx, job, err.Error())
		return
	}

	job.MarkStarted()
	if err := s.storage.VideoJobs().Save(job); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to save running media job")
		return
	}
	s.notify(ctx, job)

	result, err := generator.Generate(ctx, job.ID, interfaces.MediaRequest{
		Script:      version.Body,
		Title:       job.SessionID,
		Credentials: creds,
	})
	if err != nil {
		s.fail(ctx, job, err.Error())
		return
	}

	if !result.Async {
		job.MarkCompleted(result.AssetPath, result.AssetURL)
		if err := s.storage.VideoJobs().Save(job); err != nil {
			s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to save completed media job")
			return
		}
		s.notify(ctx, job)
		return
	}

	job.MarkProcessing(result.RemoteJobID)
	if err := s.storage.VideoJobs().Save(job); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to save processing media job")
		return
	}
	s.notify(ctx, job)

	s.pollUntilDone(ctx, job, generator, creds)
}

// pollUntilDone checks the remote render on a fixed interval until it
// finishes or the attempt budget runs out.
func (s *Service) pollUntilDone(ctx context.Context, job *models.VideoJob, generator interfaces.MediaGenerator, creds *models.Credentials) {
	ticker := time.NewTicker(s.config.GetPollInterval())
	defer ticker.Stop()

	for attempt := 1; attempt <= s.config.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			s.fail(ctx, job, "polling aborted: "+ctx.Err().Error())
			return
		case <-ticker.C:
		}

		result, done, err := generator.Poll(ctx, job.RemoteJobID, creds)
		if err != nil {
			if done {
				s.fail(ctx, job, err.Error())
				return
			}
			s.logger.Warn().
				Err(err).
				Str("job_id", job.ID).
				Int("attempt", attempt).
				Msg("Media poll attempt failed")
			continue
		}
		if done {
			job.MarkCompleted(result.AssetPath, result.AssetURL)
			if err := s.storage.VideoJobs().Save(job); err != nil {
				s.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to save completed media job")
				return
			}
			s.notify(ctx, job)
			return
		}
	}

	s.fail(ctx, job, "Polling timeout")
}

// Get returns an owned job.
func (s *Service) Get(ctx context.Context, userID, jobID string) (*models.VideoJob, error) {
	job, err := s.storage.VideoJobs().Get(jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, models.NewAuthorizationError("video job belongs to another user")
	}
	return job, nil
}

// List returns the user's jobs, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*models.VideoJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.storage.VideoJobs().ListByUser(userID, limit, offset)
}

func (s *Service) fail(ctx context.Context, job *models.VideoJob, reason string) {
	job.MarkFailed(reason)
	if err := s.storage.VideoJobs().Save(job); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Msg("Failed to save failed media job")
		return
	}
	s.logger.Warn().
		Str("job_id", job.ID).
		Str("reason", reason).
		Msg("Media job failed")
	s.notify(ctx, job)
}

func (s *Service) notify(ctx context.Context, job *models.VideoJob) {
	s.events.Publish(ctx, interfaces.Event{
		Type:   interfaces.EventVideoUpdated,
		UserID: job.UserID,
		Payload: map[string]interface{}{
			"job_id":     job.ID,
			"session_id": job.SessionID,
			"status":     string(job.Status),
			"asset_url":  job.AssetURL,
			"asset_path": job.AssetPath,
		},
	})
}
