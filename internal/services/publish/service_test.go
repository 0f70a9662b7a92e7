package publish

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/services/credentials"
	"github.com/plumehq/plume/internal/services/events"
	"github.com/plumehq/plume/internal/services/sessions"
	storage "github.com/plumehq/plume/internal/storage/badger"
)

type publishFixture struct {
	svc         *Service
	manager     interfaces.StorageManager
	integration *models.Integration
	version     *models.ContentVersion
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()
	ctx := context.Background()

	cfg := common.DefaultConfig()
	cfg.Security.EncryptionKey = "0123456789abcdef0123456789abcdef"
	cfg.Storage.Badger.Path = t.TempDir()

	manager, err := storage.NewManager(cfg.Storage.Badger.Path)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	credSvc, err := credentials.NewService(cfg, manager)
	require.NoError(t, err)

	eventSvc := events.NewService()
	sessionSvc := sessions.NewService(manager, eventSvc, nil, nil, nil, nil)
	svc := NewService(cfg, manager, credSvc, eventSvc, sessionSvc)

	integration, err := credSvc.Create(ctx, "user_1", models.ProviderWordPress, &models.Credentials{
		SiteURL:     "https://blog.example.com",
		Username:    "admin",
		AppPassword: "xxxx yyyy zzzz",
	}, models.IntegrationMeta{AccountName: "Example Blog"})
	require.NoError(t, err)

	session := &models.ContentSession{
		ID: "ses_1", UserID: "user_1", Title: "A post",
		Status: models.SessionStatusReady,
	}
	require.NoError(t, manager.Sessions().Save(session))

	version := &models.ContentVersion{
		ID: "ver_1", SessionID: "ses_1", UserID: "user_1",
		Platform: models.PlatformArticle, Body: "Hello world, a full article body.",
		Number: 1, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, manager.Versions().Save(version))

	return &publishFixture{svc: svc, manager: manager, integration: integration, version: version}
}

func TestScheduleCreatesPendingJob(t *testing.T) {
	f := newPublishFixture(t)

	job, err := f.svc.Schedule(context.Background(), "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, models.ProviderWordPress, job.Provider)
	assert.Nil(t, job.ScheduledFor)
	assert.True(t, job.IsDue(time.Now()))
}

func TestScheduleRejectsPastTime(t *testing.T) {
	f := newPublishFixture(t)

	past := time.Now().Add(-time.Minute)
	_, err := f.svc.Schedule(context.Background(), "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
		ScheduledFor:  &past,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestScheduleRejectsEmptyBody(t *testing.T) {
	f := newPublishFixture(t)

	empty := &models.ContentVersion{
		ID: "ver_empty", SessionID: "ses_1", UserID: "user_1",
		Platform: models.PlatformArticle, Number: 2,
	}
	require.NoError(t, f.manager.Versions().Save(empty))

	_, err := f.svc.Schedule(context.Background(), "user_1", ScheduleRequest{
		VersionID:     "ver_empty",
		IntegrationID: f.integration.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestScheduleRejectsOverlongBody(t *testing.T) {
	f := newPublishFixture(t)

	long := &models.ContentVersion{
		ID: "ver_long", SessionID: "ses_1", UserID: "user_1",
		Platform: models.PlatformLinkedIn,
		Body:     strings.Repeat("a", models.LinkedInCharLimit+1),
		Number:   1,
	}
	require.NoError(t, f.manager.Versions().Save(long))

	_, err := f.svc.Schedule(context.Background(), "user_1", ScheduleRequest{
		VersionID:     "ver_long",
		IntegrationID: f.integration.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestScheduleRejectsForeignResources(t *testing.T) {
	f := newPublishFixture(t)

	_, err := f.svc.Schedule(context.Background(), "user_2", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeAuthorization))
}

func TestScheduleEnforcesPendingCeiling(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	future := time.Now().Add(24 * time.Hour)
	for i := 0; i < 10; i++ {
		_, err := f.svc.Schedule(ctx, "user_1", ScheduleRequest{
			VersionID:     f.version.ID,
			IntegrationID: f.integration.ID,
			ScheduledFor:  &future,
		})
		require.NoError(t, err, "job %d should schedule", i)
	}

	_, err := f.svc.Schedule(ctx, "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
		ScheduledFor:  &future,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeRateLimit))
}

func TestCancelOnlyPendingJobs(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	future := time.Now().Add(time.Hour)
	job, err := f.svc.Schedule(ctx, "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
		ScheduledFor:  &future,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, "user_1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, cancelled.Status)
	require.NotNil(t, cancelled.Log)
	assert.Equal(t, "cancelled by user", cancelled.Log.Error)

	_, err = f.svc.Cancel(ctx, "user_1", job.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestRescheduleValidation(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	future := time.Now().Add(time.Hour)
	job, err := f.svc.Schedule(ctx, "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
		ScheduledFor:  &future,
	})
	require.NoError(t, err)

	later := time.Now().Add(48 * time.Hour)
	moved, err := f.svc.Reschedule(ctx, "user_1", job.ID, later)
	require.NoError(t, err)
	assert.Equal(t, later.UTC().Unix(), moved.ScheduledFor.Unix())

	_, err = f.svc.Reschedule(ctx, "user_1", job.ID, time.Now().Add(-time.Hour))
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestExecuteRefusesNonPendingJobs(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	job := &models.PublishJob{
		ID: "pub_done", UserID: "user_1", SessionID: "ses_1",
		VersionID: f.version.ID, IntegrationID: f.integration.ID,
		Provider: models.ProviderWordPress, Status: models.JobStatusSuccess,
	}
	require.NoError(t, f.manager.PublishJobs().Save(job))

	_, err := f.svc.Execute(ctx, job.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestIntegrationDeleteBlockedByActiveJobs(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	cfg := common.DefaultConfig()
	cfg.Security.EncryptionKey = "0123456789abcdef0123456789abcdef"
	credSvc, err := credentials.NewService(cfg, f.manager)
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	job, err := f.svc.Schedule(ctx, "user_1", ScheduleRequest{
		VersionID:     f.version.ID,
		IntegrationID: f.integration.ID,
		ScheduledFor:  &future,
	})
	require.NoError(t, err)

	err = credSvc.Delete(ctx, "user_1", f.integration.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))

	_, err = f.svc.Cancel(ctx, "user_1", job.ID)
	require.NoError(t, err)
	require.NoError(t, credSvc.Delete(ctx, "user_1", f.integration.ID))
}
