package badger

import (
	"errors"
	"fmt"
	"time"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// PublishJobStorage persists publish jobs in badger.
type PublishJobStorage struct {
	db *BadgerDB
}

func NewPublishJobStorage(db *BadgerDB) *PublishJobStorage {
	return &PublishJobStorage{db: db}
}

func (s *PublishJobStorage) Save(job *models.PublishJob) error {
	if err := s.db.Store().Upsert(job.ID, job); err != nil {
		return fmt.Errorf("failed to save publish job %s: %w", job.ID, err)
	}
	return nil
}

func (s *PublishJobStorage) Get(id string) (*models.PublishJob, error) {
	var job models.PublishJob
	err := s.db.Store().Get(id, &job)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("publish job %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publish job %s: %w", id, err)
	}
	return &job, nil
}

func (s *PublishJobStorage) ListByUser(userID string, status models.JobStatus, limit, offset int) ([]*models.PublishJob, error) {
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if status != "" {
		query = query.And("Status").Eq(status)
	}
	query = query.SortBy("CreatedAt").Reverse()
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var jobs []*models.PublishJob
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list publish jobs for user %s: %w", userID, err)
	}
	return jobs, nil
}

func (s *PublishJobStorage) ListBySession(sessionID string) ([]*models.PublishJob, error) {
	var jobs []*models.PublishJob
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list publish jobs for session %s: %w", sessionID, err)
	}
	return jobs, nil
}

// ListDue returns pending jobs whose scheduled time has arrived. Jobs with
// no schedule run on the next sweep after creation.
func (s *PublishJobStorage) ListDue(now time.Time) ([]*models.PublishJob, error) {
	var pending []*models.PublishJob
	query := badgerhold.Where("Status").Eq(models.JobStatusPending).Index("Status").SortBy("CreatedAt")
	if err := s.db.Store().Find(&pending, query); err != nil {
		return nil, fmt.Errorf("failed to list due publish jobs: %w", err)
	}

	due := make([]*models.PublishJob, 0, len(pending))
	for _, job := range pending {
		if job.IsDue(now) {
			due = append(due, job)
		}
	}
	return due, nil
}

func (s *PublishJobStorage) CountActiveByUser(userID string) (int, error) {
	count, err := s.db.Store().Count(&models.PublishJob{},
		badgerhold.Where("UserID").Eq(userID).Index("UserID").
			And("Status").In(models.JobStatusPending, models.JobStatusRunning))
	if err != nil {
		return 0, fmt.Errorf("failed to count active publish jobs for user %s: %w", userID, err)
	}
	return int(count), nil
}

func (s *PublishJobStorage) CountActiveByIntegration(integrationID string) (int, error) {
	count, err := s.db.Store().Count(&models.PublishJob{},
		badgerhold.Where("IntegrationID").Eq(integrationID).Index("IntegrationID").
			And("Status").In(models.JobStatusPending, models.JobStatusRunning))
	if err != nil {
		return 0, fmt.Errorf("failed to count active publish jobs for integration %s: %w", integrationID, err)
	}
	return int(count), nil
}

func (s *PublishJobStorage) Delete(id string) error {
	err := s.db.Store().Delete(id, &models.PublishJob{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.NewNotFoundError(fmt.Sprintf("publish job %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete publish job %s: %w", id, err)
	}
	return nil
}
