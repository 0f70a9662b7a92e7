package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// VideoJobStorage persists media generation jobs in badger.
type VideoJobStorage struct {
	db *BadgerDB
}

func NewVideoJobStorage(db *BadgerDB) *VideoJobStorage {
	return &VideoJobStorage{db: db}
}

func (s *VideoJobStorage) Save(job *models.VideoJob) error {
	if err := s.db.Store().Upsert(job.ID, job); err != nil {
		return fmt.Errorf("failed to save video job %s: %w", job.ID, err)
	}
	return nil
}

func (s *VideoJobStorage) Get(id string) (*models.VideoJob, error) {
	var job models.VideoJob
	err := s.db.Store().Get(id, &job)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("video job %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video job %s: %w", id, err)
	}
	return &job, nil
}

func (s *VideoJobStorage) ListByUser(userID string, limit, offset int) ([]*models.VideoJob, error) {
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("CreatedAt").Reverse()
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var jobs []*models.VideoJob
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list video jobs for user %s: %w", userID, err)
	}
	return jobs, nil
}

func (s *VideoJobStorage) ListBySession(sessionID string) ([]*models.VideoJob, error) {
	var jobs []*models.VideoJob
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list video jobs for session %s: %w", sessionID, err)
	}
	return jobs, nil
}

func (s *VideoJobStorage) CountActiveByIntegration(integrationID string) (int, error) {
	count, err := s.db.Store().Count(&models.VideoJob{},
		badgerhold.Where("IntegrationID").Eq(integrationID).Index("IntegrationID").
			And("Status").In(models.VideoJobStatusPending, models.VideoJobStatusRunning, models.VideoJobStatusProcessing))
	if err != nil {
		return 0, fmt.Errorf("failed to count active video jobs for integration %s: %w", integrationID, err)
	}
	return int(count), nil
}

func (s *VideoJobStorage) Delete(id string) error {
	err := s.db.Store().Delete(id, &models.VideoJob{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.NewNotFoundError(fmt.Sprintf("video job %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete video job %s: %w", id, err)
	}
	return nil
}
