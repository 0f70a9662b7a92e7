package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage persists content sessions in badger.
type SessionStorage struct {
	db *BadgerDB
}

func NewSessionStorage(db *BadgerDB) *SessionStorage {
	return &SessionStorage{db: db}
}

func (s *SessionStorage) Save(session *models.ContentSession) error {
	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStorage) Get(id string) (*models.ContentSession, error) {
	var session models.ContentSession
	err := s.db.Store().Get(id, &session)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

func (s *SessionStorage) ListByUser(userID string, status models.SessionStatus, limit, offset int) ([]*models.ContentSession, error) {
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if status != "" {
		query = query.And("Status").Eq(status)
	}
	query = query.SortBy("UpdatedAt").Reverse()
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var sessions []*models.ContentSession
	if err := s.db.Store().Find(&sessions, query); err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	return sessions, nil
}

func (s *SessionStorage) CountByUser(userID string) (int, error) {
	count, err := s.db.Store().Count(&models.ContentSession{}, badgerhold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions for user %s: %w", userID, err)
	}
	return int(count), nil
}

func (s *SessionStorage) Delete(id string) error {
	err := s.db.Store().Delete(id, &models.ContentSession{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
