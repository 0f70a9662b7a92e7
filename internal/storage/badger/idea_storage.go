package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IdeaStorage persists content ideas in badger.
type IdeaStorage struct {
	db *BadgerDB
}

func NewIdeaStorage(db *BadgerDB) *IdeaStorage {
	return &IdeaStorage{db: db}
}

func (s *IdeaStorage) Save(idea *models.Idea) error {
	if err := s.db.Store().Upsert(idea.ID, idea); err != nil {
		return fmt.Errorf("failed to save idea %s: %w", idea.ID, err)
	}
	return nil
}

func (s *IdeaStorage) Get(id string) (*models.Idea, error) {
	var idea models.Idea
	err := s.db.Store().Get(id, &idea)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("idea %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea %s: %w", id, err)
	}
	return &idea, nil
}

func (s *IdeaStorage) ListByUser(userID string, limit, offset int) ([]*models.Idea, error) {
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("CreatedAt").Reverse()
	if offset > 0 {
		query = query.Skip(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ideas []*models.Idea
	if err := s.db.Store().Find(&ideas, query); err != nil {
		return nil, fmt.Errorf("failed to list ideas for user %s: %w", userID, err)
	}
	return ideas, nil
}

func (s *IdeaStorage) ListBySession(sessionID string) ([]*models.Idea, error) {
	var ideas []*models.Idea
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").SortBy("CreatedAt")
	if err := s.db.Store().Find(&ideas, query); err != nil {
		return nil, fmt.Errorf("failed to list ideas for session %s: %w", sessionID, err)
	}
	return ideas, nil
}

func (s *IdeaStorage) DeleteBySession(sessionID string) error {
	err := s.db.Store().DeleteMatching(&models.Idea{}, badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID"))
	if err != nil {
		return fmt.Errorf("failed to delete ideas for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *IdeaStorage) Delete(id string) error {
	err := s.db.Store().Delete(id, &models.Idea{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.NewNotFoundError(fmt.Sprintf("idea %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete idea %s: %w", id, err)
	}
	return nil
}
