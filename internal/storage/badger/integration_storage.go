package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IntegrationStorage persists provider integrations in badger.
type IntegrationStorage struct {
	db *BadgerDB
}

func NewIntegrationStorage(db *BadgerDB) *IntegrationStorage {
	return &IntegrationStorage{db: db}
}

func (s *IntegrationStorage) Save(integration *models.Integration) error {
	if err := s.db.Store().Upsert(integration.ID, integration); err != nil {
		return fmt.Errorf("failed to save integration %s: %w", integration.ID, err)
	}
	return nil
}

func (s *IntegrationStorage) Get(id string) (*models.Integration, error) {
	var integration models.Integration
	err := s.db.Store().Get(id, &integration)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("integration %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration %s: %w", id, err)
	}
	return &integration, nil
}

func (s *IntegrationStorage) ListByUser(userID string) ([]*models.Integration, error) {
	var integrations []*models.Integration
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("CreatedAt")
	if err := s.db.Store().Find(&integrations, query); err != nil {
		return nil, fmt.Errorf("failed to list integrations for user %s: %w", userID, err)
	}
	return integrations, nil
}

func (s *IntegrationStorage) GetActiveByProvider(userID string, provider models.IntegrationProvider) (*models.Integration, error) {
	var integrations []*models.Integration
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").
		And("Provider").Eq(provider).
		And("IsActive").Eq(true).
		Limit(1)
	if err := s.db.Store().Find(&integrations, query); err != nil {
		return nil, fmt.Errorf("failed to find active %s integration for user %s: %w", provider, userID, err)
	}
	if len(integrations) == 0 {
		return nil, models.NewNotFoundError(fmt.Sprintf("no active %s integration for user %s", provider, userID))
	}
	return integrations[0], nil
}

func (s *IntegrationStorage) Delete(id string) error {
	err := s.db.Store().Delete(id, &models.Integration{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.NewNotFoundError(fmt.Sprintf("integration %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete integration %s: %w", id, err)
	}
	return nil
}
