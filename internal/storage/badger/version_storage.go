package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// VersionStorage persists content versions in badger.
type VersionStorage struct {
	db *BadgerDB
}

func NewVersionStorage(db *BadgerDB) *VersionStorage {
	return &VersionStorage{db: db}
}

func (s *VersionStorage) Save(version *models.ContentVersion) error {
	if err := s.db.Store().Upsert(version.ID, version); err != nil {
		return fmt.Errorf("failed to save version %s: %w", version.ID, err)
	}
	return nil
}

func (s *VersionStorage) Get(id string) (*models.ContentVersion, error) {
	var version models.ContentVersion
	err := s.db.Store().Get(id, &version)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("version %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version %s: %w", id, err)
	}
	return &version, nil
}

func (s *VersionStorage) ListBySession(sessionID string) ([]*models.ContentVersion, error) {
	var versions []*models.ContentVersion
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").SortBy("CreatedAt").Reverse()
	if err := s.db.Store().Find(&versions, query); err != nil {
		return nil, fmt.Errorf("failed to list versions for session %s: %w", sessionID, err)
	}
	return versions, nil
}

func (s *VersionStorage) LatestByPlatform(sessionID string, platform models.Platform) (*models.ContentVersion, error) {
	var versions []*models.ContentVersion
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").
		And("Platform").Eq(platform).
		SortBy("Number").Reverse().Limit(1)
	if err := s.db.Store().Find(&versions, query); err != nil {
		return nil, fmt.Errorf("failed to get latest %s version for session %s: %w", platform, sessionID, err)
	}
	if len(versions) == 0 {
		return nil, models.NewNotFoundError(fmt.Sprintf("no %s version for session %s", platform, sessionID))
	}
	return versions[0], nil
}

func (s *VersionStorage) NextNumber(sessionID string, platform models.Platform) (int, error) {
	latest, err := s.LatestByPlatform(sessionID, platform)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return latest.Number + 1, nil
}

func (s *VersionStorage) DeleteBySession(sessionID string) error {
	err := s.db.Store().DeleteMatching(&models.ContentVersion{}, badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID"))
	if err != nil {
		return fmt.Errorf("failed to delete versions for session %s: %w", sessionID, err)
	}
	return nil
}
