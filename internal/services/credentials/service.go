package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/ternarybob/arbor"
)

// Service manages provider integrations. Secrets are encrypted before they
// touch storage and decrypted only on resolve.
type Service struct {
	logger  arbor.ILogger
	cipher  *Cipher
	storage interfaces.StorageManager
	client  *httpclient.Client
}

func NewService(cfg *common.Config, storage interfaces.StorageManager) (*Service, error) {
	cipher, err := NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return &Service{
		logger:  common.GetLogger(),
		cipher:  cipher,
		storage: storage,
		client:  httpclient.New(cfg.Publish.GetRequestTimeout()),
	}, nil
}

func (s *Service) Create(ctx context.Context, userID string, provider models.IntegrationProvider, creds *models.Credentials, meta models.IntegrationMeta) (*models.Integration, error) {
	if !models.IsValidProvider(provider) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown provider %q", provider), "provider")
	}
	if creds == nil {
		return nil, models.NewValidationError("credentials are required", "credentials")
	}
	if err := creds.ValidateForProvider(provider); err != nil {
		return nil, err
	}

	encrypted, err := s.seal(creds)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	integration := &models.Integration{
		ID:              common.NewIntegrationID(),
		UserID:          userID,
		Provider:        provider,
		EncryptedSecret: encrypted,
		Meta:            meta,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.storage.Integrations().Save(integration); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("integration_id", integration.ID).
		Str("provider", string(provider)).
		Str("user_id", userID).
		Msg("Integration created")
	return integration, nil
}

func (s *Service) Update(ctx context.Context, userID, integrationID string, creds *models.Credentials) (*models.Integration, error) {
	integration, err := s.owned(userID, integrationID)
	if err != nil {
		return nil, err
	}
	if err := creds.ValidateForProvider(integration.Provider); err != nil {
		return nil, err
	}

	encrypted, err := s.seal(creds)
	if err != nil {
		return nil, err
	}
	integration.EncryptedSecret = encrypted
	integration.UpdatedAt = time.Now().UTC()
	if err := s.storage.Integrations().Save(integration); err != nil {
		return nil, err
	}
	return integration, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Integration, error) {
	return s.storage.Integrations().ListByUser(userID)
}

// Delete removes an integration. Deletion is refused while publish or video
// jobs that reference it are still pending or running.
func (s *Service) Delete(ctx context.Context, userID, integrationID string) error {
	integration, err := s.owned(userID, integrationID)
	if err != nil {
		return err
	}

	publishCount, err := s.storage.PublishJobs().CountActiveByIntegration(integrationID)
	if err != nil {
		return err
	}
	videoCount, err := s.storage.VideoJobs().CountActiveByIntegration(integrationID)
	if err != nil {
		return err
	}
	if publishCount+videoCount > 0 {
		return models.NewConflictError(fmt.Sprintf(
			"integration has %d active jobs; cancel or wait for them before deleting", publishCount+videoCount))
	}

	if err := s.storage.Integrations().Delete(integrationID); err != nil {
		return err
	}
	s.logger.Info().
		Str("integration_id", integrationID).
		Str("provider", string(integration.Provider)).
		Msg("Integration deleted")
	return nil
}

func (s *Service) Resolve(ctx context.Context, integrationID string) (*models.Integration, *models.Credentials, error) {
	integration, err := s.storage.Integrations().Get(integrationID)
	if err != nil {
		return nil, nil, err
	}
	creds, err := s.open(integration)
	if err != nil {
		return nil, nil, err
	}
	return integration, creds, nil
}

func (s *Service) ResolveActive(ctx context.Context, userID string, provider models.IntegrationProvider) (*models.Integration, *models.Credentials, error) {
	integration, err := s.storage.Integrations().GetActiveByProvider(userID, provider)
	if err != nil {
		return nil, nil, err
	}
	creds, err := s.open(integration)
	if err != nil {
		return nil, nil, err
	}
	return integration, creds, nil
}

func (s *Service) owned(userID, integrationID string) (*models.Integration, error) {
	integration, err := s.storage.Integrations().Get(integrationID)
	if err != nil {
		return nil, err
	}
	if integration.UserID != userID {
		return nil, models.NewAuthorizationError("integration belongs to another user")
	}
	return integration, nil
}

func (s *Service) seal(creds *models.Credentials) (string, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}
	return s.cipher.Encrypt(payload)
}

func (s *Service) open(integration *models.Integration) (*models.Credentials, error) {
	payload, err := s.cipher.Decrypt(integration.EncryptedSecret)
	if err != nil {
		return nil, err
	}
	var creds models.Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return &creds, nil
}
