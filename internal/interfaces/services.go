package interfaces

import (
	"context"

	"github.com/plumehq/plume/internal/models"
)

// CredentialService manages provider integrations and their encrypted
// secrets.
type CredentialService interface {
	Create(ctx context.Context, userID string, provider models.IntegrationProvider, creds *models.Credentials, meta models.IntegrationMeta) (*models.Integration, error)
	Update(ctx context.Context, userID, integrationID string, creds *models.Credentials) (*models.Integration, error)
	List(ctx context.Context, userID string) ([]*models.Integration, error)
	Delete(ctx context.Context, userID, integrationID string) error
	Test(ctx context.Context, userID, integrationID string) error
	Resolve(ctx context.Context, integrationID string) (*models.Integration, *models.Credentials, error)
	ResolveActive(ctx context.Context, userID string, provider models.IntegrationProvider) (*models.Integration, *models.Credentials, error)
}
