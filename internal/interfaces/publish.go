package interfaces

import (
	"context"

	"github.com/plumehq/plume/internal/models"
)

// PublishRequest carries everything an adapter needs to push content to an
// external platform.
type PublishRequest struct {
	Body        string
	Title       string
	Meta        models.PublishMeta
	Credentials *models.Credentials
}

// PublishResult is the remote identity of a published piece of content.
type PublishResult struct {
	RemoteID  string
	RemoteURL string
}

// PublishAdapter pushes content to one external platform.
type PublishAdapter interface {
	Provider() models.IntegrationProvider
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

// AdapterRegistry resolves publish adapters by provider. The registry is
// closed: lookups for unregistered providers fail rather than falling
// through to a default.
type AdapterRegistry interface {
	Adapter(provider models.IntegrationProvider) (PublishAdapter, error)
}
