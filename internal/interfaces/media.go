package interfaces

import (
	"context"

	"github.com/plumehq/plume/internal/models"
)

// MediaRequest carries the script and credentials for a render.
type MediaRequest struct {
	Script      string
	Title       string
	Credentials *models.Credentials
}

// MediaResult is the outcome of a render. Sync generators return the
// finished asset; async generators return the remote job handle and leave
// the asset fields empty until polling completes.
type MediaResult struct {
	AssetPath   string
	AssetURL    string
	RemoteJobID string
	Async       bool
}

// MediaGenerator renders a script into an audio or video asset via one
// external provider.
type MediaGenerator interface {
	Provider() models.IntegrationProvider
	Generate(ctx context.Context, jobID string, req MediaRequest) (*MediaResult, error)
	// Poll checks an async render. Generators that finish synchronously
	// never have Poll called.
	Poll(ctx context.Context, remoteJobID string, creds *models.Credentials) (*MediaResult, bool, error)
}

// GeneratorRegistry resolves media generators by provider.
type GeneratorRegistry interface {
	Generator(provider models.IntegrationProvider) (MediaGenerator, error)
}
