package publish

import (
	"fmt"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// Registry is the closed set of publish adapters. Providers without an
// entry cannot be published to.
type Registry struct {
	adapters map[models.IntegrationProvider]interfaces.PublishAdapter
}

func NewRegistry(client *httpclient.Client) *Registry {
	r := &Registry{adapters: make(map[models.IntegrationProvider]interfaces.PublishAdapter)}
	for _, adapter := range []interfaces.PublishAdapter{
		NewWordPressAdapter(client),
		NewTwitterAdapter(client),
		NewLinkedInAdapter(client),
	} {
		r.adapters[adapter.Provider()] = adapter
	}
	return r
}

func (r *Registry) Adapter(provider models.IntegrationProvider) (interfaces.PublishAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, models.NewValidationError(fmt.Sprintf("publishing to %q is not supported", provider), "provider")
	}
	return adapter, nil
}
