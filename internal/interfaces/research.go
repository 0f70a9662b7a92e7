package interfaces

import (
	"context"

	"github.com/plumehq/plume/internal/models"
)

// ResearchSource collects one slice of topic research. Apply writes its
// findings into the bundle; a failing source leaves its slice at the zero
// value and the aggregator records the error instead of aborting.
type ResearchSource interface {
	Name() string
	Apply(ctx context.Context, topic models.NormalizedTopic, bundle *models.ResearchBundle) error
}

// ResearchService normalizes a session input and fans out across sources.
type ResearchService interface {
	Analyze(ctx context.Context, userID string, inputType models.InputType, inputData string) (*models.ResearchBundle, error)
}
