package brief

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// Service synthesizes a research bundle into a content brief. The brief is
// the contract every generation step depends on, so parse failures are hard
// errors rather than degraded defaults.
type Service struct {
	logger arbor.ILogger
	ai     interfaces.AIService
}

func NewService(ai interfaces.AIService) *Service {
	return &Service{
		logger: common.GetLogger(),
		ai:     ai,
	}
}

const briefPrompt = `You are a content strategist. Using the research below, produce a content brief.

Research:
%s

User niche: %s

Respond with only JSON in this shape:
{
  "topicOverview": "...",
  "audienceInsights": ["..."],
  "contentAngles": ["..."],
  "keyMessages": ["..."],
  "competitiveInsights": ["..."],
  "platformRecommendations": {"linkedin": "...", "twitter": "...", "blog": "...", "reelScript": "..."},
  "supportingData": ["..."]
}

Ground every insight in the research: cite pain points from discussions, the
trend trajectory, and the content gaps competitors leave open.`

// Build generates a brief from a research bundle.
func (s *Service) Build(ctx context.Context, userID string, bundle *models.ResearchBundle, userNiche string) (*models.Brief, error) {
	research, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to encode research bundle: %w", err)
	}
	if userNiche == "" {
		userNiche = "general"
	}

	var brief models.Brief
	req := interfaces.GenerateRequest{
		Prompt:      fmt.Sprintf(briefPrompt, string(research), userNiche),
		Temperature: 0.5,
	}
	if err := s.ai.GenerateJSON(ctx, userID, req, &brief); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&brief); err != nil {
		return nil, models.NewParseError("brief generation produced an incomplete brief", err)
	}

	brief.UserNiche = userNiche
	brief.GeneratedAt = time.Now().UTC()

	s.logger.Info().
		Str("user_id", userID).
		Str("topic", bundle.Normalized.MainTopic).
		Int("angles", len(brief.ContentAngles)).
		Msg("Content brief generated")
	return &brief, nil
}
