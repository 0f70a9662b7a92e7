package ai

import (
	"context"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/ternarybob/arbor"
)

// Service resolves the right AI provider per user and runs generations.
// Resolution walks the configured preference order over the user's active
// integrations; a user with none fails fast before any network call.
type Service struct {
	logger      arbor.ILogger
	config      *common.AIConfig
	credentials interfaces.CredentialService
}

func NewService(cfg *common.Config, credentials interfaces.CredentialService) *Service {
	return &Service{
		logger:      common.GetLogger(),
		config:      &cfg.AI,
		credentials: credentials,
	}
}

// preferenceOrder puts the configured primary and fallback first, then any
// remaining AI provider.
func (s *Service) preferenceOrder() []models.IntegrationProvider {
	order := make([]models.IntegrationProvider, 0, len(models.AIProviders))
	seen := make(map[models.IntegrationProvider]bool)
	for _, name := range []string{s.config.PrimaryProvider, s.config.FallbackProvider} {
		p := models.IntegrationProvider(name)
		if !seen[p] && models.IsValidProvider(p) {
			order = append(order, p)
			seen[p] = true
		}
	}
	for _, p := range models.AIProviders {
		if !seen[p] {
			order = append(order, p)
			seen[p] = true
		}
	}
	return order
}

func (s *Service) ProviderFor(ctx context.Context, userID string) (interfaces.AIProvider, error) {
	for _, provider := range s.preferenceOrder() {
		_, creds, err := s.credentials.ResolveActive(ctx, userID, provider)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				continue
			}
			return nil, err
		}

		s.logger.Debug().
			Str("user_id", userID).
			Str("provider", string(provider)).
			Msg("AI provider resolved")

		switch provider {
		case models.ProviderGemini:
			return NewGeminiProvider(creds.APIKey, s.config.GeminiModel), nil
		case models.ProviderOpenAI:
			return NewOpenAIProvider(creds.APIKey, s.config.OpenAIModel), nil
		case models.ProviderClaude:
			return NewClaudeProvider(creds.APIKey, s.config.ClaudeModel), nil
		}
	}
	return nil, models.ErrNoAIIntegration
}

func (s *Service) GenerateText(ctx context.Context, userID string, req interfaces.GenerateRequest) (string, error) {
	provider, err := s.ProviderFor(ctx, userID)
	if err != nil {
		return "", err
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = s.config.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = float64(s.config.Temperature)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.GetRequestTimeout())
	defer cancel()

	text, err := provider.Generate(ctx, req)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", provider.Name()).
			Str("user_id", userID).
			Msg("AI generation failed")
		return "", err
	}
	return text, nil
}

func (s *Service) GenerateJSON(ctx context.Context, userID string, req interfaces.GenerateRequest, out interface{}) error {
	text, err := s.GenerateText(ctx, userID, req)
	if err != nil {
		return err
	}
	return DecodeJSON(text, out)
}
