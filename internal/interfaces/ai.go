package interfaces

import "context"

// GenerateRequest is a provider-agnostic text generation request.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// AIProvider generates text through one upstream model API.
type AIProvider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// AIService resolves the right provider for a user and runs generations.
// ProviderFor fails fast, before any network call, when the user has no
// active AI integration.
type AIService interface {
	ProviderFor(ctx context.Context, userID string) (AIProvider, error)
	GenerateText(ctx context.Context, userID string, req GenerateRequest) (string, error)
	GenerateJSON(ctx context.Context, userID string, req GenerateRequest, out interface{}) error
}
