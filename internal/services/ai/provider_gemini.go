package ai

import (
	"context"
	"fmt"

	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"google.golang.org/genai"
)

// GeminiProvider generates text through the Gemini API.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string {
	return string(models.ProviderGemini)
}

func (p *GeminiProvider) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", models.NewUpstreamError("failed to initialize Gemini client", err)
	}

	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", models.NewUpstreamError(fmt.Sprintf("Gemini generation failed (model %s)", p.model), err)
	}

	text := resp.Text()
	if text == "" {
		return "", models.NewUpstreamError("Gemini returned no text", nil)
	}
	return text, nil
}
