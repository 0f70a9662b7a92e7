package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// OpenAIProvider generates text through the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return string(models.ProviderOpenAI)
}

func (p *OpenAIProvider) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	request := openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		request.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		request.Temperature = float32(req.Temperature)
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", models.NewUpstreamError(fmt.Sprintf("OpenAI generation failed (model %s)", p.model), err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewUpstreamError("OpenAI returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
