package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const (
	elevenLabsAPIBase = "https://api.elevenlabs.io/v1"
	defaultVoiceID    = "21m00Tcm4TlvDq8ikWAM"
	elevenLabsModel   = "eleven_monolingual_v1"
)

// ElevenLabsGenerator renders narration audio synchronously: the API call
// returns the finished mp3, which is written to the local asset directory.
type ElevenLabsGenerator struct {
	client   *httpclient.Client
	assetDir string
}

func NewElevenLabsGenerator(client *httpclient.Client, assetDir string) *ElevenLabsGenerator {
	return &ElevenLabsGenerator{client: client, assetDir: assetDir}
}

func (g *ElevenLabsGenerator) Provider() models.IntegrationProvider {
	return models.ProviderElevenLabs
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (g *ElevenLabsGenerator) Generate(ctx context.Context, jobID string, req interfaces.MediaRequest) (*interfaces.MediaResult, error) {
	voiceID := req.Credentials.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	headers := map[string]string{
		"xi-api-key": req.Credentials.APIKey,
		"Accept":     "audio/mpeg",
	}
	endpoint := fmt.Sprintf("%s/text-to-speech/%s", elevenLabsAPIBase, voiceID)
	audio, err := g.client.DoRaw(ctx, "POST", endpoint, headers, ttsRequest{Text: req.Script, ModelID: elevenLabsModel})
	if err != nil {
		return nil, models.NewUpstreamError("ElevenLabs synthesis failed", err)
	}
	if len(audio) == 0 {
		return nil, models.NewUpstreamError("ElevenLabs returned no audio", nil)
	}

	if err := os.MkdirAll(g.assetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	assetPath := filepath.Join(g.assetDir, jobID+".mp3")
	if err := os.WriteFile(assetPath, audio, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write audio asset: %w", err)
	}

	return &interfaces.MediaResult{AssetPath: assetPath}, nil
}

func (g *ElevenLabsGenerator) Poll(ctx context.Context, remoteJobID string, creds *models.Credentials) (*interfaces.MediaResult, bool, error) {
	return nil, false, models.NewConflictError("ElevenLabs renders complete synchronously, nothing to poll")
}
