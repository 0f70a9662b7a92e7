package media

import (
	"context"
	"fmt"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const heygenAPIBase = "https://api.heygen.com/v1"

// HeyGenGenerator starts avatar video renders asynchronously: the API
// returns a remote job id and the render is polled until it completes.
type HeyGenGenerator struct {
	client  *httpclient.Client
	baseURL string
}

func NewHeyGenGenerator(client *httpclient.Client) *HeyGenGenerator {
	return &HeyGenGenerator{client: client, baseURL: heygenAPIBase}
}

func (g *HeyGenGenerator) Provider() models.IntegrationProvider {
	return models.ProviderHeyGen
}

type heygenGenerateRequest struct {
	Title  string `json:"title,omitempty"`
	Script string `json:"script"`
	Avatar string `json:"avatar_id,omitempty"`
}

type heygenGenerateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type heygenStatusResponse struct {
	Data struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
		Error    struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"data"`
}

func (g *HeyGenGenerator) Generate(ctx context.Context, jobID string, req interfaces.MediaRequest) (*interfaces.MediaResult, error) {
	headers := map[string]string{"X-Api-Key": req.Credentials.APIKey}
	payload := heygenGenerateRequest{
		Title:  req.Title,
		Script: req.Script,
		Avatar: req.Credentials.AvatarID,
	}

	var resp heygenGenerateResponse
	if err := g.client.DoJSON(ctx, "POST", g.baseURL+"/video.generate", headers, payload, &resp); err != nil {
		return nil, models.NewUpstreamError("HeyGen render request failed", err)
	}
	if resp.Data.VideoID == "" {
		return nil, models.NewUpstreamError("HeyGen returned no video id", nil)
	}

	return &interfaces.MediaResult{RemoteJobID: resp.Data.VideoID, Async: true}, nil
}

// Poll checks render progress. The second return is true once the render
// reached a terminal state.
func (g *HeyGenGenerator) Poll(ctx context.Context, remoteJobID string, creds *models.Credentials) (*interfaces.MediaResult, bool, error) {
	headers := map[string]string{"X-Api-Key": creds.APIKey}
	endpoint := fmt.Sprintf("%s/video_status.get?video_id=%s", g.baseURL, remoteJobID)

	var resp heygenStatusResponse
	if err := g.client.DoJSON(ctx, "GET", endpoint, headers, nil, &resp); err != nil {
		return nil, false, models.NewUpstreamError("HeyGen status check failed", err)
	}

	switch resp.Data.Status {
	case "completed":
		return &interfaces.MediaResult{AssetURL: resp.Data.VideoURL, RemoteJobID: remoteJobID}, true, nil
	case "failed":
		message := resp.Data.Error.Message
		if message == "" {
			message = "render failed"
		}
		return nil, true, models.NewUpstreamError("HeyGen render failed: "+message, nil)
	default:
		return nil, false, nil
	}
}
