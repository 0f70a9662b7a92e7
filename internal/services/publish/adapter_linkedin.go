package publish

import (
	"context"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const linkedinAPIBase = "https://api.linkedin.com/v2"

// LinkedInAdapter publishes through the LinkedIn UGC posts API.
type LinkedInAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewLinkedInAdapter(client *httpclient.Client) *LinkedInAdapter {
	return &LinkedInAdapter{client: client, baseURL: linkedinAPIBase}
}

func (a *LinkedInAdapter) Provider() models.IntegrationProvider {
	return models.ProviderLinkedIn
}

type ugcPost struct {
	Author          string                 `json:"author"`
	LifecycleState  string                 `json:"lifecycleState"`
	SpecificContent map[string]interface{} `json:"specificContent"`
	Visibility      map[string]string      `json:"visibility"`
}

type ugcResponse struct {
	ID string `json:"id"`
}

func (a *LinkedInAdapter) Publish(ctx context.Context, req interfaces.PublishRequest) (*interfaces.PublishResult, error) {
	creds := req.Credentials

	visibility := "PUBLIC"
	if req.Meta.Visibility == "connections" {
		visibility = "CONNECTIONS"
	}

	post := ugcPost{
		Author:         "urn:li:person:" + creds.PersonURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary":    map[string]string{"text": req.Body},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": visibility,
		},
	}

	headers := map[string]string{
		"Authorization":             "Bearer " + creds.OAuth.AccessToken,
		"X-Restli-Protocol-Version": "2.0.0",
	}

	var resp ugcResponse
	if err := a.client.DoJSON(ctx, "POST", a.baseURL+"/ugcPosts", headers, post, &resp); err != nil {
		return nil, models.NewUpstreamError("LinkedIn publish failed", err)
	}
	if resp.ID == "" {
		return nil, models.NewUpstreamError("LinkedIn returned no post id", nil)
	}

	return &interfaces.PublishResult{
		RemoteID:  resp.ID,
		RemoteURL: "https://www.linkedin.com/feed/update/" + resp.ID,
	}, nil
}
