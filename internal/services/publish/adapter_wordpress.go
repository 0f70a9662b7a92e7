package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// WordPressAdapter publishes through the WordPress REST API using an
// application password.
type WordPressAdapter struct {
	client *httpclient.Client
}

func NewWordPressAdapter(client *httpclient.Client) *WordPressAdapter {
	return &WordPressAdapter{client: client}
}

func (a *WordPressAdapter) Provider() models.IntegrationProvider {
	return models.ProviderWordPress
}

type wordpressPost struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Status     string   `json:"status"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type wordpressResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

func (a *WordPressAdapter) Publish(ctx context.Context, req interfaces.PublishRequest) (*interfaces.PublishResult, error) {
	creds := req.Credentials
	endpoint := strings.TrimRight(creds.SiteURL, "/") + "/wp-json/wp/v2/posts"

	status := req.Meta.Visibility
	if status == "" {
		status = "publish"
	}
	title := req.Meta.Title
	if title == "" {
		title = req.Title
	}

	headers := map[string]string{"Authorization": httpclient.BasicAuth(creds.Username, creds.AppPassword)}

	var resp wordpressResponse
	post := wordpressPost{
		Title:      title,
		Content:    req.Body,
		Status:     status,
		Categories: req.Meta.Categories,
		Tags:       req.Meta.Tags,
	}
	if err := a.client.DoJSON(ctx, "POST", endpoint, headers, post, &resp); err != nil {
		return nil, models.NewUpstreamError("WordPress publish failed", err)
	}
	if resp.ID == 0 {
		return nil, models.NewUpstreamError("WordPress returned no post id", nil)
	}

	return &interfaces.PublishResult{
		RemoteID:  fmt.Sprintf("%d", resp.ID),
		RemoteURL: resp.Link,
	}, nil
}
