package publish

import (
	"context"
	"fmt"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const twitterAPIBase = "https://api.twitter.com/2"

// TwitterAdapter publishes through the Twitter v2 API, splitting long
// bodies into a reply-chained thread.
type TwitterAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewTwitterAdapter(client *httpclient.Client) *TwitterAdapter {
	return &TwitterAdapter{client: client, baseURL: twitterAPIBase}
}

func (a *TwitterAdapter) Provider() models.IntegrationProvider {
	return models.ProviderTwitter
}

type tweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (a *TwitterAdapter) Publish(ctx context.Context, req interfaces.PublishRequest) (*interfaces.PublishResult, error) {
	units := SplitThread(req.Body)
	if len(units) == 0 {
		return nil, models.NewValidationError("nothing to tweet", "body")
	}

	headers := map[string]string{"Authorization": "Bearer " + req.Credentials.OAuth.AccessToken}

	var firstID, previousID string
	for _, unit := range units {
		payload := tweetRequest{Text: unit}
		if previousID != "" {
			payload.Reply = &struct {
				InReplyToTweetID string `json:"in_reply_to_tweet_id"`
			}{InReplyToTweetID: previousID}
		}

		var resp tweetResponse
		if err := a.client.DoJSON(ctx, "POST", a.baseURL+"/tweets", headers, payload, &resp); err != nil {
			if firstID != "" {
				return nil, models.NewUpstreamError(
					fmt.Sprintf("thread broke after tweet %s; partial thread is live", previousID), err)
			}
			return nil, models.NewUpstreamError("tweet failed", err)
		}
		if resp.Data.ID == "" {
			return nil, models.NewUpstreamError("Twitter returned no tweet id", nil)
		}

		previousID = resp.Data.ID
		if firstID == "" {
			firstID = resp.Data.ID
		}
	}

	return &interfaces.PublishResult{
		RemoteID:  firstID,
		RemoteURL: "https://twitter.com/i/web/status/" + firstID,
	}, nil
}
