package research

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/models"
)

// DiscussionSource mines community discussions for pain points and
// engagement signals around a topic.
type DiscussionSource struct {
	client   *httpclient.Client
	endpoint string
	maxPosts int
}

func NewDiscussionSource(client *httpclient.Client, endpoint string, maxPosts int) *DiscussionSource {
	return &DiscussionSource{client: client, endpoint: endpoint, maxPosts: maxPosts}
}

func (s *DiscussionSource) Name() string {
	return "discussions"
}

// painPointMarkers are phrases that flag a post title as describing a
// problem worth addressing in content.
var painPointMarkers = []string{
	"struggle", "problem", "how do i", "how to", "help",
	"frustrat", "difficult", "can't", "cannot", "issue", "confused", "stuck",
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Permalink   string  `json:"permalink"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				Selftext    string  `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *DiscussionSource) Apply(ctx context.Context, topic models.NormalizedTopic, bundle *models.ResearchBundle) error {
	query := topic.MainTopic
	if len(topic.Keywords) > 0 {
		query += " " + strings.Join(topic.Keywords, " ")
	}

	searchURL := fmt.Sprintf("%s/search.json?q=%s&sort=relevance&limit=%d",
		strings.TrimRight(s.endpoint, "/"), url.QueryEscape(query), s.maxPosts)

	var listing redditListing
	headers := map[string]string{"User-Agent": "plume-research/1.0"}
	if err := s.client.DoJSON(ctx, "GET", searchURL, headers, nil, &listing); err != nil {
		return fmt.Errorf("discussion search failed: %w", err)
	}

	insights := models.DiscussionInsights{Sentiment: "neutral"}
	var totalScore, totalComments int
	painPoints := make(map[string]bool)

	for _, child := range listing.Data.Children {
		post := child.Data
		excerpt := post.Selftext
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		insights.Posts = append(insights.Posts, models.DiscussionPost{
			Title:    post.Title,
			URL:      strings.TrimRight(s.endpoint, "/") + post.Permalink,
			Score:    post.Score,
			Comments: post.NumComments,
			Excerpt:  excerpt,
		})
		totalScore += post.Score
		totalComments += post.NumComments

		lower := strings.ToLower(post.Title)
		for _, marker := range painPointMarkers {
			if strings.Contains(lower, marker) && !painPoints[post.Title] {
				painPoints[post.Title] = true
				insights.PainPoints = append(insights.PainPoints, post.Title)
				break
			}
		}
	}

	count := len(insights.Posts)
	insights.Engagement.TotalPosts = count
	if count > 0 {
		insights.Engagement.AvgScore = float64(totalScore) / float64(count)
		insights.Engagement.AvgComments = float64(totalComments) / float64(count)
		switch {
		case insights.Engagement.AvgScore > 10:
			insights.Sentiment = "positive"
		case insights.Engagement.AvgScore > 0:
			insights.Sentiment = "neutral"
		default:
			insights.Sentiment = "negative"
		}
	}

	bundle.Discussions = insights
	return nil
}
