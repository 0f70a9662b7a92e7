package research

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/models"
)

// TrendSource samples interest-over-time signals for a topic and classifies
// its trajectory.
type TrendSource struct {
	client   *httpclient.Client
	endpoint string
}

func NewTrendSource(client *httpclient.Client, endpoint string) *TrendSource {
	return &TrendSource{client: client, endpoint: endpoint}
}

func (s *TrendSource) Name() string {
	return "trends"
}

type trendResponse struct {
	Default struct {
		TimelineData []struct {
			FormattedTime string `json:"formattedTime"`
			Value         []int  `json:"value"`
		} `json:"timelineData"`
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
				Value int    `json:"value"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

func (s *TrendSource) Apply(ctx context.Context, topic models.NormalizedTopic, bundle *models.ResearchBundle) error {
	reqURL := fmt.Sprintf("%s/trends/api/widgetdata/multiline?q=%s",
		strings.TrimRight(s.endpoint, "/"), url.QueryEscape(topic.MainTopic))

	var resp trendResponse
	headers := map[string]string{"User-Agent": "plume-research/1.0"}
	if err := s.client.DoJSON(ctx, "GET", reqURL, headers, nil, &resp); err != nil {
		return fmt.Errorf("trend lookup failed: %w", err)
	}

	insights := models.TrendInsights{TrendingStatus: "stable"}
	for _, point := range resp.Default.TimelineData {
		value := 0
		if len(point.Value) > 0 {
			value = point.Value[0]
		}
		insights.InterestOverTime = append(insights.InterestOverTime, models.TrendPoint{
			Date:  point.FormattedTime,
			Value: value,
		})
	}
	for _, list := range resp.Default.RankedList {
		for _, kw := range list.RankedKeyword {
			insights.RelatedQueries = append(insights.RelatedQueries, kw.Query)
			if kw.Value >= 100 {
				insights.RisingTopics = append(insights.RisingTopics, kw.Query)
			}
		}
	}
	insights.TrendingStatus = ClassifyTrend(insights.InterestOverTime)

	bundle.Trends = insights
	return nil
}

// ClassifyTrend compares the recent half of the interest series against the
// older half: 20% above is rising, 20% below is declining.
func ClassifyTrend(points []models.TrendPoint) string {
	if len(points) < 4 {
		return "stable"
	}
	mid := len(points) / 2
	olderAvg := averageValue(points[:mid])
	recentAvg := averageValue(points[mid:])
	switch {
	case olderAvg == 0:
		return "stable"
	case recentAvg > olderAvg*1.2:
		return "rising"
	case recentAvg < olderAvg*0.8:
		return "declining"
	default:
		return "stable"
	}
}

func averageValue(points []models.TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum int
	for _, p := range points {
		sum += p.Value
	}
	return float64(sum) / float64(len(points))
}
