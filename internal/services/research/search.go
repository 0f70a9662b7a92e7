package research

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/models"
)

// SearchSource mines organic search results for competitive coverage and
// content gaps.
type SearchSource struct {
	client   *httpclient.Client
	endpoint string
}

func NewSearchSource(client *httpclient.Client, endpoint string) *SearchSource {
	return &SearchSource{client: client, endpoint: endpoint}
}

func (s *SearchSource) Name() string {
	return "search"
}

// contentFormats are the angles checked against result titles; formats no
// competitor covers become content gaps.
var contentFormats = []string{"tutorial", "guide", "how to", "comparison", "review", "best"}

func (s *SearchSource) Apply(ctx context.Context, topic models.NormalizedTopic, bundle *models.ResearchBundle) error {
	reqURL := fmt.Sprintf("%s?q=%s&num=10", strings.TrimRight(s.endpoint, "/"), url.QueryEscape(topic.MainTopic))
	headers := map[string]string{"User-Agent": "Mozilla/5.0 (compatible; plume-research/1.0)"}

	data, err := s.client.DoRaw(ctx, "GET", reqURL, headers, nil)
	if err != nil {
		return fmt.Errorf("search lookup failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	var insights models.SearchInsights
	doc.Find("h3").Each(func(_ int, sel *goquery.Selection) {
		if len(insights.TopResults) >= 10 {
			return
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}
		link, _ := sel.Closest("a").Attr("href")
		snippet := strings.TrimSpace(sel.Parent().Parent().Find("span").Last().Text())
		insights.TopResults = append(insights.TopResults, models.SearchResult{
			Title:   title,
			URL:     link,
			Snippet: snippet,
		})
	})

	doc.Find("[data-q], .related-question-pair").Each(func(_ int, sel *goquery.Selection) {
		if q := strings.TrimSpace(sel.Text()); q != "" {
			insights.PeopleAlsoAsk = append(insights.PeopleAlsoAsk, q)
		}
	})
	doc.Find("a[href*='search?q='] b, a[href*='search?q='] em").Each(func(_ int, sel *goquery.Selection) {
		if q := strings.TrimSpace(sel.Parent().Text()); q != "" {
			insights.RelatedSearches = append(insights.RelatedSearches, q)
		}
	})

	insights.ContentGaps = FindContentGaps(insights.TopResults, topic.MainTopic)

	bundle.Search = insights
	return nil
}

// FindContentGaps returns the content formats no top result already covers.
func FindContentGaps(results []models.SearchResult, mainTopic string) []string {
	covered := make(map[string]bool)
	for _, r := range results {
		lower := strings.ToLower(r.Title)
		for _, format := range contentFormats {
			if strings.Contains(lower, format) {
				covered[format] = true
			}
		}
	}

	var gaps []string
	for _, format := range contentFormats {
		if !covered[format] {
			gaps = append(gaps, fmt.Sprintf("%s content about %s", format, mainTopic))
		}
	}
	return gaps
}
