package research

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/httpclient"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const (
	bundleCacheTTL   = time.Hour
	maxScrapedRunes  = 8000
)

// Service normalizes a session input into a structured topic and fans out
// across every research source concurrently. Sources degrade independently:
// a failure leaves that slice empty and is recorded on the bundle instead
// of failing the analysis.
type Service struct {
	logger    arbor.ILogger
	config    *common.ResearchConfig
	ai        interfaces.AIService
	kv        interfaces.KVStorage
	client    *httpclient.Client
	converter *md.Converter
	sources   []interfaces.ResearchSource
}

func NewService(cfg *common.Config, ai interfaces.AIService, kv interfaces.KVStorage) *Service {
	client := httpclient.New(cfg.Research.GetRequestTimeout())
	return &Service{
		logger:    common.GetLogger(),
		config:    &cfg.Research,
		ai:        ai,
		kv:        kv,
		client:    client,
		converter: md.NewConverter("", true, nil),
		sources: []interfaces.ResearchSource{
			NewDiscussionSource(client, cfg.Research.DiscussionEndpoint, cfg.Research.MaxDiscussions),
			NewTrendSource(client, cfg.Research.TrendsEndpoint),
			NewSearchSource(client, cfg.Research.SearchEndpoint),
		},
	}
}

func (s *Service) Analyze(ctx context.Context, userID string, inputType models.InputType, inputData string) (*models.ResearchBundle, error) {
	seed := inputData
	if inputType == models.InputTypeURL {
		content, err := s.scrapeURL(ctx, inputData)
		if err != nil {
			return nil, models.NewUpstreamError(fmt.Sprintf("failed to read %s", inputData), err)
		}
		seed = content
	}

	topic, err := s.normalizeTopic(ctx, userID, inputType, seed)
	if err != nil {
		return nil, err
	}

	cacheKey := "research:" + strings.ToLower(topic.MainTopic)
	var cached models.ResearchBundle
	if found, err := s.kv.Get(cacheKey, &cached); err == nil && found {
		s.logger.Debug().Str("topic", topic.MainTopic).Msg("Research bundle served from cache")
		cached.Normalized = *topic
		return &cached, nil
	}

	bundle := &models.ResearchBundle{Normalized: *topic}
	s.collect(ctx, *topic, bundle)

	if err := s.kv.Set(cacheKey, bundle, bundleCacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic.MainTopic).Msg("Failed to cache research bundle")
	}
	return bundle, nil
}

// collect fans out across all sources and waits for every one. Each source
// gets its own timeout; failures are recorded, never propagated.
func (s *Service) collect(ctx context.Context, topic models.NormalizedTopic, bundle *models.ResearchBundle) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, source := range s.sources {
		src := source
		wg.Add(1)
		common.SafeGoWithContext(ctx, s.logger, "research-"+src.Name(), func() {
			defer wg.Done()
			srcCtx, cancel := context.WithTimeout(ctx, s.config.GetRequestTimeout())
			defer cancel()

			if err := src.Apply(srcCtx, topic, bundle); err != nil {
				s.logger.Warn().
					Err(err).
					Str("source", src.Name()).
					Str("topic", topic.MainTopic).
					Msg("Research source failed")
				mu.Lock()
				if bundle.SourceErrors == nil {
					bundle.SourceErrors = make(map[string]string)
				}
				bundle.SourceErrors[src.Name()] = err.Error()
				mu.Unlock()
			}
		})
	}
	wg.Wait()
}

const normalizePrompt = `Analyze this content input and extract a structured topic.

Input type: %s
Input:
%s

Respond with only JSON in this shape:
{"main_topic": "...", "keywords": ["..."], "category": "...", "target_audience": "...", "related_terms": ["..."]}`

func (s *Service) normalizeTopic(ctx context.Context, userID string, inputType models.InputType, seed string) (*models.NormalizedTopic, error) {
	var topic models.NormalizedTopic
	req := interfaces.GenerateRequest{
		Prompt:      fmt.Sprintf(normalizePrompt, inputType, truncate(seed, maxScrapedRunes)),
		Temperature: 0.2,
	}
	if err := s.ai.GenerateJSON(ctx, userID, req, &topic); err != nil {
		return nil, err
	}
	if topic.MainTopic == "" {
		return nil, models.NewParseError("topic analysis produced no main topic", nil)
	}
	return &topic, nil
}

// scrapeURL fetches a page, strips non-content markup and converts the body
// to markdown for prompt use.
func (s *Service) scrapeURL(ctx context.Context, pageURL string) (string, error) {
	headers := map[string]string{"User-Agent": "Mozilla/5.0 (compatible; plume-research/1.0)"}
	data, err := s.client.DoRaw(ctx, "GET", pageURL, headers, nil)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	doc.Find("script, style, nav, footer, iframe, noscript").Remove()

	body := doc.Find("article")
	if body.Length() == 0 {
		body = doc.Find("main")
	}
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	html, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to extract page body: %w", err)
	}

	markdown, err := s.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert page to markdown: %w", err)
	}
	return truncate(strings.TrimSpace(markdown), maxScrapedRunes), nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
