package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/services/brief"
	"github.com/plumehq/plume/internal/services/drafts"
	"github.com/plumehq/plume/internal/services/events"
	"github.com/plumehq/plume/internal/services/questions"
	storage "github.com/plumehq/plume/internal/storage/badger"
)

// fakeAI returns canned responses keyed off the prompt so the whole
// workflow can run without a provider.
type fakeAI struct {
	failPlatforms map[string]bool
}

func (f *fakeAI) ProviderFor(ctx context.Context, userID string) (interfaces.AIProvider, error) {
	return nil, models.ErrNoAIIntegration
}

func (f *fakeAI) GenerateText(ctx context.Context, userID string, req interfaces.GenerateRequest) (string, error) {
	if strings.Contains(req.Prompt, "descriptive title") {
		return "Email Marketing Playbook", nil
	}
	return "Reworked content body with the same message.", nil
}

func (f *fakeAI) GenerateJSON(ctx context.Context, userID string, req interfaces.GenerateRequest, out interface{}) error {
	var canned string
	switch {
	case strings.Contains(req.Prompt, "content strategist"):
		canned = `{
			"topicOverview": "Email marketing for indie founders",
			"audienceInsights": ["founders hate writing"],
			"contentAngles": ["automation first"],
			"keyMessages": ["start small"],
			"competitiveInsights": [],
			"platformRecommendations": {"linkedin": "story", "twitter": "thread", "blog": "guide", "reelScript": "hook"},
			"supportingData": []
		}`
	case strings.Contains(req.Prompt, "distinct content ideas"):
		canned = `{"ideas": [
			{"title": "Idea one", "summary": "S1", "keywords": ["k1"]},
			{"title": "Idea two", "summary": "S2"},
			{"title": "Idea three", "summary": "S3"}
		]}`
	case strings.Contains(req.Prompt, "interviewing"):
		canned = `{"questions": [
			{"question": "Q1?", "purpose": "p", "category": "experience"},
			{"question": "Q2?", "purpose": "p", "category": "audience"},
			{"question": "Q3?", "purpose": "p", "category": "insights"},
			{"question": "Q4?", "purpose": "p", "category": "examples"},
			{"question": "Q5?", "purpose": "p", "category": "insights"}
		]}`
	case strings.Contains(req.Prompt, "LinkedIn post"):
		if f.failPlatforms["linkedin"] {
			return errors.New("linkedin generation unavailable")
		}
		canned = `{"post": {"hook": "Hook.", "body": "Body.", "cta": "CTA.", "hashtags": ["#email"]}}`
	case strings.Contains(req.Prompt, "Twitter thread"):
		if f.failPlatforms["twitter"] {
			return errors.New("twitter generation unavailable")
		}
		canned = `{"thread": [{"tweetNumber": 1, "content": "Tweet one"}], "singleTweet": "Tweet one"}`
	case strings.Contains(req.Prompt, "long-form article"):
		if f.failPlatforms["article"] {
			return errors.New("article generation unavailable")
		}
		canned = `{"article": {"title": "T", "metaDescription": "M", "introduction": "Intro.",
			"sections": [{"heading": "H", "content": "C"}], "conclusion": "End."},
			"seoMetadata": {}, "readingTime": 3}`
	case strings.Contains(req.Prompt, "short-video script"):
		if f.failPlatforms["reel"] {
			return errors.New("reel generation unavailable")
		}
		canned = `{"script": {"hook": "Stop.", "body": [{"scene": 1, "duration": "0-10s", "visual": "V", "voiceover": "VO"}], "cta": "Follow."}}`
	default:
		return errors.New("unexpected prompt in test")
	}
	return json.Unmarshal([]byte(canned), out)
}

// fakeResearch skips the network fan-out and returns a fixed bundle.
type fakeResearch struct {
	err error
}

func (f *fakeResearch) Analyze(ctx context.Context, userID string, inputType models.InputType, inputData string) (*models.ResearchBundle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ResearchBundle{
		Normalized: models.NormalizedTopic{MainTopic: "email marketing", Keywords: []string{"newsletters"}},
	}, nil
}

func newTestService(t *testing.T, ai interfaces.AIService, research interfaces.ResearchService) (*Service, interfaces.StorageManager) {
	t.Helper()
	manager, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	eventService := events.NewService()
	svc := NewService(
		manager,
		eventService,
		research,
		brief.NewService(ai),
		questions.NewService(ai, manager),
		drafts.NewService(ai, manager),
	)
	return svc, manager
}

func waitForStatus(t *testing.T, svc *Service, userID, sessionID string, want models.SessionStatus) *models.ContentSession {
	t.Helper()
	var session *models.ContentSession
	require.Eventually(t, func() bool {
		var err error
		session, err = svc.Get(context.Background(), userID, sessionID)
		return err == nil && session.Status == want
	}, 5*time.Second, 20*time.Millisecond, "session never reached %s", want)
	return session
}

func TestWorkflowHappyPath(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing for indie founders", "saas")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusAnalyzing, session.Status)

	session = waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusBriefReady)
	require.NotNil(t, session.Meta.Brief)
	assert.Equal(t, "Email Marketing Playbook", session.Title)
	assert.NotNil(t, session.Meta.AnalyzedAt)

	qs, err := svc.StartQnA(ctx, "user_1", session.ID)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	for _, q := range qs {
		_, err := svc.SubmitAnswer(ctx, "user_1", session.ID, q.ID, "my answer to "+q.Text)
		require.NoError(t, err)
	}
	session, err = svc.Get(ctx, "user_1", session.ID)
	require.NoError(t, err)
	assert.True(t, session.Meta.EnrichmentComplete)

	_, err = svc.GenerateContent(ctx, "user_1", session.ID)
	require.NoError(t, err)

	session = waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusReady)

	summary, err := svc.Status(ctx, "user_1", session.ID)
	require.NoError(t, err)
	assert.True(t, summary.Success)
	assert.False(t, summary.HasError)
}

func TestWorkflowPartialGenerationStillSucceeds(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{failPlatforms: map[string]bool{"twitter": true, "reel": true}}
	svc, manager := newTestService(t, ai, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)
	waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusBriefReady)

	qs, err := svc.StartQnA(ctx, "user_1", session.ID)
	require.NoError(t, err)
	for _, q := range qs {
		_, err := svc.SubmitAnswer(ctx, "user_1", session.ID, q.ID, "answer")
		require.NoError(t, err)
	}

	_, err = svc.GenerateContent(ctx, "user_1", session.ID)
	require.NoError(t, err)
	waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusReady)

	versions, err := manager.Versions().ListBySession(session.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestWorkflowTotalGenerationFailureFailsSession(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{failPlatforms: map[string]bool{"linkedin": true, "twitter": true, "article": true, "reel": true}}
	svc, _ := newTestService(t, ai, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)
	waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusBriefReady)

	qs, err := svc.StartQnA(ctx, "user_1", session.ID)
	require.NoError(t, err)
	for _, q := range qs {
		_, err := svc.SubmitAnswer(ctx, "user_1", session.ID, q.ID, "answer")
		require.NoError(t, err)
	}

	_, err = svc.GenerateContent(ctx, "user_1", session.ID)
	require.NoError(t, err)
	session = waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusFailed)

	summary, err := svc.Status(ctx, "user_1", session.ID)
	require.NoError(t, err)
	assert.False(t, summary.Success)
	assert.True(t, summary.HasError)
	assert.Contains(t, summary.Error, "every platform")
}

func TestWorkflowResearchFailureFailsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{err: errors.New("no sources reachable")})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)

	session = waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusFailed)
	assert.Contains(t, session.Meta.Error, "topic analysis failed")
	assert.NotNil(t, session.Meta.FailedAt)
}

func TestManualStatusNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)
	waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusBriefReady)

	_, err = svc.UpdateStatus(ctx, "user_1", session.ID, models.SessionStatusAnalyzing)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))

	updated, err := svc.UpdateStatus(ctx, "user_1", session.ID, models.SessionStatusQnA)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusQnA, updated.Status)
}

func TestOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user_2", session.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeAuthorization))
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(t, &fakeAI{}, &fakeResearch{})

	session, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "email marketing", "")
	require.NoError(t, err)
	waitForStatus(t, svc, "user_1", session.ID, models.SessionStatusBriefReady)

	_, err = svc.StartQnA(ctx, "user_1", session.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user_1", session.ID))

	_, err = svc.Get(ctx, "user_1", session.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	qs, err := manager.Questions().ListBySession(session.ID)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestCreateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{})

	_, err := svc.Create(ctx, "user_1", models.InputTypeTopic, "   ", "")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.Create(ctx, "user_1", models.InputType("bogus"), "topic", "")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestIdeaWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeAI{}, &fakeResearch{})

	idea, err := svc.CreateIdea(ctx, "user_1", "Newsletter growth", "A summary", "manual", nil)
	require.NoError(t, err)

	session, err := svc.CreateFromIdea(ctx, "user_1", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusIdea, session.Status)

	// Idea-first sessions skip research and go straight to questions.
	qs, err := svc.StartQnA(ctx, "user_1", session.ID)
	require.NoError(t, err)
	assert.Len(t, qs, 5)

	_, err = svc.CreateFromIdea(ctx, "user_2", idea.ID)
	assert.True(t, models.IsCode(err, models.CodeAuthorization))
}

func TestGeneratedIdeaSelection(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(t, &fakeAI{}, &fakeResearch{})

	session, ideas, err := svc.GenerateIdeas(ctx, "user_1", models.InputTypeTopic, "newsletter growth")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusIdea, session.Status)
	require.Len(t, ideas, 3)

	session, qs, err := svc.SelectIdea(ctx, "user_1", ideas[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusQnA, session.Status)
	assert.Equal(t, "Idea two", session.Title)
	assert.Len(t, qs, 5)

	stored, err := manager.Ideas().ListBySession(session.ID)
	require.NoError(t, err)
	selected := 0
	for _, idea := range stored {
		if idea.Selected {
			selected++
			assert.Equal(t, ideas[1].ID, idea.ID)
		}
	}
	assert.Equal(t, 1, selected)

	// Selection is only valid while the session sits in idea status.
	_, _, err = svc.SelectIdea(ctx, "user_1", ideas[0].ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
}
