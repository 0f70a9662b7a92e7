package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

// GenerationPlatforms are the surfaces covered by a full generation pass.
var GenerationPlatforms = []models.Platform{
	models.PlatformLinkedIn,
	models.PlatformTwitter,
	models.PlatformArticle,
	models.PlatformReelScript,
}

// RegenerateAction names a content rework operation.
type RegenerateAction string

const (
	ActionChangeTone   RegenerateAction = "change_tone"
	ActionChangeLength RegenerateAction = "change_length"
	ActionImprove      RegenerateAction = "improve"
)

// RegenerateParams carries the action-specific knobs.
type RegenerateParams struct {
	Tone      string `json:"tone,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Service generates, reworks and persists platform content versions.
type Service struct {
	logger  arbor.ILogger
	ai      interfaces.AIService
	storage interfaces.StorageManager
}

func NewService(aiService interfaces.AIService, storage interfaces.StorageManager) *Service {
	return &Service{
		logger:  common.GetLogger(),
		ai:      aiService,
		storage: storage,
	}
}

// GeneratePlatform generates one platform's content and stores it as the
// next version for that platform.
func (s *Service) GeneratePlatform(ctx context.Context, session *models.ContentSession, platform models.Platform, pairs []*models.QnAPair) (*models.ContentVersion, error) {
	briefContext := session.InputData
	if session.Meta.Brief != nil {
		briefJSON, err := json.Marshal(session.Meta.Brief)
		if err != nil {
			return nil, fmt.Errorf("failed to encode brief: %w", err)
		}
		briefContext = string(briefJSON)
	}
	answers := formatAnswers(pairs)

	var (
		body       string
		structured interface{}
	)
	switch platform {
	case models.PlatformLinkedIn:
		var content models.LinkedInContent
		prompt := fmt.Sprintf(linkedinPrompt, briefContext, answers, models.LinkedInCharLimit)
		if err := s.ai.GenerateJSON(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt}, &content); err != nil {
			return nil, err
		}
		body, structured = content.FullText(), &content
	case models.PlatformTwitter:
		var content models.TwitterContent
		prompt := fmt.Sprintf(twitterPrompt, briefContext, answers, models.TweetCharLimit)
		if err := s.ai.GenerateJSON(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt}, &content); err != nil {
			return nil, err
		}
		body, structured = content.FullText(), &content
	case models.PlatformArticle:
		var content models.BlogContent
		prompt := fmt.Sprintf(blogPrompt, briefContext, answers)
		if err := s.ai.GenerateJSON(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt}, &content); err != nil {
			return nil, err
		}
		body, structured = content.FullText(), &content
	case models.PlatformReelScript, models.PlatformYTScript:
		var content models.ReelContent
		prompt := fmt.Sprintf(reelPrompt, briefContext, answers)
		if err := s.ai.GenerateJSON(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt}, &content); err != nil {
			return nil, err
		}
		body, structured = content.FullText(), &content
	default:
		return nil, models.NewValidationError(fmt.Sprintf("platform %q cannot be generated", platform), "platform")
	}

	if strings.TrimSpace(body) == "" {
		return nil, models.NewParseError(fmt.Sprintf("%s generation produced empty content", platform), nil)
	}

	return s.saveVersion(session, platform, body, structured, ComputeMetadata(platform, body, structured))
}

// GenerateAll fans out across every generation platform concurrently and
// waits for all of them. Each platform succeeds or fails independently;
// the error map carries the failures.
func (s *Service) GenerateAll(ctx context.Context, session *models.ContentSession, pairs []*models.QnAPair) (map[models.Platform]*models.ContentVersion, map[models.Platform]error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		versions = make(map[models.Platform]*models.ContentVersion)
		failures = make(map[models.Platform]error)
	)

	for _, platform := range GenerationPlatforms {
		p := platform
		wg.Add(1)
		common.SafeGoWithContext(ctx, s.logger, "generate-"+string(p), func() {
			defer wg.Done()
			version, err := s.GeneratePlatform(ctx, session, p, pairs)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[p] = err
				return
			}
			versions[p] = version
		})
	}
	wg.Wait()

	s.logger.Info().
		Str("session_id", session.ID).
		Int("generated", len(versions)).
		Int("failed", len(failures)).
		Msg("Platform generation completed")
	return versions, failures
}

// Regenerate reworks an existing version per the requested action and
// stores the result as a new version.
func (s *Service) Regenerate(ctx context.Context, session *models.ContentSession, versionID string, action RegenerateAction, params RegenerateParams) (*models.ContentVersion, error) {
	version, err := s.ownedVersion(session, versionID)
	if err != nil {
		return nil, err
	}

	var instruction string
	switch action {
	case ActionChangeTone:
		if params.Tone == "" {
			return nil, models.NewValidationError("tone is required for change_tone", "tone")
		}
		instruction = fmt.Sprintf("Rewrite in a %s tone.", params.Tone)
	case ActionChangeLength:
		words := WordCount(version.Body)
		switch params.Direction {
		case "shorter":
			instruction = fmt.Sprintf("Shorten to roughly %d words.", words/2)
		case "longer":
			instruction = fmt.Sprintf("Expand to roughly %d words.", words+words/2)
		default:
			return nil, models.NewValidationError("direction must be shorter or longer", "direction")
		}
	case ActionImprove:
		instruction = "Improve clarity, flow and impact while keeping the message."
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unknown action %q", action), "action")
	}

	prompt := fmt.Sprintf(regeneratePrompt, version.Platform, instruction, version.Body)
	body, err := s.ai.GenerateText(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewParseError("regeneration produced empty content", nil)
	}

	meta := ComputeMetadata(version.Platform, body, nil)
	meta.Regenerated = true
	return s.saveVersion(session, version.Platform, body, nil, meta)
}

// DetectViolations checks a body against platform rules. An empty result
// means the content is clean.
func DetectViolations(platform models.Platform, body string) []string {
	var violations []string

	limit := models.DefaultCharLimit
	switch platform {
	case models.PlatformTwitter:
		limit = models.TweetCharLimit
		for _, unit := range strings.Split(body, "\n\n") {
			if len([]rune(unit)) > limit {
				violations = append(violations, fmt.Sprintf("length: a tweet exceeds %d characters", limit))
				break
			}
		}
	case models.PlatformLinkedIn:
		limit = models.LinkedInCharLimit
		if len([]rune(body)) > limit {
			violations = append(violations, fmt.Sprintf("length: content exceeds %d characters", limit))
		}
	default:
		if len([]rune(body)) > limit {
			violations = append(violations, fmt.Sprintf("length: content exceeds %d characters", limit))
		}
	}

	if strings.Count(body, "#") > 10 {
		violations = append(violations, "hashtags: too many hashtags, keep at most 10")
	}
	if strings.Contains(body, "```") {
		violations = append(violations, "formatting: markdown fences are not supported on this platform")
	}
	return violations
}

// AutoFix detects rule violations and, when any exist, asks the model to
// repair them, storing the result as a new version. A clean body returns
// the original version untouched.
func (s *Service) AutoFix(ctx context.Context, session *models.ContentSession, versionID string) (*models.ContentVersion, []string, error) {
	version, err := s.ownedVersion(session, versionID)
	if err != nil {
		return nil, nil, err
	}

	violations := DetectViolations(version.Platform, version.Body)
	if len(violations) == 0 {
		return version, nil, nil
	}

	prompt := fmt.Sprintf(autoFixPrompt, version.Platform, strings.Join(violations, "\n"), version.Body)
	body, err := s.ai.GenerateText(ctx, session.UserID, interfaces.GenerateRequest{Prompt: prompt, Temperature: 0.3})
	if err != nil {
		return nil, violations, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, violations, models.NewParseError("auto-fix produced empty content", nil)
	}

	meta := ComputeMetadata(version.Platform, body, nil)
	meta.AutoFixed = true
	fixed, err := s.saveVersion(session, version.Platform, body, nil, meta)
	if err != nil {
		return nil, violations, err
	}
	return fixed, violations, nil
}

// SaveManualEdit stores a user-edited body as a new version.
func (s *Service) SaveManualEdit(ctx context.Context, session *models.ContentSession, platform models.Platform, body string) (*models.ContentVersion, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("content body is required", "body")
	}
	if !models.IsValidPlatform(platform) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown platform %q", platform), "platform")
	}
	if len([]rune(body)) > models.MaxBodyLength {
		return nil, models.NewValidationError("content body is too long", "body")
	}

	meta := ComputeMetadata(platform, body, nil)
	meta.ManuallyEdited = true
	version, err := s.saveVersion(session, platform, body, nil, meta)
	if err != nil {
		return nil, err
	}

	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}
	return version, nil
}

// IdeaSeed is one suggestion from an idea generation pass, before it is
// persisted against a session.
type IdeaSeed struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords,omitempty"`
}

// GenerateIdeas asks the AI for count distinct content ideas seeded with the
// session input.
func (s *Service) GenerateIdeas(ctx context.Context, userID string, inputType models.InputType, inputData string, count int) ([]IdeaSeed, error) {
	var out struct {
		Ideas []IdeaSeed `json:"ideas"`
	}
	prompt := fmt.Sprintf(ideasPrompt, count, inputType, inputData)
	if err := s.ai.GenerateJSON(ctx, userID, interfaces.GenerateRequest{Prompt: prompt, Temperature: 0.9}, &out); err != nil {
		return nil, err
	}
	if len(out.Ideas) == 0 {
		return nil, models.NewParseError("idea generation produced no ideas", nil)
	}
	if len(out.Ideas) > count {
		out.Ideas = out.Ideas[:count]
	}
	return out.Ideas, nil
}

// GenerateTitle produces a short session title from the seed input, capped
// at the storage limit. Failures fall back to a trimmed slice of the input.
func (s *Service) GenerateTitle(ctx context.Context, userID string, inputType models.InputType, inputData string) string {
	seed := inputData
	if len([]rune(seed)) > 500 {
		seed = string([]rune(seed)[:500])
	}
	prompt := fmt.Sprintf(titlePrompt, inputType, seed)
	title, err := s.ai.GenerateText(ctx, userID, interfaces.GenerateRequest{Prompt: prompt, Temperature: 0.5, MaxTokens: 64})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Title generation failed, using input fallback")
		return models.TruncateTitle(strings.TrimSpace(inputData))
	}
	title = strings.Trim(strings.TrimSpace(title), `"`)
	if title == "" {
		return models.TruncateTitle(strings.TrimSpace(inputData))
	}
	return models.TruncateTitle(title)
}

func (s *Service) ownedVersion(session *models.ContentSession, versionID string) (*models.ContentVersion, error) {
	version, err := s.storage.Versions().Get(versionID)
	if err != nil {
		return nil, err
	}
	if version.SessionID != session.ID {
		return nil, models.NewAuthorizationError("version belongs to another session")
	}
	return version, nil
}

func (s *Service) saveVersion(session *models.ContentSession, platform models.Platform, body string, structured interface{}, meta models.VersionMetadata) (*models.ContentVersion, error) {
	number, err := s.storage.Versions().NextNumber(session.ID, platform)
	if err != nil {
		return nil, err
	}

	version := &models.ContentVersion{
		ID:        common.NewVersionID(),
		SessionID: session.ID,
		UserID:    session.UserID,
		Platform:  platform,
		Body:      body,
		Metadata:  meta,
		Number:    number,
		CreatedAt: time.Now().UTC(),
	}
	if structured != nil {
		encoded, err := json.Marshal(structured)
		if err != nil {
			return nil, fmt.Errorf("failed to encode structured content: %w", err)
		}
		version.Structured = string(encoded)
	}

	if err := s.storage.Versions().Save(version); err != nil {
		return nil, err
	}
	return version, nil
}

func formatAnswers(pairs []*models.QnAPair) string {
	if len(pairs) == 0 {
		return "(no answers provided)"
	}
	var sb strings.Builder
	for _, pair := range pairs {
		sb.WriteString("Q: ")
		sb.WriteString(pair.Question.Text)
		sb.WriteString("\nA: ")
		if pair.Answer != nil {
			sb.WriteString(pair.Answer.Text)
		} else {
			sb.WriteString("(unanswered)")
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}
