package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
	"github.com/plumehq/plume/internal/services/brief"
	"github.com/plumehq/plume/internal/services/drafts"
	"github.com/plumehq/plume/internal/services/questions"
)

// Service orchestrates the content workflow: session lifecycle, the
// analysis and generation background chains, and the status transitions
// between them. At most one background chain runs per session at a time.
type Service struct {
	logger    arbor.ILogger
	storage   interfaces.StorageManager
	events    interfaces.EventService
	research  interfaces.ResearchService
	briefs    *brief.Service
	questions *questions.Service
	drafts    *drafts.Service

	chainMu      sync.Mutex
	activeChains map[string]bool
}

func NewService(
	storage interfaces.StorageManager,
	events interfaces.EventService,
	research interfaces.ResearchService,
	briefs *brief.Service,
	questionSvc *questions.Service,
	draftSvc *drafts.Service,
) *Service {
	return &Service{
		logger:       common.GetLogger(),
		storage:      storage,
		events:       events,
		research:     research,
		briefs:       briefs,
		questions:    questionSvc,
		drafts:       draftSvc,
		activeChains: make(map[string]bool),
	}
}

// StatusSummary is the lightweight polling shape for workflow progress.
type StatusSummary struct {
	Success   bool                 `json:"success"`
	Status    models.SessionStatus `json:"status"`
	HasError  bool                 `json:"has_error"`
	Error     string               `json:"error,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Create starts a new research-first session and kicks off topic analysis
// in the background.
func (s *Service) Create(ctx context.Context, userID string, inputType models.InputType, inputData, userNiche string) (*models.ContentSession, error) {
	inputData = strings.TrimSpace(inputData)
	if inputData == "" {
		return nil, models.NewValidationError("input data is required", "input_data")
	}
	switch inputType {
	case models.InputTypeTopic, models.InputTypeURL, models.InputTypeKeywords, models.InputTypeText, models.InputTypeFeed:
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unknown input type %q", inputType), "input_type")
	}

	now := time.Now().UTC()
	session := &models.ContentSession{
		ID:        common.NewSessionID(),
		UserID:    userID,
		Title:     models.TruncateTitle(inputData),
		Status:    models.SessionStatusAnalyzing,
		InputType: inputType,
		InputData: inputData,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}

	s.startChain(session.ID, "analyze", func(chainCtx context.Context) {
		s.runAnalysis(chainCtx, session.ID, userNiche)
	})

	s.logger.Info().
		Str("session_id", session.ID).
		Str("user_id", userID).
		Str("input_type", string(inputType)).
		Msg("Session created")
	return session, nil
}

// CreateFromIdea starts a legacy idea-first session that skips research.
func (s *Service) CreateFromIdea(ctx context.Context, userID, ideaID string) (*models.ContentSession, error) {
	idea, err := s.storage.Ideas().Get(ideaID)
	if err != nil {
		return nil, err
	}
	if idea.UserID != userID {
		return nil, models.NewAuthorizationError("idea belongs to another user")
	}

	now := time.Now().UTC()
	session := &models.ContentSession{
		ID:        common.NewSessionID(),
		UserID:    userID,
		Title:     models.TruncateTitle(idea.Title),
		Status:    models.SessionStatusIdea,
		InputType: models.InputTypeTopic,
		InputData: idea.Title + "\n\n" + idea.Summary,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// runAnalysis is the background chain from analyzing to brief_ready:
// research fan-out, brief synthesis, then a generated title.
func (s *Service) runAnalysis(ctx context.Context, sessionID, userNiche string) {
	session, err := s.storage.Sessions().Get(sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Analysis chain lost its session")
		return
	}

	bundle, err := s.research.Analyze(ctx, session.UserID, session.InputType, session.InputData)
	if err != nil {
		s.failSession(ctx, session, fmt.Sprintf("topic analysis failed: %v", err))
		return
	}

	contentBrief, err := s.briefs.Build(ctx, session.UserID, bundle, userNiche)
	if err != nil {
		s.failSession(ctx, session, fmt.Sprintf("brief generation failed: %v", err))
		return
	}

	now := time.Now().UTC()
	session.Meta.RawAnalysis = bundle
	session.Meta.Brief = contentBrief
	session.Meta.AnalyzedAt = &now
	session.Status = models.SessionStatusBriefReady
	session.Title = s.drafts.GenerateTitle(ctx, session.UserID, session.InputType, session.InputData)
	session.Touch()

	if err := s.storage.Sessions().Save(session); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to save analyzed session")
		return
	}
	s.notify(ctx, session)
}

// StartQnA generates enrichment questions and moves the session to qna.
// Legacy idea sessions enter qna directly without a brief.
func (s *Service) StartQnA(ctx context.Context, userID, sessionID string) ([]*models.Question, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(session.Status, models.SessionStatusQnA) {
		return nil, models.NewConflictError(fmt.Sprintf("cannot start Q&A from status %q", session.Status))
	}
	if session.Status != models.SessionStatusIdea && session.Meta.Brief == nil {
		return nil, models.NewConflictError("session has no brief yet")
	}

	generated, err := s.questions.Generate(ctx, session)
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusQnA
	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}
	s.notify(ctx, session)
	return generated, nil
}

// SubmitAnswer records an answer and flags enrichment complete once every
// question is answered.
func (s *Service) SubmitAnswer(ctx context.Context, userID, sessionID, questionID, text string) (*models.Answer, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusQnA {
		return nil, models.NewConflictError(fmt.Sprintf("answers are only accepted in qna status, session is %q", session.Status))
	}

	answer, err := s.questions.Answer(ctx, session, questionID, text)
	if err != nil {
		return nil, err
	}

	done, err := s.questions.AllAnswered(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if done != session.Meta.EnrichmentComplete {
		session.Meta.EnrichmentComplete = done
		session.Touch()
		if err := s.storage.Sessions().Save(session); err != nil {
			return nil, err
		}
	}
	return answer, nil
}

// GenerateContent moves the session to generating and fans out platform
// generation in the background. Only one chain may run per session.
func (s *Service) GenerateContent(ctx context.Context, userID, sessionID string) (*models.ContentSession, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(session.Status, models.SessionStatusGenerating) {
		return nil, models.NewConflictError(fmt.Sprintf("cannot generate content from status %q", session.Status))
	}

	pairs, err := s.questions.Pairs(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusGenerating
	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}
	s.notify(ctx, session)

	if !s.startChain(session.ID, "generate", func(chainCtx context.Context) {
		s.runGeneration(chainCtx, session.ID, pairs)
	}) {
		return nil, models.NewConflictError("a background task is already running for this session")
	}
	return session, nil
}

// runGeneration is the background chain from generating to ready. Partial
// failure still succeeds; only a total failure fails the session.
func (s *Service) runGeneration(ctx context.Context, sessionID string, pairs []*models.QnAPair) {
	session, err := s.storage.Sessions().Get(sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Generation chain lost its session")
		return
	}

	versions, failures := s.drafts.GenerateAll(ctx, session, pairs)
	if len(versions) == 0 {
		reasons := make([]string, 0, len(failures))
		for platform, ferr := range failures {
			reasons = append(reasons, fmt.Sprintf("%s: %v", platform, ferr))
		}
		s.failSession(ctx, session, "content generation failed for every platform: "+strings.Join(reasons, "; "))
		return
	}

	session.Status = models.SessionStatusReady
	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to save generated session")
		return
	}
	s.notify(ctx, session)

	for platform, version := range versions {
		s.events.Publish(ctx, interfaces.Event{
			Type:   interfaces.EventContentGenerated,
			UserID: session.UserID,
			Payload: map[string]interface{}{
				"session_id": session.ID,
				"platform":   string(platform),
				"version_id": version.ID,
			},
		})
	}
}

// Get returns an owned session.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (*models.ContentSession, error) {
	return s.owned(userID, sessionID)
}

// List returns the user's sessions, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID string, status models.SessionStatus, limit, offset int) ([]*models.ContentSession, error) {
	if status != "" && !models.IsValidStatus(status) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown status %q", status), "status")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.storage.Sessions().ListByUser(userID, status, limit, offset)
}

// Versions returns every generated draft for an owned session, newest
// version first within each platform.
func (s *Service) Versions(ctx context.Context, userID, sessionID string) ([]*models.ContentVersion, error) {
	if _, err := s.owned(userID, sessionID); err != nil {
		return nil, err
	}
	return s.storage.Versions().ListBySession(sessionID)
}

// Status returns the polling summary for a session.
func (s *Service) Status(ctx context.Context, userID, sessionID string) (*StatusSummary, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &StatusSummary{
		Success:   session.Status != models.SessionStatusFailed,
		Status:    session.Status,
		HasError:  session.Meta.Error != "",
		Error:     session.Meta.Error,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

// UpdateStatus applies a manual status change, holding the forward-only rule.
func (s *Service) UpdateStatus(ctx context.Context, userID, sessionID string, status models.SessionStatus) (*models.ContentSession, error) {
	if !models.IsValidStatus(status) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown status %q", status), "status")
	}
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(session.Status, status) {
		return nil, models.NewConflictError(fmt.Sprintf("cannot move session from %q to %q", session.Status, status))
	}

	session.Status = status
	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, err
	}
	s.notify(ctx, session)
	return session, nil
}

// Delete removes a session and everything hanging off it. Deletion is
// refused while a background chain or an active job references the session.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return err
	}

	s.chainMu.Lock()
	active := s.activeChains[sessionID]
	s.chainMu.Unlock()
	if active {
		return models.NewConflictError("a background task is still running for this session")
	}

	jobs, err := s.storage.PublishJobs().ListBySession(sessionID)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if !job.IsTerminal() {
			return models.NewConflictError("session has active publish jobs; cancel them first")
		}
	}

	if err := s.storage.Questions().DeleteBySession(sessionID); err != nil {
		return err
	}
	if err := s.storage.Answers().DeleteBySession(sessionID); err != nil {
		return err
	}
	if err := s.storage.Versions().DeleteBySession(sessionID); err != nil {
		return err
	}
	if err := s.storage.Ideas().DeleteBySession(sessionID); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := s.storage.PublishJobs().Delete(job.ID); err != nil {
			return err
		}
	}
	if err := s.storage.Sessions().Delete(sessionID); err != nil {
		return err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", session.UserID).
		Msg("Session deleted")
	return nil
}

// MarkPublished moves a session to published after a successful publish.
func (s *Service) MarkPublished(ctx context.Context, sessionID string) {
	session, err := s.storage.Sessions().Get(sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Cannot mark session published")
		return
	}
	if !models.CanTransition(session.Status, models.SessionStatusPublished) {
		return
	}
	session.Status = models.SessionStatusPublished
	session.Touch()
	if err := s.storage.Sessions().Save(session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to save published session")
		return
	}
	s.notify(ctx, session)
}

// startChain runs fn on a supervised goroutine, holding the one-chain-per-
// session guard for its duration. Returns false if a chain is already live.
func (s *Service) startChain(sessionID, name string, fn func(ctx context.Context)) bool {
	s.chainMu.Lock()
	if s.activeChains[sessionID] {
		s.chainMu.Unlock()
		return false
	}
	s.activeChains[sessionID] = true
	s.chainMu.Unlock()

	common.SafeGo(s.logger, name+"-"+sessionID, func() {
		defer func() {
			s.chainMu.Lock()
			delete(s.activeChains, sessionID)
			s.chainMu.Unlock()
		}()
		fn(context.Background())
	})
	return true
}

func (s *Service) failSession(ctx context.Context, session *models.ContentSession, reason string) {
	s.logger.Warn().
		Str("session_id", session.ID).
		Str("reason", reason).
		Msg("Session failed")
	session.MarkFailed(reason)
	if err := s.storage.Sessions().Save(session); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to save failed session")
		return
	}
	s.notify(ctx, session)
}

func (s *Service) notify(ctx context.Context, session *models.ContentSession) {
	s.events.Publish(ctx, interfaces.Event{
		Type:   interfaces.EventSessionUpdated,
		UserID: session.UserID,
		Payload: map[string]interface{}{
			"session_id": session.ID,
			"status":     string(session.Status),
			"has_error":  session.Meta.Error != "",
		},
	})
}

func (s *Service) owned(userID, sessionID string) (*models.ContentSession, error) {
	session, err := s.storage.Sessions().Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, models.NewAuthorizationError("session belongs to another user")
	}
	return session, nil
}
