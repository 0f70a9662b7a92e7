package sessions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/models"
)

const ideaBatchSize = 3

// GenerateIdeas creates an idea-status session seeded with a batch of
// AI-generated content ideas. The caller picks one with SelectIdea.
func (s *Service) GenerateIdeas(ctx context.Context, userID string, inputType models.InputType, inputData string) (*models.ContentSession, []*models.Idea, error) {
	inputData = strings.TrimSpace(inputData)
	if inputData == "" {
		return nil, nil, models.NewValidationError("input data is required", "input_data")
	}

	seeds, err := s.drafts.GenerateIdeas(ctx, userID, inputType, inputData, ideaBatchSize)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	session := &models.ContentSession{
		ID:        common.NewSessionID(),
		UserID:    userID,
		Title:     models.TruncateTitle(inputData),
		Status:    models.SessionStatusIdea,
		InputType: inputType,
		InputData: inputData,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, nil, err
	}

	ideas := make([]*models.Idea, 0, len(seeds))
	for _, seed := range seeds {
		idea := &models.Idea{
			ID:        common.NewIdeaID(),
			UserID:    userID,
			SessionID: session.ID,
			Title:     models.TruncateTitle(seed.Title),
			Summary:   seed.Summary,
			Source:    "ai",
			Keywords:  seed.Keywords,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.storage.Ideas().Save(idea); err != nil {
			return nil, nil, err
		}
		ideas = append(ideas, idea)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("user_id", userID).
		Int("ideas", len(ideas)).
		Msg("Idea session created")
	return session, ideas, nil
}

// SelectIdea marks one idea of an idea session as chosen, deselects its
// siblings, reseeds the session input from the idea and moves the session
// into Q&A.
func (s *Service) SelectIdea(ctx context.Context, userID, ideaID string) (*models.ContentSession, []*models.Question, error) {
	idea, err := s.storage.Ideas().Get(ideaID)
	if err != nil {
		return nil, nil, err
	}
	if idea.UserID != userID {
		return nil, nil, models.NewAuthorizationError("idea belongs to another user")
	}
	if idea.SessionID == "" {
		return nil, nil, models.NewConflictError("idea is not attached to a session")
	}

	session, err := s.owned(userID, idea.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.SessionStatusIdea {
		return nil, nil, models.NewConflictError(fmt.Sprintf("ideas can only be selected in idea status, session is %q", session.Status))
	}

	siblings, err := s.storage.Ideas().ListBySession(session.ID)
	if err != nil {
		return nil, nil, err
	}
	for _, sibling := range siblings {
		selected := sibling.ID == ideaID
		if sibling.Selected == selected {
			continue
		}
		sibling.Selected = selected
		if err := s.storage.Ideas().Save(sibling); err != nil {
			return nil, nil, err
		}
	}

	session.Title = idea.Title
	session.InputData = strings.TrimSpace(idea.Title + "\n\n" + idea.Summary)
	if err := s.storage.Sessions().Save(session); err != nil {
		return nil, nil, err
	}

	questions, err := s.StartQnA(ctx, userID, session.ID)
	if err != nil {
		return nil, nil, err
	}
	session, err = s.storage.Sessions().Get(session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, questions, nil
}

// CreateIdea stores a content idea for later use.
func (s *Service) CreateIdea(ctx context.Context, userID, title, summary, source string, keywords []string) (*models.Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("idea title is required", "title")
	}

	idea := &models.Idea{
		ID:        common.NewIdeaID(),
		UserID:    userID,
		Title:     models.TruncateTitle(title),
		Summary:   strings.TrimSpace(summary),
		Source:    source,
		Keywords:  keywords,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Ideas().Save(idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// ListIdeas returns the user's stored ideas, newest first.
func (s *Service) ListIdeas(ctx context.Context, userID string, limit, offset int) ([]*models.Idea, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.storage.Ideas().ListByUser(userID, limit, offset)
}

// DeleteIdea removes a stored idea.
func (s *Service) DeleteIdea(ctx context.Context, userID, ideaID string) error {
	idea, err := s.storage.Ideas().Get(ideaID)
	if err != nil {
		return err
	}
	if idea.UserID != userID {
		return models.NewAuthorizationError("idea belongs to another user")
	}
	return s.storage.Ideas().Delete(ideaID)
}
