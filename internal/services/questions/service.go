package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/interfaces"
	"github.com/plumehq/plume/internal/models"
)

const (
	minQuestions = 5
	maxQuestions = 7
)

// Service generates enrichment questions from a brief and records answers.
type Service struct {
	logger  arbor.ILogger
	ai      interfaces.AIService
	storage interfaces.StorageManager
}

func NewService(ai interfaces.AIService, storage interfaces.StorageManager) *Service {
	return &Service{
		logger:  common.GetLogger(),
		ai:      ai,
		storage: storage,
	}
}

const questionsPrompt = `You are interviewing a content creator to personalize content about their topic.

Brief:
%s

Generate between %d and %d questions that draw out the creator's unique
perspective. Each question has a purpose and one category out of:
experience, audience, insights, examples.

Respond with only JSON in this shape:
{"questions": [{"question": "...", "purpose": "...", "category": "experience"}]}`

type questionPayload struct {
	Questions []struct {
		Question string `json:"question"`
		Purpose  string `json:"purpose"`
		Category string `json:"category"`
	} `json:"questions"`
}

// Generate produces and persists the session's enrichment questions,
// replacing any earlier set.
func (s *Service) Generate(ctx context.Context, session *models.ContentSession) ([]*models.Question, error) {
	// Idea sessions have no brief yet; the raw input stands in for it.
	briefContext := session.InputData
	if session.Meta.Brief != nil {
		briefJSON, err := json.Marshal(session.Meta.Brief)
		if err != nil {
			return nil, fmt.Errorf("failed to encode brief: %w", err)
		}
		briefContext = string(briefJSON)
	}

	var payload questionPayload
	req := interfaces.GenerateRequest{
		Prompt:      fmt.Sprintf(questionsPrompt, briefContext, minQuestions, maxQuestions),
		Temperature: 0.7,
	}
	if err := s.ai.GenerateJSON(ctx, session.UserID, req, &payload); err != nil {
		return nil, err
	}
	if len(payload.Questions) < minQuestions {
		return nil, models.NewParseError(
			fmt.Sprintf("question generation returned %d questions, need at least %d", len(payload.Questions), minQuestions), nil)
	}
	if len(payload.Questions) > maxQuestions {
		payload.Questions = payload.Questions[:maxQuestions]
	}

	if err := s.storage.Questions().DeleteBySession(session.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	questions := make([]*models.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		category := models.QuestionCategory(q.Category)
		switch category {
		case models.QuestionCategoryExperience, models.QuestionCategoryAudience,
			models.QuestionCategoryInsights, models.QuestionCategoryExamples:
		default:
			category = models.QuestionCategoryInsights
		}
		question := &models.Question{
			ID:        common.NewQuestionID(),
			SessionID: session.ID,
			Text:      q.Question,
			Purpose:   q.Purpose,
			Category:  category,
			Position:  i + 1,
			CreatedAt: now,
		}
		if err := s.storage.Questions().Save(question); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Int("count", len(questions)).
		Msg("Enrichment questions generated")
	return questions, nil
}

// Answer records the user's response to a question. Answering again
// overwrites the previous answer; the latest write wins.
func (s *Service) Answer(ctx context.Context, session *models.ContentSession, questionID, text string) (*models.Answer, error) {
	if text == "" {
		return nil, models.NewValidationError("answer text is required", "text")
	}

	question, err := s.storage.Questions().Get(questionID)
	if err != nil {
		return nil, err
	}
	if question.SessionID != session.ID {
		return nil, models.NewValidationError("question belongs to another session", "question_id")
	}

	now := time.Now().UTC()
	answer, err := s.storage.Answers().GetByQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		answer = &models.Answer{
			ID:         common.NewAnswerID(),
			QuestionID: questionID,
			SessionID:  session.ID,
			CreatedAt:  now,
		}
	}
	answer.Text = text
	answer.UpdatedAt = now
	if err := s.storage.Answers().Save(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// Pairs returns the session's questions joined with their answers.
func (s *Service) Pairs(ctx context.Context, sessionID string) ([]*models.QnAPair, error) {
	questions, err := s.storage.Questions().ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.storage.Answers().ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]*models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	pairs := make([]*models.QnAPair, 0, len(questions))
	for _, q := range questions {
		pairs = append(pairs, &models.QnAPair{Question: q, Answer: byQuestion[q.ID]})
	}
	return pairs, nil
}

// AllAnswered reports whether every question has an answer.
func (s *Service) AllAnswered(ctx context.Context, sessionID string) (bool, error) {
	pairs, err := s.Pairs(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if len(pairs) == 0 {
		return false, nil
	}
	for _, pair := range pairs {
		if pair.Answer == nil || pair.Answer.Text == "" {
			return false, nil
		}
	}
	return true, nil
}
