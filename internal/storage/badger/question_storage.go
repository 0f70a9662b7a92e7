package badger

import (
	"errors"
	"fmt"

	"github.com/plumehq/plume/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// QuestionStorage persists enrichment questions in badger.
type QuestionStorage struct {
	db *BadgerDB
}

func NewQuestionStorage(db *BadgerDB) *QuestionStorage {
	return &QuestionStorage{db: db}
}

func (s *QuestionStorage) Save(question *models.Question) error {
	if err := s.db.Store().Upsert(question.ID, question); err != nil {
		return fmt.Errorf("failed to save question %s: %w", question.ID, err)
	}
	return nil
}

func (s *QuestionStorage) Get(id string) (*models.Question, error) {
	var question models.Question
	err := s.db.Store().Get(id, &question)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, models.NewNotFoundError(fmt.Sprintf("question %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question %s: %w", id, err)
	}
	return &question, nil
}

func (s *QuestionStorage) ListBySession(sessionID string) ([]*models.Question, error) {
	var questions []*models.Question
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID").SortBy("Position")
	if err := s.db.Store().Find(&questions, query); err != nil {
		return nil, fmt.Errorf("failed to list questions for session %s: %w", sessionID, err)
	}
	return questions, nil
}

func (s *QuestionStorage) DeleteBySession(sessionID string) error {
	err := s.db.Store().DeleteMatching(&models.Question{}, badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID"))
	if err != nil {
		return fmt.Errorf("failed to delete questions for session %s: %w", sessionID, err)
	}
	return nil
}

// AnswerStorage persists question answers in badger.
type AnswerStorage struct {
	db *BadgerDB
}

func NewAnswerStorage(db *BadgerDB) *AnswerStorage {
	return &AnswerStorage{db: db}
}

func (s *AnswerStorage) Save(answer *models.Answer) error {
	if err := s.db.Store().Upsert(answer.ID, answer); err != nil {
		return fmt.Errorf("failed to save answer %s: %w", answer.ID, err)
	}
	return nil
}

func (s *AnswerStorage) GetByQuestion(questionID string) (*models.Answer, error) {
	var answers []*models.Answer
	query := badgerhold.Where("QuestionID").Eq(questionID).Index("QuestionID").Limit(1)
	if err := s.db.Store().Find(&answers, query); err != nil {
		return nil, fmt.Errorf("failed to get answer for question %s: %w", questionID, err)
	}
	if len(answers) == 0 {
		return nil, nil
	}
	return answers[0], nil
}

func (s *AnswerStorage) ListBySession(sessionID string) ([]*models.Answer, error) {
	var answers []*models.Answer
	query := badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID")
	if err := s.db.Store().Find(&answers, query); err != nil {
		return nil, fmt.Errorf("failed to list answers for session %s: %w", sessionID, err)
	}
	return answers, nil
}

func (s *AnswerStorage) DeleteBySession(sessionID string) error {
	err := s.db.Store().DeleteMatching(&models.Answer{}, badgerhold.Where("SessionID").Eq(sessionID).Index("SessionID"))
	if err != nil {
		return fmt.Errorf("failed to delete answers for session %s: %w", sessionID, err)
	}
	return nil
}
