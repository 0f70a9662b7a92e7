package models

import "time"

// QuestionCategory groups enrichment questions by what they probe for.
type QuestionCategory string

const (
	QuestionCategoryExperience QuestionCategory = "experience"
	QuestionCategoryAudience   QuestionCategory = "audience"
	QuestionCategoryInsights   QuestionCategory = "insights"
	QuestionCategoryExamples   QuestionCategory = "examples"
)

// Question is a single AI-generated enrichment question for a session.
type Question struct {
	ID        string           `json:"id" badgerhold:"key"`
	SessionID string           `json:"session_id" badgerhold:"index"`
	Text      string           `json:"text"`
	Purpose   string           `json:"purpose"`
	Category  QuestionCategory `json:"category"`
	Position  int              `json:"position"`
	CreatedAt time.Time        `json:"created_at"`
}

// Answer is the user's response to a question. Re-answering replaces the
// previous answer; the latest write wins.
type Answer struct {
	ID         string    `json:"id" badgerhold:"key"`
	QuestionID string    `json:"question_id" badgerhold:"index"`
	SessionID  string    `json:"session_id" badgerhold:"index"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QnAPair bundles a question with its answer for prompt assembly.
type QnAPair struct {
	Question *Question `json:"question"`
	Answer   *Answer   `json:"answer,omitempty"`
}
