package models

import "time"

// Idea is a content idea from the legacy idea-first workflow, either stored
// directly by the user or generated in a batch for an idea-status session.
// At most one idea per session is selected.
type Idea struct {
	ID        string    `json:"id" badgerhold:"key"`
	UserID    string    `json:"user_id" badgerhold:"index"`
	SessionID string    `json:"session_id,omitempty" badgerhold:"index"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Keywords  []string  `json:"keywords,omitempty"`
	Selected  bool      `json:"selected"`
	CreatedAt time.Time `json:"created_at"`
}
