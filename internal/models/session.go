package models

import "time"

// SessionStatus tracks a content session through its workflow.
type SessionStatus string

const (
	// Research-first workflow.
	SessionStatusAnalyzing  SessionStatus = "analyzing"
	SessionStatusBriefReady SessionStatus = "brief_ready"
	SessionStatusQnA        SessionStatus = "qna"
	SessionStatusGenerating SessionStatus = "generating"
	SessionStatusReady      SessionStatus = "ready"
	SessionStatusPublished  SessionStatus = "published"
	SessionStatusFailed     SessionStatus = "failed"

	// Legacy idea-first workflow.
	SessionStatusIdea  SessionStatus = "idea"
	SessionStatusDraft SessionStatus = "draft"
)

// statusRank orders statuses so transitions only ever move forward.
// Legacy and research-first statuses share one ordering: idea and analyzing
// both start a session, draft and generating occupy the same stage.
var statusRank = map[SessionStatus]int{
	SessionStatusIdea:       0,
	SessionStatusAnalyzing:  0,
	SessionStatusBriefReady: 1,
	SessionStatusQnA:        2,
	SessionStatusDraft:      3,
	SessionStatusGenerating: 3,
	SessionStatusReady:      4,
	SessionStatusPublished:  5,
}

// IsValidStatus reports whether s is a known session status.
func IsValidStatus(s SessionStatus) bool {
	if s == SessionStatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a session may move from one status to
// another. Sessions never move backwards; failed is reachable from any
// non-terminal status and is itself terminal alongside published.
func CanTransition(from, to SessionStatus) bool {
	if from == SessionStatusFailed || from == SessionStatusPublished {
		return false
	}
	if to == SessionStatusFailed {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// InputType identifies what kind of seed a session was created from.
type InputType string

const (
	InputTypeTopic    InputType = "topic"
	InputTypeURL      InputType = "url"
	InputTypeKeywords InputType = "keywords"
	InputTypeText     InputType = "text"
	InputTypeFeed     InputType = "feed"
)

// SessionMeta holds workflow state accumulated as a session advances.
// Fields are populated stage by stage and never cleared on failure so the
// last good artifact survives for inspection.
type SessionMeta struct {
	Brief              *Brief          `json:"brief,omitempty"`
	RawAnalysis        *ResearchBundle `json:"raw_analysis,omitempty"`
	AnalyzedAt         *time.Time      `json:"analyzed_at,omitempty"`
	EnrichmentComplete bool            `json:"enrichment_complete,omitempty"`
	Error              string          `json:"error,omitempty"`
	FailedAt           *time.Time      `json:"failed_at,omitempty"`
}

// ContentSession is the aggregate root of the content workflow. Versions,
// questions and answers reference it by ID and are cascade-deleted with it.
type ContentSession struct {
	ID        string        `json:"id" badgerhold:"key"`
	UserID    string        `json:"user_id" badgerhold:"index"`
	Title     string        `json:"title"`
	Status    SessionStatus `json:"status" badgerhold:"index"`
	InputType InputType     `json:"input_type"`
	InputData string        `json:"input_data"`
	Meta      SessionMeta   `json:"meta"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsTerminal reports whether the session can advance no further.
func (s *ContentSession) IsTerminal() bool {
	return s.Status == SessionStatusPublished || s.Status == SessionStatusFailed
}

// MarkFailed records a failure and moves the session to the failed status.
func (s *ContentSession) MarkFailed(reason string) {
	now := time.Now().UTC()
	s.Status = SessionStatusFailed
	s.Meta.Error = reason
	s.Meta.FailedAt = &now
	s.UpdatedAt = now
}

// Touch bumps the updated timestamp.
func (s *ContentSession) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

const maxTitleLength = 100

// TruncateTitle caps a generated title at the storage limit.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength-3]) + "..."
}
