package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardOnly(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		to      SessionStatus
		allowed bool
	}{
		{"analyzing to brief_ready", SessionStatusAnalyzing, SessionStatusBriefReady, true},
		{"brief_ready to qna", SessionStatusBriefReady, SessionStatusQnA, true},
		{"qna to generating", SessionStatusQnA, SessionStatusGenerating, true},
		{"generating to ready", SessionStatusGenerating, SessionStatusReady, true},
		{"ready to published", SessionStatusReady, SessionStatusPublished, true},
		{"skip ahead qna to ready", SessionStatusQnA, SessionStatusReady, true},
		{"same status is a no-op move", SessionStatusQnA, SessionStatusQnA, true},
		{"ready back to qna", SessionStatusReady, SessionStatusQnA, false},
		{"published back to ready", SessionStatusPublished, SessionStatusReady, false},
		{"generating back to brief_ready", SessionStatusGenerating, SessionStatusBriefReady, false},
		{"legacy idea to qna", SessionStatusIdea, SessionStatusQnA, true},
		{"legacy qna to draft", SessionStatusQnA, SessionStatusDraft, true},
		{"legacy draft back to idea", SessionStatusDraft, SessionStatusIdea, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_Failed(t *testing.T) {
	for _, from := range []SessionStatus{
		SessionStatusAnalyzing, SessionStatusBriefReady, SessionStatusQnA,
		SessionStatusGenerating, SessionStatusReady, SessionStatusIdea, SessionStatusDraft,
	} {
		assert.True(t, CanTransition(from, SessionStatusFailed), "failed should be reachable from %s", from)
	}

	// Terminal states go nowhere.
	assert.False(t, CanTransition(SessionStatusFailed, SessionStatusQnA))
	assert.False(t, CanTransition(SessionStatusFailed, SessionStatusFailed))
	assert.False(t, CanTransition(SessionStatusPublished, SessionStatusFailed))
}

func TestSessionMarkFailed(t *testing.T) {
	session := &ContentSession{Status: SessionStatusGenerating}
	session.MarkFailed("generation blew up")

	assert.Equal(t, SessionStatusFailed, session.Status)
	assert.Equal(t, "generation blew up", session.Meta.Error)
	assert.NotNil(t, session.Meta.FailedAt)
	assert.True(t, session.IsTerminal())
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short title", TruncateTitle("short title"))

	long := strings.Repeat("a", 150)
	truncated := TruncateTitle(long)
	assert.Len(t, truncated, 100)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
