package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumehq/plume/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestSessionStorageRoundTrip(t *testing.T) {
	m := newTestManager(t)

	now := time.Now().UTC()
	session := &models.ContentSession{
		ID:        "ses_1",
		UserID:    "user_1",
		Title:     "Email marketing",
		Status:    models.SessionStatusAnalyzing,
		InputType: models.InputTypeTopic,
		InputData: "email marketing for indie founders",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, m.Sessions().Save(session))

	loaded, err := m.Sessions().Get("ses_1")
	require.NoError(t, err)
	assert.Equal(t, session.Title, loaded.Title)
	assert.Equal(t, models.SessionStatusAnalyzing, loaded.Status)

	_, err = m.Sessions().Get("ses_missing")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestSessionStorageListByUserFiltersStatus(t *testing.T) {
	m := newTestManager(t)

	for i, status := range []models.SessionStatus{
		models.SessionStatusAnalyzing, models.SessionStatusReady, models.SessionStatusReady,
	} {
		require.NoError(t, m.Sessions().Save(&models.ContentSession{
			ID:        "ses_" + string(rune('a'+i)),
			UserID:    "user_1",
			Status:    status,
			UpdatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, m.Sessions().Save(&models.ContentSession{
		ID: "ses_other", UserID: "user_2", Status: models.SessionStatusReady,
	}))

	ready, err := m.Sessions().ListByUser("user_1", models.SessionStatusReady, 10, 0)
	require.NoError(t, err)
	assert.Len(t, ready, 2)

	all, err := m.Sessions().ListByUser("user_1", "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestVersionStorageNextNumber(t *testing.T) {
	m := newTestManager(t)

	n, err := m.Versions().NextNumber("ses_1", models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, m.Versions().Save(&models.ContentVersion{
		ID: "ver_1", SessionID: "ses_1", Platform: models.PlatformLinkedIn, Number: 1,
	}))
	require.NoError(t, m.Versions().Save(&models.ContentVersion{
		ID: "ver_2", SessionID: "ses_1", Platform: models.PlatformLinkedIn, Number: 2,
	}))
	require.NoError(t, m.Versions().Save(&models.ContentVersion{
		ID: "ver_3", SessionID: "ses_1", Platform: models.PlatformTwitter, Number: 1,
	}))

	n, err = m.Versions().NextNumber("ses_1", models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	latest, err := m.Versions().LatestByPlatform("ses_1", models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, "ver_2", latest.ID)
}

func TestPublishJobStorageActiveCountsAndDue(t *testing.T) {
	m := newTestManager(t)

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	jobs := []*models.PublishJob{
		{ID: "pub_1", UserID: "user_1", IntegrationID: "int_1", Status: models.JobStatusPending},
		{ID: "pub_2", UserID: "user_1", IntegrationID: "int_1", Status: models.JobStatusPending, ScheduledFor: &future},
		{ID: "pub_3", UserID: "user_1", IntegrationID: "int_1", Status: models.JobStatusRunning},
		{ID: "pub_4", UserID: "user_1", IntegrationID: "int_2", Status: models.JobStatusSuccess},
		{ID: "pub_5", UserID: "user_2", IntegrationID: "int_3", Status: models.JobStatusPending, ScheduledFor: &past},
	}
	for _, job := range jobs {
		require.NoError(t, m.PublishJobs().Save(job))
	}

	count, err := m.PublishJobs().CountActiveByUser("user_1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = m.PublishJobs().CountActiveByIntegration("int_1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = m.PublishJobs().CountActiveByIntegration("int_2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	due, err := m.PublishJobs().ListDue(time.Now().UTC())
	require.NoError(t, err)
	ids := make([]string, 0, len(due))
	for _, job := range due {
		ids = append(ids, job.ID)
	}
	assert.ElementsMatch(t, []string{"pub_1", "pub_5"}, ids)
}

func TestKVStorageTTL(t *testing.T) {
	m := newTestManager(t)

	type payload struct {
		Value string `json:"value"`
	}

	require.NoError(t, m.KV().Set("key1", payload{Value: "hello"}, 0))
	var out payload
	found, err := m.KV().Get("key1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", out.Value)

	found, err = m.KV().Get("missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.KV().Set("ephemeral", payload{Value: "soon gone"}, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	found, err = m.KV().Get("ephemeral", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.KV().Delete("key1"))
	found, err = m.KV().Get("key1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestQuestionAnswerCascade(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Questions().Save(&models.Question{ID: "que_1", SessionID: "ses_1", Position: 1}))
	require.NoError(t, m.Questions().Save(&models.Question{ID: "que_2", SessionID: "ses_1", Position: 2}))
	require.NoError(t, m.Answers().Save(&models.Answer{ID: "ans_1", QuestionID: "que_1", SessionID: "ses_1", Text: "yes"}))

	questions, err := m.Questions().ListBySession("ses_1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "que_1", questions[0].ID)

	answer, err := m.Answers().GetByQuestion("que_1")
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, "yes", answer.Text)

	require.NoError(t, m.Questions().DeleteBySession("ses_1"))
	require.NoError(t, m.Answers().DeleteBySession("ses_1"))

	questions, err = m.Questions().ListBySession("ses_1")
	require.NoError(t, err)
	assert.Empty(t, questions)
}
