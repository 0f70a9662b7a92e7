package interfaces

import (
	"time"

	"github.com/plumehq/plume/internal/models"
)

// SessionStorage persists content sessions.
type SessionStorage interface {
	Save(session *models.ContentSession) error
	Get(id string) (*models.ContentSession, error)
	ListByUser(userID string, status models.SessionStatus, limit, offset int) ([]*models.ContentSession, error)
	CountByUser(userID string) (int, error)
	Delete(id string) error
}

// QuestionStorage persists enrichment questions.
type QuestionStorage interface {
	Save(question *models.Question) error
	Get(id string) (*models.Question, error)
	ListBySession(sessionID string) ([]*models.Question, error)
	DeleteBySession(sessionID string) error
}

// AnswerStorage persists question answers.
type AnswerStorage interface {
	Save(answer *models.Answer) error
	GetByQuestion(questionID string) (*models.Answer, error)
	ListBySession(sessionID string) ([]*models.Answer, error)
	DeleteBySession(sessionID string) error
}

// IdeaStorage persists stored content ideas.
type IdeaStorage interface {
	Save(idea *models.Idea) error
	Get(id string) (*models.Idea, error)
	ListByUser(userID string, limit, offset int) ([]*models.Idea, error)
	ListBySession(sessionID string) ([]*models.Idea, error)
	DeleteBySession(sessionID string) error
	Delete(id string) error
}

// VersionStorage persists content versions.
type VersionStorage interface {
	Save(version *models.ContentVersion) error
	Get(id string) (*models.ContentVersion, error)
	ListBySession(sessionID string) ([]*models.ContentVersion, error)
	LatestByPlatform(sessionID string, platform models.Platform) (*models.ContentVersion, error)
	NextNumber(sessionID string, platform models.Platform) (int, error)
	DeleteBySession(sessionID string) error
}

// IntegrationStorage persists provider integrations.
type IntegrationStorage interface {
	Save(integration *models.Integration) error
	Get(id string) (*models.Integration, error)
	ListByUser(userID string) ([]*models.Integration, error)
	GetActiveByProvider(userID string, provider models.IntegrationProvider) (*models.Integration, error)
	Delete(id string) error
}

// PublishJobStorage persists publish jobs.
type PublishJobStorage interface {
	Save(job *models.PublishJob) error
	Get(id string) (*models.PublishJob, error)
	ListByUser(userID string, status models.JobStatus, limit, offset int) ([]*models.PublishJob, error)
	ListBySession(sessionID string) ([]*models.PublishJob, error)
	ListDue(now time.Time) ([]*models.PublishJob, error)
	CountActiveByUser(userID string) (int, error)
	CountActiveByIntegration(integrationID string) (int, error)
	Delete(id string) error
}

// VideoJobStorage persists media generation jobs.
type VideoJobStorage interface {
	Save(job *models.VideoJob) error
	Get(id string) (*models.VideoJob, error)
	ListByUser(userID string, limit, offset int) ([]*models.VideoJob, error)
	ListBySession(sessionID string) ([]*models.VideoJob, error)
	CountActiveByIntegration(integrationID string) (int, error)
	Delete(id string) error
}

// KVStorage is a typed key/value store with per-entry expiry, used for
// transient state like research caches.
type KVStorage interface {
	Set(key string, value interface{}, ttl time.Duration) error
	Get(key string, out interface{}) (bool, error)
	Delete(key string) error
}

// StorageManager aggregates every storage concern behind one handle.
type StorageManager interface {
	Sessions() SessionStorage
	Questions() QuestionStorage
	Answers() AnswerStorage
	Ideas() IdeaStorage
	Versions() VersionStorage
	Integrations() IntegrationStorage
	PublishJobs() PublishJobStorage
	VideoJobs() VideoJobStorage
	KV() KVStorage
	Close() error
}
