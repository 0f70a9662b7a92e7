package badger

import (
	"github.com/plumehq/plume/internal/interfaces"
)

// Manager aggregates every storage concern over one BadgerDB instance.
type Manager struct {
	db           *BadgerDB
	sessions     *SessionStorage
	questions    *QuestionStorage
	answers      *AnswerStorage
	ideas        *IdeaStorage
	versions     *VersionStorage
	integrations *IntegrationStorage
	publishJobs  *PublishJobStorage
	videoJobs    *VideoJobStorage
	kv           *KVStorage
}

// NewManager opens the database and wires up all storages.
func NewManager(path string) (*Manager, error) {
	db, err := NewBadgerDB(path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:           db,
		sessions:     NewSessionStorage(db),
		questions:    NewQuestionStorage(db),
		answers:      NewAnswerStorage(db),
		ideas:        NewIdeaStorage(db),
		versions:     NewVersionStorage(db),
		integrations: NewIntegrationStorage(db),
		publishJobs:  NewPublishJobStorage(db),
		videoJobs:    NewVideoJobStorage(db),
		kv:           NewKVStorage(db),
	}, nil
}

func (m *Manager) Sessions() interfaces.SessionStorage          { return m.sessions }
func (m *Manager) Questions() interfaces.QuestionStorage        { return m.questions }
func (m *Manager) Answers() interfaces.AnswerStorage            { return m.answers }
func (m *Manager) Ideas() interfaces.IdeaStorage                { return m.ideas }
func (m *Manager) Versions() interfaces.VersionStorage          { return m.versions }
func (m *Manager) Integrations() interfaces.IntegrationStorage  { return m.integrations }
func (m *Manager) PublishJobs() interfaces.PublishJobStorage    { return m.publishJobs }
func (m *Manager) VideoJobs() interfaces.VideoJobStorage        { return m.videoJobs }
func (m *Manager) KV() interfaces.KVStorage                     { return m.kv }

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}
