package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/handlers"
	"github.com/plumehq/plume/internal/interfaces"
	storage "github.com/plumehq/plume/internal/storage/badger"

	"github.com/plumehq/plume/internal/services/ai"
	"github.com/plumehq/plume/internal/services/brief"
	"github.com/plumehq/plume/internal/services/credentials"
	"github.com/plumehq/plume/internal/services/drafts"
	"github.com/plumehq/plume/internal/services/events"
	"github.com/plumehq/plume/internal/services/media"
	"github.com/plumehq/plume/internal/services/publish"
	"github.com/plumehq/plume/internal/services/questions"
	"github.com/plumehq/plume/internal/services/research"
	"github.com/plumehq/plume/internal/services/scheduler"
	"github.com/plumehq/plume/internal/services/sessions"
)

// App wires every service together and owns the HTTP server lifecycle.
type App struct {
	logger  arbor.ILogger
	config  *common.Config
	storage interfaces.StorageManager

	Events      interfaces.EventService
	Credentials interfaces.CredentialService
	AI          interfaces.AIService
	Research    interfaces.ResearchService
	Briefs      *brief.Service
	Questions   *questions.Service
	Drafts      *drafts.Service
	Sessions    *sessions.Service
	Publish     *publish.Service
	Media       *media.Service
	Scheduler   *scheduler.Service
	WebSocket   *handlers.WebSocketHandler

	server *http.Server
}

// New builds the full service graph from configuration.
func New(cfg *common.Config) (*App, error) {
	logger := common.GetLogger()

	storageManager, err := storage.NewManager(cfg.Storage.Badger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	eventService := events.NewService()

	credentialService, err := credentials.NewService(cfg, storageManager)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	aiService := ai.NewService(cfg, credentialService)
	researchService := research.NewService(cfg, aiService, storageManager.KV())
	briefService := brief.NewService(aiService)
	questionService := questions.NewService(aiService, storageManager)
	draftService := drafts.NewService(aiService, storageManager)

	sessionService := sessions.NewService(
		storageManager, eventService, researchService, briefService, questionService, draftService)
	publishService := publish.NewService(cfg, storageManager, credentialService, eventService, sessionService)
	mediaService := media.NewService(cfg, storageManager, credentialService, eventService)
	schedulerService := scheduler.NewService(cfg, publishService)

	wsHandler := handlers.NewWebSocketHandler()
	handlers.NewEventSubscriber(cfg, wsHandler, eventService)

	return &App{
		logger:      logger,
		config:      cfg,
		storage:     storageManager,
		Events:      eventService,
		Credentials: credentialService,
		AI:          aiService,
		Research:    researchService,
		Briefs:      briefService,
		Questions:   questionService,
		Drafts:      draftService,
		Sessions:    sessionService,
		Publish:     publishService,
		Media:       mediaService,
		Scheduler:   schedulerService,
		WebSocket:   wsHandler,
	}, nil
}

// Start launches the scheduler and the HTTP server.
func (a *App) Start(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.WebSocket.ServeWS)
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/version", a.handleVersion)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	a.logger.Info().
		Str("addr", addr).
		Str("environment", a.config.Environment).
		Msg("Server starting")

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts everything down in reverse dependency order.
func (a *App) Stop(ctx context.Context) error {
	a.Scheduler.Stop()

	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn().Err(err).Msg("Server shutdown was not clean")
		}
	}

	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	a.logger.Info().Msg("Server stopped")
	return nil
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"connected_users": a.WebSocket.ConnectedUsers(),
		"goroutines":      common.GetGoroutineCount(),
	})
}

func (a *App) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}
