// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 10:12:40 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/common"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/content"
	"github.com/ternarybob/dernek/internal/services/editor"
	"github.com/ternarybob/dernek/internal/services/render"
	"github.com/ternarybob/dernek/internal/services/scheduler"
	"github.com/ternarybob/dernek/internal/services/schema"
	"github.com/ternarybob/dernek/internal/services/settings"
	"github.com/ternarybob/dernek/internal/services/watcher"
	"github.com/ternarybob/dernek/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Settings boundary over the configured storage backend
	Settings *settings.Store

	// Canonical default content and what is derived from it
	Content  models.Document
	Defaults models.Values
	Registry *schema.Registry
	Seeder   *content.Seeder

	Editor   *editor.Service
	Renderer *render.Renderer

	// Background services, only started by the daemon
	SchedulerService *scheduler.Service
	ContentWatcher   *watcher.ContentWatcher
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Content is loaded before storage so a broken content file fails fast
	if err := app.initContent(); err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		_ = app.StorageManager.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info().
		Str("storage", app.StorageManager.Backend()).
		Int("pages", len(app.Registry.Pages())).
		Int("default_keys", len(app.Defaults)).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initContent() error {
	document, err := content.LoadDocument(a.Config.Content.File)
	if err != nil {
		return err
	}

	a.Content = document
	a.Defaults = content.Flatten(document, "")

	source := a.Config.Content.File
	if source == "" {
		source = "embedded"
	}
	a.Logger.Debug().
		Str("source", source).
		Int("keys", len(a.Defaults)).
		Msg("Content document loaded")
	return nil
}

// initDatabase initializes the storage layer
func (a *App) initDatabase() error {
	if a.Config.Storage.Type == "badger" && a.Config.Storage.Badger.ResetOnStartup {
		a.Logger.Warn().Str("path", a.Config.Storage.Badger.Path).Msg("Resetting badger store on startup")
		if err := os.RemoveAll(a.Config.Storage.Badger.Path); err != nil {
			return fmt.Errorf("failed to reset badger store: %w", err)
		}
	}

	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Settings = settings.NewStore(storageManager.KeyValueStorage(), a.Logger)

	a.Logger.Debug().
		Str("storage", storageManager.Backend()).
		Msg("Storage layer initialized")
	return nil
}

// initServices initializes the domain services in dependency order
func (a *App) initServices() error {
	registry, err := schema.NewRegistry(schema.DefaultPages(), a.Defaults)
	if err != nil {
		return fmt.Errorf("failed to build schema registry: %w", err)
	}
	a.Registry = registry

	a.Seeder = content.NewSeeder(a.Settings, a.Content, a.Config.Content.Actor, a.Logger)

	format, err := editor.ParseFormat(a.Config.Editor.Format)
	if err != nil {
		return err
	}
	options := editor.Options{
		Format: format,
		Actor:  a.Config.Content.Actor,
	}
	if len(a.Config.Editor.HiddenFields) > 0 {
		options.HiddenFields = a.Config.Editor.HiddenFields
	}
	if a.Config.Editor.AssignIDs {
		options.NewID = common.NewItemID
	}
	a.Editor = editor.NewService(registry, a.Settings, options, a.Logger)

	a.Renderer = render.NewRenderer(a.Logger)
	a.SchedulerService = scheduler.NewService(a.Logger)

	return nil
}

// StartBackground runs the startup seed and starts the scheduler and the
// content watcher as configured
func (a *App) StartBackground(ctx context.Context) error {
	if a.Config.Seed.OnStartup {
		report, err := a.Seeder.SeedAll(ctx, a.Config.Seed.Overwrite, a.Config.Seed.Groups...)
		if err != nil {
			return fmt.Errorf("startup seed failed: %w", err)
		}
		a.Logger.Info().
			Int("created", report.Total.Created).
			Int("updated", report.Total.Updated).
			Int("skipped", report.Total.Skipped).
			Int("failed", report.Total.Failed).
			Msg("Startup seed complete")
	}

	if a.Config.Seed.Schedule != "" {
		if err := a.SchedulerService.RegisterReseedJob(a.Seeder, a.Config.Seed.Schedule, false, a.Config.Seed.Groups); err != nil {
			return fmt.Errorf("failed to register reseed job: %w", err)
		}
	}
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if a.Config.Watch.Enabled {
		if a.Config.Content.File == "" {
			a.Logger.Warn().Msg("Content watch enabled but no content file configured, skipping")
			return nil
		}
		debounce, err := a.Config.WatchDebounce()
		if err != nil {
			return err
		}
		a.ContentWatcher = watcher.NewContentWatcher(a.Config.Content.File, debounce, a.Seeder, a.Config.Seed.Groups, a.Logger)
		if err := a.ContentWatcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start content watcher: %w", err)
		}
	}

	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	if a.ContentWatcher != nil {
		if err := a.ContentWatcher.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop content watcher")
		}
	}

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
