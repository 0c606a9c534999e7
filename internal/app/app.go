// Package app wires the store, repositories and services from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kavas-89/Task-Management-System/internal/config"
	"github.com/Kavas-89/Task-Management-System/internal/database"
	"github.com/Kavas-89/Task-Management-System/internal/notify"
	"github.com/Kavas-89/Task-Management-System/internal/repository"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/Kavas-89/Task-Management-System/internal/store"
	"github.com/Kavas-89/Task-Management-System/internal/views"
	"gorm.io/gorm"
)

// App holds the components shared by the API server and the CLI.
type App struct {
	Store    store.Store
	Users    *services.UserDirectory
	Tasks    *services.TaskBoard
	Comments *services.CommentThread
	Sessions services.SessionScope

	db      *gorm.DB
	discord *notify.DiscordNotifier
	logger  *slog.Logger
}

// Option customizes New.
type Option func(*options)

type options struct {
	store    store.Store
	taskOpts []services.TaskBoardOption
}

// WithStore uses s instead of opening the configured database.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithTaskBoardOptions passes extra options to the TaskBoard.
func WithTaskBoardOptions(opts ...services.TaskBoardOption) Option {
	return func(o *options) {
		o.taskOpts = append(o.taskOpts, opts...)
	}
}

// New opens the store named by cfg and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{logger: logger}

	s := o.store
	if s == nil {
		var err error
		s, err = a.openStore(cfg)
		if err != nil {
			return nil, err
		}
	}
	a.Store = s

	userRepo := repository.NewUserRepository(s, logger)
	a.Users = services.NewUserDirectory(userRepo, logger)

	taskOpts := []services.TaskBoardOption{services.WithNotifier(a.notifier(cfg))}
	if cfg.OpenAIAPIKey != "" {
		taskOpts = append(taskOpts, services.WithAIService(services.NewAIService(cfg.OpenAIAPIKey)))
	}
	taskOpts = append(taskOpts, o.taskOpts...)

	a.Tasks = services.NewTaskBoard(
		repository.NewTaskRepository(s, logger),
		userRepo,
		repository.NewPerformanceFeedRepository(s, logger),
		logger,
		taskOpts...,
	)
	a.Comments = services.NewCommentThread(repository.NewCommentRepository(s, logger), a.Tasks, logger)
	a.Sessions = services.NewSessionScope(s, a.Users, logger)

	if cfg.SeedDefaultUsers {
		seeded, err := a.Users.SeedDefaults(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed default users: %w", err)
		}
		if seeded {
			logger.Info("default users created")
		}
	}

	return a, nil
}

func (a *App) openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == database.DriverMemory {
		a.logger.Warn("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), nil
	}

	db, err := database.Connect(cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, a.logger); err != nil {
		return nil, err
	}
	a.db = db
	return store.NewGormStore(db, a.logger), nil
}

func (a *App) notifier(cfg *config.Config) notify.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(a.logger)}

	if cfg.DiscordWebhookID != "" || cfg.DiscordWebhookToken != "" {
		discord, err := notify.NewDiscordNotifier(cfg.DiscordWebhookID, cfg.DiscordWebhookToken, a.logger)
		if err != nil {
			a.logger.Warn("discord notifications disabled", "error", err)
		} else {
			notifiers = append(notifiers, discord)
			a.discord = discord
		}
	}
	return notifiers
}

// Session returns the SessionManager of one client.
func (a *App) Session(clientID string) *services.SessionManager {
	return a.Sessions(clientID)
}

// Views returns the readers used by the dashboards.
func (a *App) Views() views.Services {
	return views.Services{Users: a.Users, Tasks: a.Tasks, Comments: a.Comments}
}

// Close waits for pending notifications and releases the database
// connection, if any.
func (a *App) Close() error {
	if a.discord != nil {
		a.discord.Wait()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
