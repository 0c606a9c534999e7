// Package commands implements the taskctl command line.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Kavas-89/Task-Management-System/internal/app"
	"github.com/Kavas-89/Task-Management-System/internal/config"
	"github.com/Kavas-89/Task-Management-System/internal/logging"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/Kavas-89/Task-Management-System/internal/services"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// appFactory opens the application for one command run.
type appFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error)

type rootOptions struct {
	envFile string
	profile string
	newApp  appFactory
}

// NewRootCmd builds the taskctl command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
		return app.New(ctx, cfg, logger)
	})
}

func newRootCmd(newApp appFactory) *cobra.Command {
	opts := &rootOptions{newApp: newApp}

	cmd := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage users, tasks and comments",
		Long: `taskctl works on the same store as the API server.
Log in once and the session is kept per profile until you log out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default .env or $ENV_FILE)")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "default", "session profile")

	cmd.AddCommand(
		newSeedCmd(opts),
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newUsersCmd(opts),
		newTasksCmd(opts),
		newCommentsCmd(opts),
		newDashboardCmd(opts),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what a command runs against.
type env struct {
	*app.App
	session *services.SessionManager
}

// withApp wraps a command function to open the application first
func withApp(opts *rootOptions, fn func(ctx context.Context, cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.LoadFile(opts.envFile); err != nil {
			return err
		}
		cfg := config.Load()
		logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := opts.newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, cmd, args, &env{App: a, session: a.Session("cli-" + opts.profile)})
	}
}

// require returns the session when its role grants capability
func (e *env) require(ctx context.Context, capability models.Capability) (*models.Session, error) {
	session, err := e.session.RequireCapability(ctx, capability)
	if err != nil {
		return nil, describe(err)
	}
	return session, nil
}

// current returns the session or asks the user to log in
func (e *env) current(ctx context.Context) (*models.Session, error) {
	session, err := e.session.CurrentSession(ctx)
	if err != nil {
		return nil, describe(err)
	}
	return session, nil
}
