package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"tasker/internal/config"
	"tasker/internal/logging"
	"tasker/internal/storage"
	"tasker/internal/tasks"
	"tasker/internal/ui"
)

// App carries the state resolved once at startup and shared by commands.
type App struct {
	ConfigPath string

	cfg    config.Config
	logger *log.Logger
	closer io.Closer
	store  *tasks.Store
}

// Execute runs the command line and closes the log on every exit path,
// including commands that fail.
func Execute(args []string, out io.Writer) error {
	app := &App{}
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	if out != nil {
		cmd.SetOut(out)
		cmd.SetErr(out)
	}
	err := cmd.Execute()
	if err != nil && app.logger != nil {
		app.logger.Error("command failed", "err", err)
	}
	if cerr := app.stop(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tasker",
		Short:        "Terminal task tracker",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasker

  # Scriptable commands
  tasker add "Buy milk" "2%"
  tasker list
  tasker toggle 1
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(tasks.NewSession(app.store), app.cfg, app.logger)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default: per-user config dir)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.start()
	}

	cmd.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newToggleCmd(app),
		newRmCmd(app),
		newEditCmd(app),
		newPathCmd(app),
	)
	return cmd
}

// start resolves config, opens the log and loads the task list.
func (a *App) start() error {
	path := a.ConfigPath
	if path == "" {
		p, err := config.ResolveConfigPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	a.ConfigPath = path

	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger, a.closer = logger, closer

	backend, err := storage.NewBackend(cfg.Backend, cfg.DataPath, logger)
	if err != nil {
		return err
	}
	a.store = tasks.Open(backend, logger)
	logger.Info("started", "config", path, "backend", cfg.Backend, "data", cfg.DataPath, "tasks", a.store.Len())
	return nil
}

func (a *App) stop() error {
	if a.closer == nil {
		return nil
	}
	a.logger.Info("stopped")
	err := a.closer.Close()
	a.closer = nil
	return err
}

// saveErr turns a persist failure into a CLI error while noting the
// command's effect did not reach disk.
func saveErr(err error) error {
	if err == nil {
		return nil
	}
	var pe *storage.PersistError
	if errors.As(err, &pe) {
		return fmt.Errorf("changes not saved: %w", err)
	}
	return err
}
