package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"timetracker/internal"
	"timetracker/internal/config"
	"timetracker/internal/notify"
	"timetracker/internal/project"
	"timetracker/internal/store"
	"timetracker/internal/version"
)

// ErrNotInteractive is returned when the TUI is started without a terminal.
var ErrNotInteractive = errors.New("timetracker needs an interactive terminal")

// App holds the hooks the root command depends on. Tests swap them out.
type App struct {
	Out           io.Writer
	IsInteractive func() bool
	RunProgram    func(m tea.Model) error
}

func defaultApp() *App {
	return &App{
		Out: os.Stdout,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		RunProgram: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

// Execute runs the root command with production wiring.
func Execute() error {
	return NewRootCmd(defaultApp()).Execute()
}

func NewRootCmd(app *App) *cobra.Command {
	var configPath, logFile string

	root := &cobra.Command{
		Use:           "timetracker",
		Short:         "Log time against projects, grouped by day",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			if !app.IsInteractive() {
				return ErrNotInteractive
			}
			return runTUI(cmd.Context(), app, cfg)
		},
	}
	root.SetOut(app.Out)

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/timetracker/config.yaml)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", `log file path ("-" to discard)`)

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
		},
	}
}

// Session is the wired set of components behind one TUI run.
type Session struct {
	Store   *store.LogStore
	Summary *project.Repository
	Model   *internal.Model
	Logger  *slog.Logger

	closers []func() error
}

// NewSession builds the store and attaches every observer cfg asks for.
func NewSession(ctx context.Context, cfg config.Config, logger *slog.Logger, notifier notify.Notifier) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := store.New(store.WithLocation(cfg.Location()))
	summary, err := project.NewRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary database: %w", err)
	}

	// Summary first so the model reads fresh totals when it is notified.
	s.Subscribe(summary.Observer(logger))
	s.Subscribe(store.NewLogObserver(logger))
	if cfg.Goal.DailyMinutes > 0 && cfg.Goal.Notify && notifier != nil {
		s.Subscribe(notify.NewGoalObserver(cfg.Goal.DailyMinutes, notifier, logger))
	}

	m := internal.NewModel(internal.Options{
		Store:      s,
		Summary:    summary,
		Logger:     logger,
		DateFormat: cfg.DateFormat,
	})

	return &Session{
		Store:   s,
		Summary: summary,
		Model:   m,
		Logger:  logger,
		closers: []func() error{summary.Close},
	}, nil
}

func (s *Session) Close() error {
	s.Model.Close()
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func runTUI(ctx context.Context, app *App, cfg config.Config) error {
	logger, closeLog, err := OpenLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	sess, err := NewSession(ctx, cfg, logger, notify.BeeepNotifier{})
	if err != nil {
		return err
	}
	defer sess.Close()

	logger.Info("session_start", "timezone", cfg.Location().String(), "goal_minutes", cfg.Goal.DailyMinutes)
	if err := app.RunProgram(sess.Model); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	logger.Info("session_end", "days", sess.Store.Len())
	return nil
}
