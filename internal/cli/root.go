package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/format"
	"taskboard/internal/store"
	"taskboard/internal/tui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	Delay      time.Duration
	Fail       string
	RedisURL   string
	JWTSecret  string
	Debug      bool
	LogFile    string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Task board with optimistic updates (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskboard

  # Sign in and create a task
  taskboard identity signin --id u1 --email u1@example.com
  taskboard tasks create --title "Write report" --priority high

  # Move it across the board
  taskboard tasks move <task-id> doing
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKBOARD_DIR", ""), "Path to the board directory (default: ~/.taskboard/board)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKBOARD_FORMAT", "json"), "Output format (json|table)")
	cmd.PersistentFlags().DurationVar(&app.Delay, "delay", envDuration("TASKBOARD_DELAY", board.DefaultDelay), "Simulated backend latency")
	cmd.PersistentFlags().StringVar(&app.Fail, "fail", envOr("TASKBOARD_FAIL", ""), "Make the simulated backend reject these operations (create,update,delete,move|all)")
	cmd.PersistentFlags().StringVar(&app.RedisURL, "redis-url", envOr("TASKBOARD_REDIS_URL", ""), "Persist the board in Redis instead of SQLite")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", envBool("TASKBOARD_DEBUG"), "Debug logging")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("TASKBOARD_LOG_FILE", ""), "Write logs to this file")
	app.JWTSecret = os.Getenv("TASKBOARD_JWT_SECRET")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newIdentityCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	// Logs would corrupt the alt screen; only a log file receives them.
	sess, err := openSession(app, io.Discard)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()

	ui, err := store.LoadUIState(app.Dir)
	if err != nil {
		sess.Log.WithError(err).Warn("ignoring saved board view")
		ui = &store.UIState{Version: 1}
	}
	final, err := tui.Run(sess.Board, sess.Log, *ui)
	if err != nil {
		return err
	}
	if err := store.SaveUIState(app.Dir, &final); err != nil {
		sess.Log.WithError(err).Warn("save board view")
	}
	return sess.persisted()
}

func openStore(app *App) (store.StateStore, func() error, error) {
	if strings.TrimSpace(app.RedisURL) != "" {
		rs, err := store.NewRedisStore(app.RedisURL, "")
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Close, nil
	}
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.SQLiteStore{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, nil, err
	}
	return s, func() error { return nil }, nil
}

func (app *App) backend() (board.Backend, error) {
	b := board.SimulatedBackend{Delay: app.Delay}
	if strings.TrimSpace(app.Fail) != "" {
		kinds, err := board.ParseOpKinds(app.Fail)
		if err != nil {
			return nil, err
		}
		b.Fail = board.FailKinds(kinds...)
	}
	return b, nil
}

// newLogger logs to w (or the configured log file) at warn level, debug with --debug.
func newLogger(app *App, w io.Writer) (*log.Logger, func() error, error) {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetLevel(log.WarnLevel)
	if app.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if app.LogFile == "" {
		return logger, func() error { return nil }, nil
	}
	f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	return err == nil && v
}

func envDuration(k string, d time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return d
}

// writeOut wraps data in the {"data": ...} envelope. Table output renders
// Tabular data directly.
func writeOut(cmd *cobra.Command, app *App, data any) error {
	if t, ok := data.(format.Tabular); ok && app.Format == "table" {
		return format.WriteTable(cmd.OutOrStdout(), t)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": data}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
