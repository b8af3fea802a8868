package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/evanschultz/taskboard/internal/adapters/storage/sqlite"
	"github.com/evanschultz/taskboard/internal/app"
	"github.com/evanschultz/taskboard/internal/config"
	"github.com/evanschultz/taskboard/internal/domain"
	"github.com/evanschultz/taskboard/internal/platform"
	"github.com/evanschultz/taskboard/internal/tui"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the TUI program; tests swap it for a fake.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree without fang's styled error output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
	theme      string
	empty      bool

	stdout io.Writer
	stderr io.Writer
}

// newRootCommand builds the taskboard command tree.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TASKBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultAppName := "taskboard"
	if envApp := strings.TrimSpace(os.Getenv("TASKBOARD_APP_NAME")); envApp != "" {
		defaultAppName = envApp
	}

	root := &cobra.Command{
		Use:           "taskboard",
		Short:         "A keyboard-driven task list with categories and themes",
		Long:          "taskboard runs a full-screen task list. Tasks live in memory for one session.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", defaultAppName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")
	root.Flags().StringVar(&opts.theme, "theme", "", "start theme: light or dark")
	root.Flags().BoolVar(&opts.empty, "empty", false, "start without seed tasks")

	root.AddCommand(newPathsCommand(opts), newConfigCommand(opts))
	return root
}

// newPathsCommand prints resolved runtime paths.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			paths, configPath, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			out := opts.stdout
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// newConfigCommand groups config file helpers.
func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config TOML",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, configPath, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			if err := config.Write(configPath, config.Default(), force); err != nil {
				return fmt.Errorf("write config %q: %w", configPath, err)
			}
			_, _ = fmt.Fprintf(opts.stdout, "wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config as TOML",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			content, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = opts.stdout.Write(content)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// resolvePaths returns platform paths and the effective config path.
func (o *rootOptions) resolvePaths() (platform.Paths, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", err
	}
	configPath := strings.TrimSpace(o.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TASKBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	return paths, configPath, nil
}

// loadConfig loads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (config.Config, string, error) {
	_, configPath, err := o.resolvePaths()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config %q: %w", configPath, err)
	}
	if raw := strings.TrimSpace(o.theme); raw != "" {
		cfg.UI.Theme = config.Theme(strings.ToLower(raw))
		if err := cfg.Validate(); err != nil {
			return config.Config{}, "", fmt.Errorf("--theme: %w", err)
		}
	}
	if o.empty {
		cfg.Board.SeedTasks = false
	}
	return cfg, configPath, nil
}

// runBoard builds the session and runs the TUI until the user quits.
func runBoard(ctx context.Context, opts *rootOptions) error {
	cfg, configPath, err := opts.loadConfig()
	if err != nil {
		return err
	}
	paths, _, err := opts.resolvePaths()
	if err != nil {
		return err
	}

	logger, err := newRuntimeLogger(opts.stderr, opts.appName, opts.devMode, cfg.Logging, paths.LogDir, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the board is active.
	logger.SetConsoleEnabled(false)
	defer closeRuntimeLogger(logger, opts.stderr)

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Info("configuration loaded", "config_path", configPath, "theme", cfg.UI.Theme, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	board, err := buildBoard(cfg, app.NewTaskID)
	if err != nil {
		logger.Error("board setup failed", "err", err)
		return fmt.Errorf("build board: %w", err)
	}
	logger.Debug("board ready", "tasks", len(board.Tasks), "categories", board.Categories.Len())

	var journal app.Journal
	if cfg.Journal.Enabled {
		repo, err := sqlite.OpenInMemory()
		if err != nil {
			logger.Error("session journal open failed", "err", err)
			return fmt.Errorf("open session journal: %w", err)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				logger.Warn("session journal close failed", "err", closeErr)
			}
		}()
		journal = repo
		logger.Info("session journal ready", "max_events", cfg.Journal.MaxEvents)
	}

	svc := app.NewService(board, journal, app.NewTaskID, nil, app.ServiceConfig{
		JournalLimit: cfg.Journal.MaxEvents,
	})
	m := tui.NewModel(
		svc,
		tui.WithTitle(opts.appName),
		tui.WithCategoryStats(cfg.UI.ShowCategoryStats),
		tui.WithKeyConfig(tui.KeyConfig{
			ToggleTheme: cfg.Keys.ToggleTheme,
			CopyTask:    cfg.Keys.CopyTask,
			ActivityLog: cfg.Keys.ActivityLog,
		}),
	)

	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	counts := svc.Counts()
	logger.Info("session ended", "total", counts.Total, "completed", counts.Completed)
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// closeRuntimeLogger closes the dev-file sink, reporting failures on stderr once the terminal is released.
func closeRuntimeLogger(logger *runtimeLogger, stderr io.Writer) {
	if err := logger.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// buildBoard creates the initial board from config seeds.
func buildBoard(cfg config.Config, newID app.IDGenerator) (domain.Board, error) {
	seeds := cfg.SeedTasks()
	tasks := make([]domain.Task, 0, len(seeds))
	for idx, seed := range seeds {
		task, err := domain.NewTask(newID(), seed.Text, seed.Category)
		if err != nil {
			return domain.Board{}, fmt.Errorf("seed task %d: %w", idx, err)
		}
		task.Completed = seed.Completed
		tasks = append(tasks, task)
	}
	return domain.NewBoard(domain.BoardInput{
		AllLabel:           cfg.UI.AllLabel,
		UncategorizedLabel: cfg.UI.UncategorizedLabel,
		Categories:         cfg.Board.Categories,
		Tasks:              tasks,
		Dark:               cfg.UI.Theme == config.ThemeDark,
	})
}

// parseBoolEnv parses a boolean environment variable, reporting whether it was set and valid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
