package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	serveradapter "github.com/hylla/lyst/internal/adapters/server"
	servercommon "github.com/hylla/lyst/internal/adapters/server/common"
	"github.com/hylla/lyst/internal/adapters/storage/sqlite"
	"github.com/hylla/lyst/internal/app"
	"github.com/hylla/lyst/internal/config"
	"github.com/hylla/lyst/internal/platform"
	"github.com/hylla/lyst/internal/tui"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

// main handles main.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run runs the requested command flow.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// startupOptions holds CLI/env startup inputs shared across command flows.
type startupOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

// newRootCommand builds the lyst command tree with shared startup flags.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &startupOptions{}

	root := &cobra.Command{
		Use:          "lyst [list title]",
		Short:        "Manage named checklists from the terminal",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the interactive checklist board
  lyst

  # Jump straight into one list, creating it when missing
  lyst groceries

  # Print a list without the interactive board
  lyst show groceries
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, args, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("LYST_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultAppName := "lyst"
	if envApp := strings.TrimSpace(os.Getenv("LYST_APP_NAME")); envApp != "" {
		defaultAppName = envApp
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&opts.appName, "app", defaultAppName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(newShowCommand(opts, stderr))
	root.AddCommand(newServeCommand(opts, stderr))
	root.AddCommand(newExportCommand(opts, stderr))
	root.AddCommand(newImportCommand(opts, stderr))
	root.AddCommand(newPathsCommand(opts))
	return root
}

// runTUI opens the interactive board, focused on one list when a title is given.
func runTUI(ctx context.Context, opts *startupOptions, args []string, stderr io.Writer) error {
	state, err := openRuntimeState(opts, "tui", stderr)
	if err != nil {
		return err
	}
	defer state.close(stderr)

	state.logger.Info("command flow start", "command", "tui")
	var modelOpts []tui.Option
	if title := strings.TrimSpace(strings.Join(args, " ")); title != "" {
		list, err := state.svc.OpenOrCreateList(ctx, title)
		if err != nil {
			state.logger.Error("open or create list failed", "title", title, "err", err)
			return fmt.Errorf("open list %q: %w", title, err)
		}
		state.logger.Info("list focus resolved", "list_id", list.ID, "title", list.Title)
		modelOpts = append(modelOpts, tui.WithOpenList(list.ID))
	}

	m := tui.NewModel(state.svc, modelOpts...)
	state.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		state.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	state.logger.Info("command flow complete", "command", "tui")
	return nil
}

// newShowCommand builds the show subcommand printing one checklist non-interactively.
func newShowCommand(opts *startupOptions, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list title>",
		Short: "Print one checklist without opening the interactive board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := openRuntimeState(opts, "show", stderr)
			if err != nil {
				return err
			}
			defer state.close(stderr)

			state.logger.Info("command flow start", "command", "show")
			title := strings.TrimSpace(strings.Join(args, " "))
			if err := runShow(cmd.Context(), state.svc, title, cmd.OutOrStdout()); err != nil {
				state.logger.Error("command flow failed", "command", "show", "err", err)
				return fmt.Errorf("run show command: %w", err)
			}
			state.logger.Info("command flow complete", "command", "show")
			return nil
		},
	}
}

// runShow prints one checklist by title without starting the program loop.
func runShow(ctx context.Context, svc *app.Service, title string, stdout io.Writer) error {
	list, err := svc.FindListByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("find list %q: %w", title, err)
	}
	items, err := svc.ListItems(ctx, list.ID)
	if err != nil {
		return fmt.Errorf("list items for %q: %w", title, err)
	}
	if _, err := fmt.Fprintln(stdout, tui.RenderChecklist(list, items, 80)); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	return nil
}

// newServeCommand builds the serve subcommand exposing the HTTP API and MCP transports.
func newServeCommand(opts *startupOptions, stderr io.Writer) *cobra.Command {
	var (
		httpBind    string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checklist HTTP API and MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := openRuntimeState(opts, "serve", stderr)
			if err != nil {
				return err
			}
			defer state.close(stderr)

			serveCfg := serveradapter.Config{
				HTTPBind:      state.cfg.Server.Bind,
				APIEndpoint:   state.cfg.Server.APIEndpoint,
				MCPEndpoint:   state.cfg.Server.MCPEndpoint,
				ServerName:    opts.appName,
				ServerVersion: version,
			}
			if v := strings.TrimSpace(httpBind); v != "" {
				serveCfg.HTTPBind = v
			}
			if v := strings.TrimSpace(apiEndpoint); v != "" {
				serveCfg.APIEndpoint = v
			}
			if v := strings.TrimSpace(mcpEndpoint); v != "" {
				serveCfg.MCPEndpoint = v
			}

			state.logger.Info("command flow start", "command", "serve")
			state.logger.Info("serving checklist transports", "http_bind", serveCfg.HTTPBind, "api_endpoint", serveCfg.APIEndpoint, "mcp_endpoint", serveCfg.MCPEndpoint)
			deps := serveradapter.Dependencies{
				Checklist: servercommon.NewAppServiceAdapter(state.svc),
			}
			if err := serveCommandRunner(cmd.Context(), serveCfg, deps); err != nil {
				state.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			state.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&httpBind, "http", "", "HTTP listen address (defaults to server.bind from config)")
	flags.StringVar(&apiEndpoint, "api-endpoint", "", "HTTP API base endpoint (defaults to server.api_endpoint from config)")
	flags.StringVar(&mcpEndpoint, "mcp-endpoint", "", "MCP streamable HTTP endpoint (defaults to server.mcp_endpoint from config)")
	return cmd
}

// newExportCommand builds the export subcommand writing a snapshot JSON document.
func newExportCommand(opts *startupOptions, stderr io.Writer) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every list and item as a snapshot JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := openRuntimeState(opts, "export", stderr)
			if err != nil {
				return err
			}
			defer state.close(stderr)

			state.logger.Info("command flow start", "command", "export")
			if err := runExport(cmd.Context(), state.svc, outPath, cmd.OutOrStdout()); err != nil {
				state.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			state.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// runExport writes a snapshot of every list to a file or stdout.
func runExport(ctx context.Context, svc *app.Service, outPath string, stdout io.Writer) error {
	snap, err := svc.ExportSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// newImportCommand builds the import subcommand loading a snapshot JSON document.
func newImportCommand(opts *startupOptions, stderr io.Writer) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a snapshot JSON document, replacing matching lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := openRuntimeState(opts, "import", stderr)
			if err != nil {
				return err
			}
			defer state.close(stderr)

			state.logger.Info("command flow start", "command", "import")
			if err := runImport(cmd.Context(), state.svc, inPath); err != nil {
				state.logger.Error("command flow failed", "command", "import", "err", err)
				return fmt.Errorf("run import command: %w", err)
			}
			state.logger.Info("command flow complete", "command", "import")
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// runImport loads a snapshot JSON file into the store.
func runImport(ctx context.Context, svc *app.Service, inPath string) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// newPathsCommand builds the paths subcommand printing resolved runtime locations.
func newPathsCommand(opts *startupOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := platform.DefaultPathsWithOptions(platform.Options{
				AppName: opts.appName,
				DevMode: opts.devMode,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

// runtimeState bundles resolved config, logging, and storage for one command flow.
type runtimeState struct {
	cfg    config.Config
	logger *runtimeLogger
	repo   *sqlite.Repository
	svc    *app.Service
}

// openRuntimeState resolves paths and config, configures logging, and opens storage.
func openRuntimeState(opts *startupOptions, command string, stderr io.Writer) (*runtimeState, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("LYST_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("LYST_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Keep TUI rendering clean: runtime logs stay in the dev-file sink while the board is active.
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	logger.Info("configuration loaded", "config_path", configPath, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	svc := app.NewService(repo, time.Now)
	logger.Debug("application service initialized")

	return &runtimeState{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		svc:    svc,
	}, nil
}

// close releases runtime resources in reverse acquisition order.
func (s *runtimeState) close(stderr io.Writer) {
	if s == nil {
		return
	}
	if s.repo != nil {
		if closeErr := s.repo.Close(); closeErr != nil {
			s.logger.Warn("sqlite close failed", "db_path", s.cfg.Database.Path, "err", closeErr)
		}
	}
	if closeErr := s.logger.Close(); closeErr != nil && s.logger.consoleActive() {
		// Keep TUI shutdown quiet on the terminal when console logging is intentionally muted.
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
	}
}

// parseBoolEnv parses input into a normalized form.
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

// runtimeLogger fans log events to a styled console sink and an optional dev-file sink.
type runtimeLogger struct {
	console        *charmLog.Logger
	file           *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/config state.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		console:        consoleLogger,
		consoleEnabled: true,
	}
	if !devMode || !cfg.DevFile.Enabled {
		return logger, nil
	}

	devLogPath, err := devLogFilePath(cfg.DevFile.Dir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.file = fileLogger
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// consoleActive reports whether the console sink currently receives events.
func (l *runtimeLogger) consoleActive() bool {
	return l != nil && l.console != nil && l.consoleEnabled
}

// logTo fans one event to every active sink at the given level.
func (l *runtimeLogger) logTo(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	if l.consoleActive() {
		l.console.Log(level, msg, keyvals...)
	}
	if l.file != nil {
		l.file.Log(level, msg, keyvals...)
	}
}

func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	l.logTo(charmLog.DebugLevel, msg, keyvals...)
}

func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	l.logTo(charmLog.InfoLevel, msg, keyvals...)
}

func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	l.logTo(charmLog.WarnLevel, msg, keyvals...)
}

func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	l.logTo(charmLog.ErrorLevel, msg, keyvals...)
}

// devLogFilePath resolves a workspace-local dev log file path for the current run day.
func devLogFilePath(configDir, appName string, now time.Time) (string, error) {
	baseDir := strings.TrimSpace(configDir)
	if baseDir == "" {
		baseDir = ".lyst/log"
	}
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		baseDir = filepath.Join(workspaceRootFrom(cwd), baseDir)
	}
	fileStem := sanitizeLogFileStem(appName)
	fileName := fmt.Sprintf("%s-%s.log", fileStem, now.Format("20060102"))
	return filepath.Join(filepath.Clean(baseDir), fileName), nil
}

// workspaceRootFrom resolves the nearest ancestor workspace marker for stable local log placement.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	if start == "" {
		return "."
	}
	dir := start
	for {
		if hasWorkspaceMarker(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// hasWorkspaceMarker reports whether a directory looks like a project workspace root.
func hasWorkspaceMarker(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return true
	}
	return false
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	stem := strings.TrimSpace(appName)
	if stem == "" {
		return "lyst"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem = strings.Trim(replacer.Replace(stem), "-")
	if stem == "" {
		return "lyst"
	}
	return stem
}
