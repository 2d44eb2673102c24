package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/situationroom/pkg/buildinfo"
	"github.com/matzehuels/situationroom/pkg/config"
	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/observability"
	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/share"
	"github.com/matzehuels/situationroom/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sitroom"

	// openTimeout bounds connecting to a storage backend.
	openTimeout = 10 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	status     io.Writer
	configPath string
	verbose    bool
	registry   *registry.Registry

	// openStorage opens the persistence backend. Tests replace it.
	openStorage func(ctx context.Context, o storage.Options, opts ...storage.Option) (storage.Store, error)
}

// New creates a new CLI instance that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	return &CLI{
		Logger:      logger,
		status:      w,
		registry:    registry.NewDefault(registry.WithLogger(logger)),
		openStorage: storage.Open,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Sitroom manages situation room dashboards",
		Long:          `Sitroom manages grid dashboards of live-data widgets: maps, news feeds, prediction markets, social feeds, flights, notes, video and RSS. Dashboards persist locally or in a shared backend and can be shared as compact URL tokens.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.UseLogger(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/sitroom/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.widgetsCommand())
	root.AddCommand(c.dashboardCommand())
	root.AddCommand(c.widgetCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session - loaded config, storage and state for one command
// =============================================================================

// session is the state a command works on.
type session struct {
	cfg     *config.Config
	storage storage.Store
	store   *dashboard.Store
	codec   *share.Codec
	logger  *log.Logger
}

// loadConfig reads the config file and applies its log level unless
// --verbose was given.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if !c.verbose && cfg.Log.Level != "" {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// openSession loads the config, connects to storage and loads the saved
// state. Missing or unreadable state starts from a single empty dashboard.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	var spin *Spinner
	if remote(cfg.Storage.Backend) && isTerminal(c.status) {
		spin = newSpinnerWithContext(ctx, c.status, "Connecting to "+string(cfg.Storage.Backend)+"...")
		spin.Start()
	}
	openCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	prog := newProgress(logger)
	st, err := c.openStorage(openCtx, cfg.Storage, storage.WithLogger(logger))
	if err != nil {
		if spin != nil {
			spin.StopWithError("connection failed")
		}
		return nil, err
	}
	start := time.Now()
	saved, err := st.Load(openCtx)
	observability.Storage().OnLoad(ctx, storage.Name(st), saved != nil, time.Since(start), err)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	prog.done("loaded state from " + backendName(cfg.Storage))

	initial := dashboard.Initial(time.Now())
	if saved != nil {
		initial = *saved
	}
	return &session{
		cfg:     cfg,
		storage: st,
		store:   dashboard.NewStore(dashboard.NewReducer(c.registry), initial, dashboard.WithStoreLogger(logger)),
		codec:   share.New(c.registry, share.WithLogger(logger)),
		logger:  logger,
	}, nil
}

// dispatch applies a and saves the result.
func (s *session) dispatch(ctx context.Context, a dashboard.Action) (dashboard.State, error) {
	st, err := s.store.Dispatch(a)
	if err != nil {
		return st, err
	}
	start := time.Now()
	err = s.storage.Save(ctx, st)
	observability.Storage().OnSave(ctx, storage.Name(s.storage), time.Since(start), err)
	return st, err
}

// dashboard returns the dashboard with id, or the active one when id is empty.
func (s *session) dashboard(id string) (dashboard.Dashboard, error) {
	st := s.store.State()
	if id == "" {
		d, ok := st.Active()
		if !ok {
			return dashboard.Dashboard{}, errs.New(errs.ErrCodeDashboardNotFound, "no active dashboard")
		}
		return d, nil
	}
	d, ok := st.Dashboard(id)
	if !ok {
		return dashboard.Dashboard{}, errs.DashboardNotFound(id)
	}
	return d, nil
}

func (s *session) close() {
	if err := s.storage.Close(); err != nil {
		s.logger.Warn("close storage", "err", err)
	}
}

// withSession runs fn with an open session and closes it afterwards.
func (c *CLI) withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := c.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

// =============================================================================
// Helpers
// =============================================================================

func remote(b storage.Backend) bool {
	return b == storage.BackendRedis || b == storage.BackendMongo
}

func backendName(o storage.Options) string {
	if o.Backend == "" {
		return string(storage.BackendFile)
	}
	return string(o.Backend)
}
