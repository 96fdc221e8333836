package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/scorecard-sync/internal/config"
	"github.com/pfrederiksen/scorecard-sync/internal/course"
	"github.com/pfrederiksen/scorecard-sync/internal/logger"
	"github.com/pfrederiksen/scorecard-sync/internal/notifier"
	"github.com/pfrederiksen/scorecard-sync/internal/payload"
	"github.com/pfrederiksen/scorecard-sync/internal/scraper"
	"github.com/pfrederiksen/scorecard-sync/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app is the state shared by every command of one run.
type app struct {
	loader     *config.Loader
	cfg        *config.Config
	store      *storage.Storage
	log        *logger.Logger
	runID      string
	format     OutputFormat
	configFile string
	flagFormat string
}

// flagBindings maps persistent flags to config keys.
var flagBindings = map[string]string{
	"data-dir":       config.KeyDataDir,
	"verbose":        config.KeyVerbose,
	"grint-base-url": config.KeyGrintBaseURL,
	"gc-base-url":    config.KeyGCBaseURL,
	"timeout":        config.KeyHTTPTimeout,
	"notify-url":     config.KeyNotifyURL,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{loader: config.NewLoader()}

	cmd := &cobra.Command{
		Use:   "scorecard-sync",
		Short: "Turn Grint scorecards into Golf Canada score posts",
		Long: `A CLI tool to reconcile golf scorecards for posting to Golf Canada.

Scorecards come from a submitted scorecard form (build) or from a Grint round
(scrape, or parse for a saved page). Each is normalized per hole, the holes
played are resolved, and a postScore payload is assembled.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default ./scorecard-sync.yaml)")
	pf.String("data-dir", "", "Data directory for the course cache and payload archive")
	pf.Bool("verbose", false, "Enable verbose logging")
	pf.StringVar(&a.flagFormat, "format", "text", "Output format: text or json")
	pf.String("grint-base-url", "", "Grint base URL")
	pf.String("gc-base-url", "", "Golf Canada API base URL")
	pf.Duration("timeout", 0, "HTTP timeout")
	pf.String("notify-url", "", "Webhook that receives payloads sent with --notify")

	cmd.AddCommand(
		newBuildCmd(a),
		newScrapeCmd(a),
		newParseCmd(a),
		newMetaCmd(a),
		newSealCmd(a),
	)

	return cmd
}

// setup loads configuration and prepares logging and storage.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(a.flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.flagFormat)
	}
	a.format = format

	a.loader.SetConfigFile(a.configFile)
	root := cmd.Root().PersistentFlags()
	for name, key := range flagBindings {
		if err := a.loader.BindFlag(key, root.Lookup(name)); err != nil {
			return err
		}
	}

	cfg, err := a.loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level := logger.LevelInfo
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	a.runID = uuid.NewString()
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()).With(logger.Fields{"run_id": a.runID}))
	a.log = logger.Channel("cli")

	if used := a.loader.ConfigFileUsed(); used != "" {
		a.log.Debug("Config file loaded", logger.Fields{"path": used})
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	a.store = store
	a.log.Debug("Storage ready", logger.Fields{"data_dir": store.Dir()})

	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.log != nil {
		a.log.Debug("Run complete", logger.DefaultMetrics().Summary())
	}
}

// grintClient builds the Grint client, logged in when credentials are set.
func (a *app) grintClient(cmd *cobra.Command) (*scraper.Client, error) {
	client, err := scraper.New(
		scraper.WithBaseURL(a.cfg.Grint.BaseURL),
		scraper.WithTimeout(a.cfg.HTTP.Timeout),
		scraper.WithRateLimit(a.cfg.Grint.RequestsPerSecond),
		scraper.WithLogger(logger.Channel("grint")),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing scraper: %w", err)
	}

	if a.cfg.HasGrintLogin() {
		if err := client.Login(cmd.Context(), a.cfg.Grint.Username, a.cfg.Grint.Password); err != nil {
			return nil, err
		}
	} else {
		a.log.Debug("No Grint credentials; fetching anonymously", nil)
	}
	return client, nil
}

// courseClient builds the Golf Canada client over the persisted cache. It
// returns nil when no API key is configured.
func (a *app) courseClient() *course.Client {
	if !a.cfg.HasGC() {
		a.log.Debug("No Golf Canada API key; reference data disabled", nil)
		return nil
	}

	cache, err := a.store.LoadCourseCache(a.cfg.CacheTTL)
	if err != nil {
		a.log.Warn("Course cache unreadable; starting empty", logger.Fields{"error": err.Error()})
		cache = course.NewCache()
		cache.TTL = a.cfg.CacheTTL
	}

	client := course.NewClientWithCache(a.cfg.GC.BaseURL, a.cfg.GC.APIKey, cache)
	client.SetTimeout(a.cfg.HTTP.Timeout)
	return client
}

// saveCache persists the course cache. Failures only cost a refetch next run.
func (a *app) saveCache(client *course.Client) {
	if client == nil {
		return
	}
	if err := a.store.SaveCourseCache(client.GetCache()); err != nil {
		a.log.Warn("Course cache not saved", logger.Fields{"error": err.Error()})
	}
}

// archive writes the payload under the run id.
func (a *app) archive(p *payload.Payload) (string, error) {
	path, err := a.store.SavePayload(a.runID, p)
	if err != nil {
		return "", fmt.Errorf("archiving payload: %w", err)
	}
	a.log.Info("Payload archived", logger.Fields{"path": path})
	return path, nil
}

// notify hands the payload off, to the webhook when one is configured and as
// a dry run on stderr otherwise.
func (a *app) notify(cmd *cobra.Command, sub notifier.Submission) error {
	var n notifier.Notifier = notifier.NewDryRunNotifier(cmd.ErrOrStderr())
	if url := a.cfg.Notify.WebhookURL; url != "" {
		wh, err := notifier.NewWebhookNotifier(url, a.cfg.HTTP.Timeout)
		if err != nil {
			return err
		}
		n = wh
	} else {
		a.log.Info("No webhook configured; printing submission", nil)
	}

	if err := n.Notify(cmd.Context(), sub); err != nil {
		return fmt.Errorf("notifying: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
