package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kerbaras/mangaverse/pkg/config"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/gateway"
	"github.com/kerbaras/mangaverse/pkg/integrations"
	"github.com/kerbaras/mangaverse/pkg/services"
	"github.com/kerbaras/mangaverse/pkg/sources"
	"github.com/spf13/cobra"
)

// errReported marks a failure the printer already showed to the user.
var errReported = errors.New("already reported")

type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	repo    *data.Repository
	coord   *services.Coordinator
	printer *printer
	closers []io.Closer
}

// setup wires config, logging, the gateway, the catalog and the store into a
// coordinator. The TUI logs to a file so the screen stays clean; commands log
// to stderr.
func setup(cmd *cobra.Command, tui bool) (*environment, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg}

	logOut := cmd.ErrOrStderr()
	if tui || cfg.LogFile != "" {
		f, err := cfg.OpenLogFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, f)
		logOut = f
	}
	env.logger = cfg.NewLogger(logOut)

	repo, err := data.NewDuckDBRepository(cfg.DBPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DBPath, err)
	}
	env.repo = repo
	env.closers = append(env.closers, repo)

	source := sources.NewJikan(cfg.APIURL, newGateway(cfg, env.logger.With("component", "gateway")))
	catalog := services.NewCatalog(source, env.logger.With("component", "catalog"))

	env.printer = newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	opts := []services.CoordinatorOption{services.WithLogger(env.logger.With("component", "coordinator"))}
	if !tui {
		opts = append(opts, services.WithRenderer(env.printer))
	}
	env.coord = services.NewCoordinator(catalog, repo, opts...)

	env.logger.Debug("environment ready", "api", cfg.APIURL, "db", cfg.DBPath, "tui", tui)
	return env, nil
}

func newGateway(cfg *config.Config, logger *slog.Logger) *gateway.Gateway {
	policy := gateway.DefaultRetryPolicy()
	policy.MaxRetries = cfg.MaxRetries
	policy.InitialInterval = cfg.Backoff
	policy.Jitter = cfg.Jitter

	return gateway.New(
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithMinInterval(cfg.MinInterval),
		gateway.WithPerMinute(cfg.PerMinute),
		gateway.WithRetryPolicy(policy),
		gateway.WithLogger(logger),
	)
}

// exporter builds the favorites EPUB exporter. Covers are downloaded through
// their own gateway since they are not served by the catalog API.
func (e *environment) exporter(outDir string) *integrations.EPubBuilder {
	covers := newGateway(e.cfg, e.logger.With("component", "covers"))
	return integrations.NewEPubBuilder(outDir,
		integrations.WithCovers(covers, integrations.DefaultCoverSettings()),
		integrations.WithLogger(e.logger.With("component", "export")),
	)
}

func (e *environment) exportDir() string {
	if dir, err := os.Getwd(); err == nil {
		return dir
	}
	return filepath.Dir(e.cfg.DBPath)
}

// report turns an error the printer already rendered into errReported.
func (e *environment) report(err error) error {
	if err == nil {
		return nil
	}
	if e.printer.Reported() {
		return errReported
	}
	return err
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && e.logger != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
	e.closers = nil
}
