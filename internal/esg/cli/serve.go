package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/internal/esg/achievements"
	"github.com/build-flow-labs/esgrate/internal/esg/advisor"
	"github.com/build-flow-labs/esgrate/internal/esg/dashboard"
	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/internal/esg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring HTTP API",
	Long: `Starts the HTTP API: scoring, activity classification, carbon and GRI
calculators, advisor feedback, scorecard images, per-company assessment
history with achievements, and an HTML dashboard at /ui.

Configuration comes from --config and ESGRATE_* environment variables.
Set ANTHROPIC_API_KEY to enable language-model feedback.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	engine, err := achievements.New()
	if err != nil {
		return fmt.Errorf("loading achievements: %w", err)
	}

	cardOpts := scorecard.Options{FontPath: cfg.Scorecard.FontPath}
	dash, err := dashboard.New(store, cardOpts, log)
	if err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}

	adv, closeAdvisor := advisor.New(ctx, cfg, log)
	defer closeAdvisor()

	srv := server.New(server.Config{
		Addr:      cfg.Server.Addr,
		RateLimit: cfg.Server.RateLimit,
	}, server.Deps{
		Store:        store,
		Achievements: engine,
		Advisor:      adv,
		Scorecard:    cardOpts,
		Dashboard:    dash,
	}, log)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
