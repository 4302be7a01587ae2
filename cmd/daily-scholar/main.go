// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the daily-scholar CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/daily-scholar/internal/analyze"
	"github.com/pdiddy/daily-scholar/internal/cache"
	"github.com/pdiddy/daily-scholar/internal/history"
	"github.com/pdiddy/daily-scholar/internal/listing"
	"github.com/pdiddy/daily-scholar/internal/logging"
	"github.com/pdiddy/daily-scholar/internal/mail"
	"github.com/pdiddy/daily-scholar/internal/pipeline"
	"github.com/pdiddy/daily-scholar/internal/rank"
	"github.com/pdiddy/daily-scholar/internal/report"
	"github.com/pdiddy/daily-scholar/internal/window"
	"github.com/pdiddy/daily-scholar/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the daily cycle: collect yesterday's papers, rank them,
// analyze the winners, write artifacts, and mail the digest.
var rootCmd = &cobra.Command{
	Use:   "daily-scholar",
	Short: "Daily arXiv paper digest pipeline",
	Long: `daily-scholar collects the previous day's arXiv cs.AI submissions, ranks
them by a quality score, runs the top papers through LLM analysis (classification,
summary, Korean translation), writes CSV/JSON/HTML artifacts under data/, and
emails the rendered digest.

Analysis results are cached by paper fingerprint, so reruns only pay for papers
not seen before.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional; credentials may come from the environment directly.
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded .env")
		}
		return nil
	},
	RunE: runDaily,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./daily-scholar.yaml or ~/.config/daily-scholar/config.yaml)")
	rootCmd.Flags().String("date", "", "target day, YYYY-MM-DD (default: yesterday UTC)")
	rootCmd.Flags().Bool("no-email", false, "skip digest delivery")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("daily-scholar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "daily-scholar"))
		}
	}

	viper.SetEnvPrefix("DAILY_SCHOLAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// runDaily is best-effort batch semantics: operational failures are
// logged and the process still exits zero. Only usage errors (a bad
// --date) surface through cobra.
func runDaily(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := logging.NewLogger(cfg.Logging).With().Str("component", "daily-scholar").Logger()

	target, err := targetDay(cmd)
	if err != nil {
		return err
	}

	if err := runCycle(cmd, cfg, log, target); err != nil {
		log.Error().Err(err).Msg("daily cycle failed")
	}
	return nil
}

func runCycle(cmd *cobra.Command, cfg types.PipelineConfig, log zerolog.Logger, target time.Time) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cache.NewStore(cfg.Cache.Dir)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	backend, err := analyze.NewDeepSeekBackend(cfg.Analyzer)
	if err != nil {
		return err
	}

	assembler, err := report.NewAssembler(cfg.Report)
	if err != nil {
		return fmt.Errorf("opening artifact directories: %w", err)
	}

	hist, err := history.NewStore(cfg.History)
	if err != nil {
		// The ledger is bookkeeping; run without it.
		log.Warn().Err(err).Msg("run history unavailable")
		hist = nil
	} else {
		defer hist.Close()
	}

	var dispatcher pipeline.Dispatcher
	if noEmail, _ := cmd.Flags().GetBool("no-email"); !noEmail {
		dispatcher = mail.NewSender(cfg.Mail, log)
	}

	httpClient := &http.Client{Timeout: cfg.Listing.Timeout}

	p := &pipeline.Pipeline{
		NewSource:  func() listing.Source { return listing.NewClient(cfg.Listing, httpClient) },
		Scorer:     rank.NewScorer(cfg.Rank.Scorer),
		Cache:      store,
		Analyzer:   backend,
		Assembler:  assembler,
		Dispatcher: dispatcher,
		History:    hist,
		Log:        log,
		TopN:       cfg.Rank.TopN,
		Window: window.Options{
			MaxPull:       cfg.Window.MaxPull,
			FallbackCount: cfg.Window.FallbackCount,
			Margin:        cfg.Window.Margin,
		},
	}

	summary, err := p.Run(ctx, target)
	if err != nil {
		return fmt.Errorf("daily cycle for %s: %w", target.Format("2006-01-02"), err)
	}

	log.Info().
		Time("target", summary.TargetDay).
		Int("pulled", summary.Pulled).
		Int("ranked", summary.Ranked).
		Int("analyzed", summary.Analyzed).
		Int("cache_hits", summary.CacheHits).
		Int("failed", summary.FailedItems).
		Bool("fallback", summary.Fallback).
		Bool("dispatched", summary.Dispatched).
		Msg("daily cycle complete")
	return nil
}

// targetDay resolves the --date flag; the default is yesterday in UTC.
func targetDay(cmd *cobra.Command) (time.Time, error) {
	dateStr, _ := cmd.Flags().GetString("date")
	if dateStr == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1), nil
	}
	target, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", dateStr)
	}
	return target, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
