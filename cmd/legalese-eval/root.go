package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rob-Kornblum/legal-ease/internal/config"
	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the command tree. Flags can also be set through
// LEGALESE_* environment variables (LEGALESE_API_URL, LEGALESE_MIN_ACCURACY, ...).
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LEGALESE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "legalese-eval",
		Short: "Measure category accuracy of the simplification service",
		Long: `legalese-eval sends a labelled sample set to the simplification service,
reports how often the returned legal category matches, and keeps a history
of runs so accuracy regressions fail CI.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default etc/config-dev.yaml)")
	root.PersistentFlags().String("history", "", "history file (ignored when a database is configured)")
	root.PersistentFlags().Bool("verbose", false, "log debug output")
	v.BindPFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(v), newHistoryCmd(v))
	return root
}

// loadConfig merges the YAML config with flag and LEGALESE_* values.
func loadConfig(v *viper.Viper) *config.Config {
	cfg := config.Load(v.GetString("config"))
	if v.IsSet("api-url") {
		cfg.API.BaseURL = strings.TrimRight(v.GetString("api-url"), "/")
	}
	if v.IsSet("samples") {
		cfg.Eval.Samples = v.GetString("samples")
	}
	if v.IsSet("history") {
		cfg.Eval.HistoryFile = v.GetString("history")
	}
	if v.IsSet("min-accuracy") {
		cfg.Eval.MinAccuracy = v.GetFloat64("min-accuracy")
	}

	cfg.Log.Level = "warn"
	if v.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	cfg.Log.Format = "text"
	logger.Init(cfg.Log)
	return cfg
}

// openHistory picks MySQL when a database is configured, the JSON file otherwise.
func openHistory(ctx context.Context, cfg *config.Config) (service.HistoryStore, error) {
	if !cfg.HasDatabase() {
		return service.NewFileHistory(cfg.Eval.HistoryFile), nil
	}
	db, err := cfg.OpenGormDB()
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	h := service.NewGormHistory(db)
	if err := h.Migrate(ctx); err != nil {
		return nil, err
	}
	return h, nil
}
