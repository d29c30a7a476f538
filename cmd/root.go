package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"keyword-trends/config"
	"keyword-trends/database"
	"keyword-trends/engine"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "keyword-trends",
	Short:         "Keyword importance and trend engine",
	Long:          "keyword-trends scores candidate keywords per group and day, persists the results and tracks their trends over time.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(pruneCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keyword-trends %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app is what every command that touches data needs.
type app struct {
	cfg    *config.Config
	store  *database.Store
	models *engine.Models
	engine *engine.Engine
}

// setup loads config, installs the logger, opens the database and, when
// withEngine is set, loads the models and builds the engine.
func setup(withEngine bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	lvl, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	if err := database.InitDB(cfg.DBPath); err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: database.NewStore(database.GetDB())}
	if !withEngine {
		return a, nil
	}

	a.models, err = engine.LoadModels(cfg.ModelOptions())
	if err != nil {
		database.Close()
		return nil, err
	}
	a.engine, err = engine.New(a.store, a.models, cfg.EngineOptions(), slog.Default())
	if err != nil {
		a.models.Close()
		database.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.models != nil {
		a.models.Close()
	}
	database.Close()
}
