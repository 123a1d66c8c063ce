package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/ingredo/pkg/ingredo"
	"github.com/cognicore/ingredo/pkg/ingredo/config"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/metrics"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
	"github.com/cognicore/ingredo/pkg/ingredo/store/sqlite"
)

// app carries state shared by every subcommand once the root pre-run has
// resolved settings.
type app struct {
	configPath string
	dataset    string
	dictionary string
	noise      string
	logLevel   string

	settings *config.Settings
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ingredo",
		Short:         "Check food label ingredients against a dietary preference",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings YAML file (env INGREDO_* always applies)")
	flags.StringVar(&a.dataset, "dataset", "", "reference dataset (.json or .db)")
	flags.StringVar(&a.dictionary, "dictionary", "", "extra known-ingredient YAML")
	flags.StringVar(&a.noise, "noise", "", "extra noise-term YAML")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newExplainCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newCoverageCmd(a),
		newPreferencesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}

	// Command-line flags take precedence over file and env.
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		settings.Data.Dataset = a.dataset
	}
	if flags.Changed("dictionary") {
		settings.Data.Dictionary = a.dictionary
	}
	if flags.Changed("noise") {
		settings.Data.Noise = a.noise
	}
	if flags.Changed("log-level") {
		settings.Log.Level = a.logLevel
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	a.settings = settings
	a.log = settings.Log.NewLogger()
	return nil
}

// preference resolves a --preference flag, falling back to the settings.
func (a *app) preference(flag string) (diet.Preference, error) {
	if flag == "" {
		return a.settings.Preference(), nil
	}
	return diet.ParsePreference(flag)
}

// openStore opens the scan history database at path, or returns nil when
// path is empty.
func (a *app) openStore(ctx context.Context, path string) (store.Store, error) {
	if path == "" {
		return nil, nil
	}
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("history store opened", slog.String("path", path))
	return st, nil
}

// buildAnalyzer loads the data files and wires an analyzer. The caller owns
// the returned analyzer and must Close it.
func (a *app) buildAnalyzer(ctx context.Context, historyPath string, m *metrics.Analyzer) (*ingredo.Analyzer, *config.Components, error) {
	comp, err := a.settings.Loader(a.log).Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	st, err := a.openStore(ctx, historyPath)
	if err != nil {
		return nil, nil, err
	}

	opts := ingredo.Options{
		Index:      comp.Index,
		Dictionary: comp.Dictionary,
		Stoplist:   comp.Stoplist,
		Logger:     a.log,
		Metrics:    m,
		Store:      st,
	}
	an, err := ingredo.New(opts)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, nil, fmt.Errorf("build analyzer: %w", err)
	}
	return an, comp, nil
}
