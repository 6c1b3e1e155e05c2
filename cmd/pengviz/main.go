package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/pengviz/internal/config"
	"github.com/san-kum/pengviz/internal/dataset"
	"github.com/san-kum/pengviz/internal/session"
	"github.com/san-kum/pengviz/internal/tui"
)

var (
	configFile   string
	verbose      bool
	datasetKind  string
	datasetPath  string
	datasetDSN   string
	datasetTable string
	preset       string
	theme        string

	species   string
	attribute string

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pengviz",
		Short: "interactive penguin dataset dashboard",
		Long: `pengviz explores the Palmer penguins dataset through a small reactive
dashboard: a data table, a data grid, two histograms of one measurement and
a bill scatterplot, all filtered by species.

Run without arguments to start the terminal dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runDashboard,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&datasetKind, "source", "", "dataset source: embedded, file, sqlite, postgres, s3")
	pf.StringVar(&datasetPath, "data", "", "dataset path (csv file or sqlite database)")
	pf.StringVar(&datasetDSN, "dsn", "", "dataset database dsn")
	pf.StringVar(&datasetTable, "table", "", "dataset table name")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&species, "species", "", "comma-separated species selection")
	pf.StringVar(&attribute, "attribute", "", "histogram attribute")

	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	rootCmd.AddCommand(
		newTableCmd(),
		newHistCmd(),
		newScatterCmd(),
		newGraphCmd(),
		newServeCmd(),
		newExportCmd(),
		newSnapshotsCmd(),
		newReplayCmd(),
		newPresetsCmd(),
		newConfigCmd(),
		newDBCmd(),
	)
	return rootCmd
}

// setup loads the config, applies environment and flag overrides, and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Dataset.Kind = datasetKind
	}
	if flags.Changed("data") {
		cfg.Dataset.Path = datasetPath
		if !flags.Changed("source") && cfg.Dataset.Kind == string(dataset.KindEmbedded) {
			cfg.Dataset.Kind = string(dataset.KindFile)
		}
	}
	if flags.Changed("dsn") {
		cfg.Dataset.DSN = datasetDSN
	}
	if flags.Changed("table") {
		cfg.Dataset.Table = datasetTable
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Inputs = p.Inputs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The dashboard owns the terminal; log only when asked to.
	if cmd.Root() == cmd && !verbose {
		logger = zap.NewNop()
		return nil
	}
	l, err := buildLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

func buildLogger(lc config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// loadDataset reads the configured source. Every command needs the data,
// so a failure here ends the process.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	src, err := dataset.Open(ctx, cfg.DatasetSpec())
	if err != nil {
		return nil, err
	}
	return dataset.Load(ctx, src, logger)
}

// startInputs resolves the configured inputs with --species and
// --attribute applied on top. extra carries command specific values.
func startInputs(cmd *cobra.Command, extra map[string]string) (session.Inputs, error) {
	base, err := cfg.SessionInputs()
	if err != nil {
		return session.Inputs{}, err
	}
	values := make(map[string]string, len(extra)+2)
	if cmd.Flags().Changed("species") {
		values[session.InputSpecies] = species
	}
	if cmd.Flags().Changed("attribute") {
		values[session.InputAttribute] = attribute
	}
	for k, v := range extra {
		values[k] = v
	}
	return session.ParseInputs(base, values)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}
	in, err := startInputs(cmd, nil)
	if err != nil {
		return err
	}
	sess := session.New(ds, in, session.WithLogger(logger))
	defer sess.Close()
	return tui.Run(sess, tui.WithTheme(theme))
}
