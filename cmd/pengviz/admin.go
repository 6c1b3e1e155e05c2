package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/pengviz/internal/config"
	"github.com/san-kum/pengviz/internal/dataset"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available view presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(out, "  %-10s %s\n", name, config.GetPreset(name).Description)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pengviz.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "database helpers",
	}
	var driver, dsn, table string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "copy the loaded dataset into a sqlite or postgres table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return errors.New("--to is required")
			}
			var drv string
			switch driver {
			case "sqlite":
				drv = dataset.DriverSQLite
			case "postgres":
				drv = dataset.DriverPostgres
			default:
				return fmt.Errorf("unknown driver: %s", driver)
			}
			ctx := cmd.Context()
			ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}
			if err := dataset.WriteSQL(ctx, drv, dsn, table, ds.All().Records()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows from %s\n", ds.Len(), ds.Source())
			return nil
		},
	}
	seedCmd.Flags().StringVar(&driver, "driver", "sqlite", "target driver: sqlite or postgres")
	seedCmd.Flags().StringVar(&dsn, "to", "", "target dsn (sqlite path or postgres url)")
	seedCmd.Flags().StringVar(&table, "into", dataset.DefaultTable, "target table")
	cmd.AddCommand(seedCmd)
	return cmd
}
