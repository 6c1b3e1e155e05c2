package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pengviz/internal/export"
	"github.com/san-kum/pengviz/internal/scenario"
	"github.com/san-kum/pengviz/internal/session"
)

var snapshotDir string

func snapshotStore() *export.Store {
	dir := cfg.Export.Dir
	if snapshotDir != "" {
		dir = snapshotDir
	}
	return export.New(dir, export.WithLogger(logger), export.WithImageSize(cfg.ImageSize()))
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "render every output into a snapshot directory",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			st := snapshotStore()
			if err := st.Init(); err != nil {
				return err
			}
			meta, err := st.Save(ctx, sess)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "snapshot: %s\n", meta.ID)
			fmt.Fprintf(out, "rows: %d\n", meta.Rows)
			for _, name := range sortedKeys(meta.Files) {
				fmt.Fprintf(out, "  %s\n", st.Path(meta.ID, meta.Files[name]))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotDir, "dir", "", "snapshot directory (default from config)")
	return cmd
}

func newSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "list saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := snapshotStore().List()
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no snapshots found")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tSOURCE\tROWS\tSPECIES\tATTRIBUTE")
			for _, m := range metas {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					m.ID,
					m.Timestamp.Format("2006-01-02 15:04:05"),
					m.Source,
					m.Rows,
					m.Inputs[session.InputSpecies],
					m.Inputs[session.InputAttribute],
				)
			}
			return w.Flush()
		},
	}
	cmd.PersistentFlags().StringVar(&snapshotDir, "dir", "", "snapshot directory (default from config)")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print snapshot metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := snapshotStore().Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}
	cmd.AddCommand(showCmd)
	return cmd
}

func newReplayCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "replay [scenario]",
		Short: "run a scripted input scenario and report recomputations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list || len(args) == 0 {
				fmt.Fprintln(out, "builtin scenarios:")
				for _, name := range scenario.Builtin() {
					fmt.Fprintf(out, "  %s\n", name)
				}
				return nil
			}
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			in, err := startInputs(cmd, nil)
			if err != nil {
				return err
			}
			sess := session.New(ds, in, session.WithLogger(logger))
			defer sess.Close()

			report, runErr := scenario.Run(cmd.Context(), sess, sc, logger)

			fmt.Fprintf(out, "scenario: %s\n", sc.Name)
			if sc.Description != "" {
				fmt.Fprintf(out, "%s\n", sc.Description)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\nSTEP\tINPUT\tVALUE\tCHANGED\tROWS\tRECOMPUTED")
			for _, st := range report.Steps {
				fmt.Fprintf(w, "%d\t%s\t%q\t%t\t%d\t%s\n",
					st.Step, st.Input, st.Value, st.Changed, st.Rows, strings.Join(st.Recomputed, ","))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if errors.Is(runErr, scenario.ErrExpectation) {
				fmt.Fprintln(out, "FAIL")
			} else if runErr == nil {
				fmt.Fprintln(out, "ok")
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list builtin scenarios")
	return cmd
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
