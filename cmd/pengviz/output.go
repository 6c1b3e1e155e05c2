package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pengviz/internal/reactive"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

var (
	format  string
	outFile string
	width   int
	height  int
	bins    string
	static  bool
)

func addOutputFlags(cmd *cobra.Command, def render.Format) {
	cmd.Flags().StringVarP(&format, "format", "f", string(def), "output format: text, html, json, png, svg")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 0, "width in pixels (images) or cells (text)")
	cmd.Flags().IntVar(&height, "height", 0, "height in pixels (images) or cells (text)")
}

func newTableCmd() *cobra.Command {
	var grid bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "print the filtered data table",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := render.OutputDataTable
			if grid {
				name = render.OutputDataGrid
			}
			return renderOutput(cmd, name, nil)
		},
	}
	cmd.Flags().BoolVar(&grid, "grid", false, "render the paged data grid")
	addOutputFlags(cmd, render.FormatText)
	return cmd
}

func newHistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hist",
		Short: "histogram of the selected attribute by species",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := render.OutputInteractiveHistogram, session.InputInteractiveBins
			if static {
				name, input = render.OutputStaticHistogram, session.InputStaticBins
			}
			var extra map[string]string
			if cmd.Flags().Changed("bins") {
				extra = map[string]string{input: bins}
			}
			return renderOutput(cmd, name, extra)
		},
	}
	cmd.Flags().StringVar(&bins, "bins", "", "bin count; 0 or invalid picks one automatically")
	cmd.Flags().BoolVar(&static, "static", false, "render the static histogram")
	addOutputFlags(cmd, render.FormatText)
	return cmd
}

func newScatterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "bill depth vs bill length scatterplot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderOutput(cmd, render.OutputScatterplot, nil)
		},
	}
	addOutputFlags(cmd, render.FormatText)
	return cmd
}

// renderOutput computes one output statelessly and encodes it.
func renderOutput(cmd *cobra.Command, name string, extra map[string]string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	in, err := startInputs(cmd, extra)
	if err != nil {
		return err
	}
	a, err := in.Render(in.Filter(ds), name)
	if err != nil {
		return err
	}

	size := cfg.ImageSize()
	if f == render.FormatText {
		size = render.DefaultTextSize
	}
	if width > 0 {
		size.Width = width
	}
	if height > 0 {
		size.Height = height
	}

	return withOutput(cmd, func(w io.Writer) error {
		if err := render.Encode(w, a, f, size); err != nil {
			return err
		}
		if f == render.FormatText {
			_, err := fmt.Fprintln(w)
			return err
		}
		return nil
	})
}

func withOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	if outFile == "" {
		return fn(cmd.OutOrStdout())
	}
	file, err := os.Create(outFile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := fn(w); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Sugar().Infof("wrote %s", outFile)
	return nil
}

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "show the reactive dependency graph",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			sess.Flush()
			runs := sess.Runs()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NODE\tKIND\tREADS\tRUNS")
			for _, n := range sess.Graph() {
				count := "-"
				if n.Kind != reactive.KindInput {
					count = strconv.Itoa(runs[n.Name])
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", n.Name, n.Kind, n.Deps, count)
			}
			return w.Flush()
		},
	}
}
