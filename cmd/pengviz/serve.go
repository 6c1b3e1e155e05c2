package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/pengviz/internal/metrics"
	"github.com/san-kum/pengviz/internal/server"
	"github.com/san-kum/pengviz/internal/session"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the dashboard over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ds, err := loadDataset(ctx)
			if err != nil {
				return err
			}
			in, err := startInputs(cmd, nil)
			if err != nil {
				return err
			}

			m := metrics.New()
			m.ObserveDataset(ds)
			mgr := session.NewManager(ds, in, cfg.Server.SessionTTL,
				session.WithLogger(logger), session.WithMetrics(m))

			srv := server.New(server.Config{
				Addr:            cfg.Server.Addr,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				SweepInterval:   cfg.Server.SweepInterval,
				ImageSize:       cfg.ImageSize(),
			}, mgr, m, logger)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
