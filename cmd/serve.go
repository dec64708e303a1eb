package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iqfinance/intel-dashboard/internal/export"
	"github.com/iqfinance/intel-dashboard/internal/render"
	"github.com/iqfinance/intel-dashboard/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and analysis API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := newServer()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		return srv.ListenAndServe(ctx, port)
	},
}

func newServer() (*server.Server, error) {
	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}
	html, err := render.NewHTML()
	if err != nil {
		return nil, err
	}
	return server.New(cfg, server.Deps{
		Analyzer: svc,
		Brands:   newBrands(cfg.Brand),
		HTML:     html,
		PDF:      export.NewChromePDF(cfg.Export),
	}), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
