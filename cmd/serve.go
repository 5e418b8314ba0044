package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magellan-group/report-triage/internal/auth"
	"github.com/magellan-group/report-triage/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the triage API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer records.Close()

		if err := records.Migrate(ctx); err != nil {
			return err
		}

		svc, blobs, err := initService(ctx, records)
		if err != nil {
			return err
		}

		verifier, err := auth.NewVerifier(cfg.Auth)
		if err != nil {
			return err
		}

		serverCfg := cfg.Server
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}

		srv := server.New(serverCfg, verifier, svc, records, blobs)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
