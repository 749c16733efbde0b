package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetlens/internal/server"
	"github.com/KaramelBytes/sheetlens/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			c.HTTPAddr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logger.WithContext(ctx)

		store, err := openStore(c)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer store.Close()

		srv := server.New(store, server.Options{
			CORSOrigins:    c.CORSOrigins,
			MaxUploadMB:    c.MaxUploadMB,
			RequestTimeout: c.RequestTimeout(),
		}, logger)

		go session.RunJanitor(ctx, store, c.SweepInterval())

		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe(c.HTTPAddr) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownGrace())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errc
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config http_addr)")
}
