package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/Realist/config"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr, renders string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local API without a window",
		Long: `Run a session behind the local HTTP API only. Images are uploaded to /source,
enhanced through /enhance and fetched from /export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBackend(config.NewAppConfig(app.NewWithID(config.AppID).Preferences()))
			if err != nil {
				return err
			}
			if addr != "" {
				b.env.API.Addr = addr
			}
			if renders != "" {
				b.env.API.Renders = renders
			}
			srv := newAPIServer(b)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Stop(shutdown)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAPIAddr+")")
	cmd.Flags().StringVar(&renders, "renders", "", "directory exposed as the renders namespace")
	return cmd
}
