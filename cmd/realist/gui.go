package main

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/api"
	"github.com/dixieflatline76/Realist/ui"
	"github.com/dixieflatline76/Realist/util/log"
)

// runGUI runs the desktop application until its window closes.
func runGUI() error {
	locked, err := acquireLock()
	if err != nil {
		return err
	}
	if !locked {
		return errors.New(config.AppName + " is already running")
	}
	defer releaseLock()

	a := app.NewWithID(config.AppID)
	b, err := newBackend(config.NewAppConfig(a.Preferences()))
	if err != nil {
		return err
	}

	ra := ui.NewRealistApp(a, b.cfg, b.session)

	if b.env.API.Enabled || b.cfg.GetAPIServerEnabled() {
		srv := newAPIServer(b)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("Local API stopped: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				log.Printf("Failed to stop local API: %v", err)
			}
		}()
	}

	ra.CheckForUpdatesOnStart()
	ra.Run()
	return nil
}

func newAPIServer(b *backend) *api.Server {
	srv := api.NewServer(b.session, api.WithAddr(b.env.API.Addr), api.WithGatherer(b.registry))
	if b.env.API.Renders != "" {
		srv.RegisterNamespace("renders", b.env.API.Renders)
	}
	return srv
}
