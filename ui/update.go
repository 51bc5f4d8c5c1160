package ui

import (
	"context"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/util"
	"github.com/dixieflatline76/Realist/util/log"
)

// CheckForUpdatesOnStart checks for a newer release in the background if the user allows it.
func (ra *RealistApp) CheckForUpdatesOnStart() {
	if !ra.cfg.GetUpdateCheckEnabled() {
		return
	}
	go ra.CheckForUpdates(context.Background(), false)
}

// CheckForUpdates looks up the latest release and links it in the header when it is newer.
// With notify set the outcome is also shown in a dialog. It blocks.
func (ra *RealistApp) CheckForUpdates(ctx context.Context, notify bool) {
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	result, err := util.CheckForUpdates(ctx)
	fyne.Do(func() {
		if err != nil {
			log.Printf("Update check failed: %v", err)
			if notify {
				ra.showError(err)
			}
			return
		}
		ra.update = result
		ra.render(ra.shown)
		if !notify {
			return
		}
		if result.UpdateAvailable {
			dialog.ShowInformation("Update Available",
				fmt.Sprintf("%s %s is available. You are running %s.", config.AppName, result.LatestVersion, result.CurrentVersion), ra.window)
		} else {
			dialog.ShowInformation("No Updates",
				fmt.Sprintf("%s %s is the latest version.", config.AppName, result.CurrentVersion), ra.window)
		}
	})
}

func newReleaseLink(r *util.CheckForUpdatesResult) *widget.Hyperlink {
	if r.ReleaseURL == "" {
		return nil
	}
	u, err := url.Parse(r.ReleaseURL)
	if err != nil {
		log.Printf("Invalid release URL %q: %v", r.ReleaseURL, err)
		return nil
	}
	return widget.NewHyperlink(updateLinkPrefix+r.LatestVersion, u)
}
