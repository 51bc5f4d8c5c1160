package util

import (
	"context"
	"fmt"
	"strings"

	"github.com/dixieflatline76/Realist/config"
	"github.com/google/go-github/v63/github"
	"golang.org/x/mod/semver"
)

const (
	githubOwner = "dixieflatline76"
	githubRepo  = "Realist"
)

// CheckForUpdatesResult holds the outcome of the update check.
type CheckForUpdatesResult struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	ReleaseNotes    string
}

// CheckForUpdates polls GitHub for the latest stable release and compares it with
// config.AppVersion.
func CheckForUpdates(ctx context.Context) (*CheckForUpdatesResult, error) {
	return CheckForUpdatesWithClient(ctx, github.NewClient(nil), config.AppVersion)
}

// CheckForUpdatesWithClient compares currentVersion with the latest release reported by client.
func CheckForUpdatesWithClient(ctx context.Context, client *github.Client, currentVersion string) (*CheckForUpdatesResult, error) {
	release, _, err := client.Repositories.GetLatestRelease(ctx, githubOwner, githubRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest GitHub release: %w", err)
	}

	current := canonicalVersion(currentVersion)
	latest := canonicalVersion(release.GetTagName())
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("latest release tag %q is not a semantic version", release.GetTagName())
	}

	return &CheckForUpdatesResult{
		UpdateAvailable: semver.Compare(latest, current) > 0,
		CurrentVersion:  current,
		LatestVersion:   latest,
		ReleaseURL:      release.GetHTMLURL(),
		ReleaseNotes:    release.GetBody(),
	}, nil
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
