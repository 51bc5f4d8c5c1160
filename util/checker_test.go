package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v63/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReleaseClient(t *testing.T, status int, body string) *github.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/"+githubOwner+"/"+githubRepo+"/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return client
}

func TestCheckForUpdatesWithClient(t *testing.T) {
	tests := []struct {
		name           string
		currentVersion string
		status         int
		body           string
		expectUpdate   bool
		expectLatest   string
		expectError    bool
	}{
		{
			name:           "newer release",
			currentVersion: "0.1.0",
			status:         http.StatusOK,
			body:           `{"tag_name": "v0.2.0", "html_url": "https://example.com/r", "body": "notes"}`,
			expectUpdate:   true,
			expectLatest:   "v0.2.0",
		},
		{
			name:           "same release",
			currentVersion: "v0.2.0",
			status:         http.StatusOK,
			body:           `{"tag_name": "0.2.0"}`,
			expectLatest:   "v0.2.0",
		},
		{
			name:           "local build ahead",
			currentVersion: "v1.0.0",
			status:         http.StatusOK,
			body:           `{"tag_name": "v0.9.1"}`,
			expectLatest:   "v0.9.1",
		},
		{
			name:           "tag is not a version",
			currentVersion: "v1.0.0",
			status:         http.StatusOK,
			body:           `{"tag_name": "nightly"}`,
			expectError:    true,
		},
		{
			name:           "no releases",
			currentVersion: "v1.0.0",
			status:         http.StatusNotFound,
			body:           `{"message": "Not Found"}`,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newReleaseClient(t, tt.status, tt.body)
			result, err := CheckForUpdatesWithClient(context.Background(), client, tt.currentVersion)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectUpdate, result.UpdateAvailable)
			assert.Equal(t, tt.expectLatest, result.LatestVersion)
		})
	}
}

func TestCheckForUpdatesResultFields(t *testing.T) {
	client := newReleaseClient(t, http.StatusOK, `{"tag_name": "v3.0.0", "html_url": "https://example.com/v3", "body": "Faster."}`)
	result, err := CheckForUpdatesWithClient(context.Background(), client, "2.9.9")
	require.NoError(t, err)
	assert.Equal(t, "v2.9.9", result.CurrentVersion)
	assert.Equal(t, "https://example.com/v3", result.ReleaseURL)
	assert.Equal(t, "Faster.", result.ReleaseNotes)
}
