package api

import (
	"encoding/json"
	"image/color"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRenders(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), pngBytes(t, color.White), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))
	return dir
}

func TestLocalListing(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.RegisterNamespace("renders", setupRenders(t))
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/local/renders/images?page=1&per_page=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var images []LocalImage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &images))
	require.Len(t, images, 2)
	assert.Equal(t, "a", images[0].ID)
	assert.Equal(t, "b", images[1].ID)
	assert.Contains(t, images[0].URL, "/local/renders/assets/a.png")

	rr = do(t, h, http.MethodGet, "/local/renders/images?page=2&per_page=2", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &images))
	require.Len(t, images, 2)
	assert.Equal(t, "c", images[1].ID)

	rr = do(t, h, http.MethodGet, "/local/renders/images?page=9", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &images))
	assert.Empty(t, images)
}

func TestLocalMissingDirListsNothing(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.RegisterNamespace("gone", filepath.Join(t.TempDir(), "missing"))

	rr := do(t, s.Handler(), http.MethodGet, "/local/gone/images", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestLocalSelect(t *testing.T) {
	s, sess, _ := newTestServer(t)
	s.RegisterNamespace("renders", setupRenders(t))
	h := s.Handler()

	rr := do(t, h, http.MethodPost, "/local/renders/select/a.png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, sess.State().HasOriginal())

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodPost, "/local/renders/select/broken.png", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/local/renders/select/zzz.png", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/local/renders/select/a.png", "").Code)
}

func TestLocalAsset(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.RegisterNamespace("renders", setupRenders(t))

	rr := do(t, s.Handler(), http.MethodGet, "/local/renders/assets/a.png", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
}

func TestLocalRejectsBadPaths(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.RegisterNamespace("renders", setupRenders(t))
	h := s.Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/local/unknown/images", http.StatusNotFound},
		{"/local/renders", http.StatusBadRequest},
		{"/local/renders/assets", http.StatusBadRequest},
		{"/local/renders/assets/notes.txt", http.StatusBadRequest},
		{"/local/renders/assets/a.png/extra", http.StatusBadRequest},
		{"/local/renders/rename/a.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, h, http.MethodGet, tt.path, "").Code)
		})
	}
}

func TestResolveInRoot(t *testing.T) {
	root := t.TempDir()
	p, err := resolveInRoot(root, "render.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "render.png"), p)

	for _, name := range []string{"", ".", "..", "../x.png", `..\x.png`, "a/b.png"} {
		_, err := resolveInRoot(root, name)
		assert.Error(t, err, name)
	}
}
