package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/util/log"
)

// resolveInRoot joins name onto root and enforces that the result stays inside root.
func resolveInRoot(rootPath, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid name %q", name)
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid namespace root: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	absPath := filepath.Clean(filepath.Join(absRoot, name))
	if !strings.HasPrefix(absPath, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return absPath, nil
}

// handleLocal routes render folder requests.
// Path format: /local/{namespace}/{action}[/{filename}]
//  1. list:   GET  /local/{namespace}/images?page=1&per_page=24
//  2. asset:  GET  /local/{namespace}/assets/{filename}
//  3. select: POST /local/{namespace}/select/{filename}
func (s *Server) handleLocal(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/local/"), "/")
	if len(parts) < 2 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	rootPath, ok := s.namespaces[parts[0]]
	if !ok {
		http.Error(w, "Namespace not found", http.StatusNotFound)
		return
	}

	action := parts[1]
	if action == "images" {
		if allowMethod(w, r, http.MethodGet) {
			s.handleLocalListing(w, r, rootPath, parts[0])
		}
		return
	}

	if len(parts) != 3 {
		http.Error(w, "Missing filename", http.StatusBadRequest)
		return
	}
	path, err := resolveInRoot(rootPath, parts[2])
	if err != nil || !imageio.IsImageFile(path) {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	switch action {
	case "assets":
		if allowMethod(w, r, http.MethodGet) {
			http.ServeFile(w, r, path)
		}
	case "select":
		if allowMethod(w, r, http.MethodPost) {
			s.handleLocalSelect(w, path)
		}
	default:
		http.Error(w, "Unknown action", http.StatusNotFound)
	}
}

// LocalImage is a listed render.
type LocalImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (s *Server) handleLocalListing(w http.ResponseWriter, r *http.Request, rootPath, namespace string) {
	page := 1
	perPage := 24
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 {
		perPage = pp
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusOK, []LocalImage{})
			return
		}
		http.Error(w, "Failed to read directory", http.StatusInternalServerError)
		return
	}

	var images []string
	for _, e := range entries {
		if !e.IsDir() && imageio.IsImageFile(e.Name()) {
			images = append(images, e.Name())
		}
	}
	sort.Strings(images)

	start := min((page-1)*perPage, len(images))
	end := min(start+perPage, len(images))

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	result := make([]LocalImage, 0, end-start)
	for _, name := range images[start:end] {
		result = append(result, LocalImage{
			ID:  strings.TrimSuffix(name, filepath.Ext(name)),
			URL: fmt.Sprintf("%s://%s/local/%s/assets/%s", scheme, r.Host, namespace, name),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLocalSelect(w http.ResponseWriter, path string) {
	if err := s.session.SelectFile(path); err != nil {
		log.Printf("Failed to select %s: %v", filepath.Base(path), err)
		code := http.StatusUnprocessableEntity
		if errors.Is(err, os.ErrNotExist) {
			code = http.StatusNotFound
		}
		http.Error(w, "Could not open image", code)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(s.session.State()))
}
