package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/dixieflatline76/Realist/util/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PictureInfo describes one side of the comparison.
type PictureInfo struct {
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// StatusResponse is the JSON form of a session snapshot.
type StatusResponse struct {
	Status    session.Status `json:"status"`
	Message   string         `json:"message,omitempty"`
	Mode      enhance.Mode   `json:"mode"`
	Filter    string         `json:"filter"`
	JobID     string         `json:"job_id,omitempty"`
	Original  *PictureInfo   `json:"original,omitempty"`
	Processed *PictureInfo   `json:"processed,omitempty"`
}

// StateMessage is pushed to WebSocket clients on every change.
type StateMessage struct {
	Type  string         `json:"type"`
	State StatusResponse `json:"state"`
}

func pictureInfo(p *imageio.Picture) *PictureInfo {
	if p == nil {
		return nil
	}
	w, h := p.Size()
	return &PictureInfo{MIMEType: p.MIMEType, Width: w, Height: h}
}

func statusResponse(st session.State) StatusResponse {
	return StatusResponse{
		Status:    st.Status,
		Message:   st.Message,
		Mode:      st.Mode,
		Filter:    st.Filter,
		JobID:     st.JobID,
		Original:  pictureInfo(st.Original),
		Processed: pictureInfo(st.Processed),
	}
}

func stateMessage(st session.State) StateMessage {
	return StateMessage{Type: "state", State: statusResponse(st)}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// requireJSON rejects bodies that are not declared as JSON. Browsers cannot send that
// content type across origins without a preflight.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	return true
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": config.AppVersion,
	})
}

// handleStatus returns the current session snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(s.session.State()))
}

// handleSource replaces the original with the image in the request body.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, imageio.MaxFileSize))
	if err != nil {
		http.Error(w, "Image too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	pic, err := imageio.Decode(data, r.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, imageio.ErrTooManyPixels):
		http.Error(w, "Image dimensions too large", http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		http.Error(w, "Unsupported image", http.StatusUnsupportedMediaType)
		return
	}
	if err := s.session.Select(pic); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(s.session.State()))
}

// handleEnhance starts an enhancement and answers before it finishes.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	req := struct {
		Mode string `json:"mode"`
	}{Mode: string(enhance.ModeStrict)}
	if r.ContentLength != 0 {
		if !requireJSON(w, r) {
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	mode, err := enhance.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The request context ends with this handler; the job outlives it.
	id, err := s.session.Start(context.WithoutCancel(r.Context()), mode)
	switch {
	case errors.Is(err, session.ErrNoSource):
		http.Error(w, "No source image", http.StatusConflict)
		return
	case errors.Is(err, session.ErrBusy):
		http.Error(w, "Enhancement already running", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": id})
}

// handleFilter selects the color grade.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if !requireJSON(w, r) {
		return
	}
	var req struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.session.SetFilter(req.Filter); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, grade.ErrUnknownFilter) {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse(s.session.State()))
}

// handleExport streams the graded result as PNG.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if !s.session.State().HasProcessed() {
		http.Error(w, session.ErrNothingToExport.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", imageio.MIMEPNG)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.session.ExportFileName()))
	if err := s.session.Export(w); err != nil {
		log.Printf("Export failed: %v", err)
	}
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

// handleWebSocket upgrades the connection and pushes the current state, then every change.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteJSON(stateMessage(s.session.State()))
	if err == nil {
		s.clients[conn] = true
	}
	s.clientsMu.Unlock()
	if err != nil {
		log.Printf("WebSocket greeting failed: %v", err)
		return
	}

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		// Clients only send keepalives.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
