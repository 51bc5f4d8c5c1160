package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	data, err := imageio.Encode(imaging.New(16, 9, c), imageio.MIMEPNG)
	require.NoError(t, err)
	return data
}

// newTestServer returns a server whose enhancer answers with a green image once release
// is closed.
func newTestServer(t *testing.T) (*Server, *session.Session, chan struct{}) {
	t.Helper()
	prompts, err := enhance.DefaultPrompts()
	require.NoError(t, err)
	filters, err := grade.Default()
	require.NoError(t, err)

	release := make(chan struct{})
	result, err := imageio.Decode(pngBytes(t, color.NRGBA{G: 255, A: 255}), imageio.MIMEPNG)
	require.NoError(t, err)
	enhancer := enhance.EnhancerFunc(func(ctx context.Context, _ *imageio.Picture, _ string) (*imageio.Picture, error) {
		select {
		case <-release:
			return result, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	sess := session.New(enhancer, prompts, filters)
	s := NewServer(sess, WithGatherer(prometheus.NewRegistry()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s, sess, release
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	s, _, _ := newTestServer(t)
	rr := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running")
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestLocalOriginsOnly(t *testing.T) {
	s, sess, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		origin string
		allow  bool
	}{
		{"http://localhost:5173", true},
		{"http://127.0.0.1:8080", true},
		{"http://[::1]:3000", true},
		{"https://evil.example", false},
		{"http://localhost.evil.example", false},
		{"null", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/source", bytes.NewReader(pngBytes(t, color.White)))
			req.Header.Set("Content-Type", imageio.MIMEPNG)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if tt.allow {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Equal(t, http.StatusForbidden, rr.Code)
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	sess.Reset()
	req := httptest.NewRequest(http.MethodPost, "/source", bytes.NewReader(pngBytes(t, color.White)))
	req.Header.Set("Origin", "https://evil.example")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, sess.State().HasOriginal(), "foreign page must not change the session")
}

func TestJSONRoutesRequireJSON(t *testing.T) {
	s, sess, _ := newTestServer(t)
	h := s.Handler()
	require.NoError(t, sess.SelectDataURL(imageio.ToDataURL(pngBytes(t, color.White), imageio.MIMEPNG)))

	for _, path := range []string{"/enhance", "/filter"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"mode":"strict","filter":"bw"}`))
		req.Header.Set("Content-Type", "text/plain")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code, path)
	}
	st := sess.State()
	assert.Equal(t, session.StatusIdle, st.Status)
	assert.Equal(t, grade.NoneID, st.Filter)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	s, _, _ := newTestServer(t)
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPreflight(t *testing.T) {
	s, _, _ := newTestServer(t)
	rr := do(t, s.Handler(), http.MethodOptions, "/enhance", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestEnhanceFlow(t *testing.T) {
	s, sess, release := newTestServer(t)
	h := s.Handler()

	rr := do(t, h, http.MethodPost, "/enhance", `{"mode":"strict"}`)
	assert.Equal(t, http.StatusConflict, rr.Code, "no source yet")

	req := httptest.NewRequest(http.MethodPost, "/source", bytes.NewReader(pngBytes(t, color.White)))
	req.Header.Set("Content-Type", imageio.MIMEPNG)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var st StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, session.StatusIdle, st.Status)
	require.NotNil(t, st.Original)
	assert.Equal(t, 16, st.Original.Width)
	assert.Nil(t, st.Processed)

	rr = do(t, h, http.MethodPost, "/enhance", `{"mode":"props"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))
	assert.NotEmpty(t, accepted["job_id"])

	rr = do(t, h, http.MethodPost, "/enhance", "")
	assert.Equal(t, http.StatusConflict, rr.Code, "already running")

	close(release)
	require.Eventually(t, func() bool { return sess.State().Status == session.StatusSuccess }, time.Second, 5*time.Millisecond)

	rr = do(t, h, http.MethodGet, "/status", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, enhance.ModeProps, st.Mode)
	assert.Equal(t, accepted["job_id"], st.JobID)
	require.NotNil(t, st.Processed)

	rr = do(t, h, http.MethodPost, "/filter", `{"filter":"bw"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "realist-enhanced-props-bw.png")
	_, err := png.Decode(rr.Body)
	assert.NoError(t, err)
}

func TestHandlerErrors(t *testing.T) {
	s, _, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"status wrong method", http.MethodPost, "/status", "", http.StatusMethodNotAllowed},
		{"source not an image", http.MethodPost, "/source", "hello", http.StatusUnsupportedMediaType},
		{"enhance bad json", http.MethodPost, "/enhance", "{", http.StatusBadRequest},
		{"enhance bad mode", http.MethodPost, "/enhance", `{"mode":"wild"}`, http.StatusBadRequest},
		{"filter unknown", http.MethodPost, "/filter", `{"filter":"sparkle"}`, http.StatusBadRequest},
		{"export nothing", http.MethodGet, "/export", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestMetrics(t *testing.T) {
	prompts, err := enhance.DefaultPrompts()
	require.NoError(t, err)
	filters, err := grade.Default()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	enhance.NewClient(enhance.StaticKey("k"), enhance.WithRegistry(reg))
	s := NewServer(session.New(nil, prompts, filters), WithGatherer(reg))
	defer s.Stop(context.Background())

	rr := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "realist_enhance_requests_in_flight")
}

func TestWebSocketReceivesState(t *testing.T) {
	s, sess, _ := newTestServer(t)
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	var msg StateMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, "state", msg.Type)
	assert.Equal(t, session.StatusIdle, msg.State.Status)
	assert.Nil(t, msg.State.Original)

	// Keepalives are accepted and ignored.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	require.NoError(t, sess.SelectDataURL(imageio.ToDataURL(pngBytes(t, color.White), imageio.MIMEPNG)))

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, ws.ReadJSON(&msg))
	require.NotNil(t, msg.State.Original)
	assert.Equal(t, 9, msg.State.Original.Height)
}

func TestStopClosesClients(t *testing.T) {
	s, _, _ := newTestServer(t)
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()
	var msg StateMessage
	require.NoError(t, ws.ReadJSON(&msg))

	require.NoError(t, s.Stop(context.Background()))
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = ws.ReadMessage()
	assert.Error(t, err)
}
