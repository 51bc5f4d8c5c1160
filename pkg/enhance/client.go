package enhance

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/imageio"
	"github.com/dixieflatline76/Realist/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 << 10

// KeyFunc returns the API key to use for the next request.
type KeyFunc func() string

// StaticKey returns a KeyFunc for a fixed key.
func StaticKey(key string) KeyFunc {
	return func() string { return key }
}

// Client calls the Gemini generateContent endpoint with an inline image and a text
// prompt and expects an inline image back.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	keys       KeyFunc
	timeout    time.Duration
	limiter    *rate.Limiter
	metrics    *metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. Its transport is wrapped to add a User-Agent.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithEndpoint sets the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(cl *Client) {
		if endpoint != "" {
			cl.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(cl *Client) {
		if model != "" {
			cl.model = model
		}
	}
}

// WithTimeout bounds every request. Zero means no limit beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// WithRateLimit allows at most perMinute requests a minute. Zero disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(cl *Client) {
		if perMinute <= 0 {
			cl.limiter = nil
			return
		}
		cl.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithRegistry registers the client metrics on reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(cl *Client) { cl.metrics = newMetrics(reg) }
}

// NewClient creates a Client reading its API key from keys on every request.
func NewClient(keys KeyFunc, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		endpoint:   config.DefaultEndpoint,
		model:      config.DefaultModel,
		keys:       keys,
		timeout:    2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}

	// Copy so the caller's client keeps its own transport.
	hc := *c.httpClient
	hc.Transport = &UserAgentTransport{
		RoundTripper: hc.Transport,
		UserAgent:    config.AppName + "/" + config.AppVersion,
	}
	c.httpClient = &hc
	return c
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Enhance implements Enhancer.
func (c *Client) Enhance(ctx context.Context, src *imageio.Picture, prompt string) (*imageio.Picture, error) {
	if src == nil || len(src.Data) == 0 {
		return nil, fmt.Errorf("enhance: empty source image")
	}
	key := ""
	if c.keys != nil {
		key = strings.TrimSpace(c.keys())
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limit: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	c.metrics.inFlight.Inc()
	defer c.metrics.inFlight.Dec()

	pic, err := c.generate(ctx, key, src, prompt)
	c.metrics.duration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	c.metrics.requests.WithLabelValues(c.model, outcome(err)).Inc()
	if err != nil {
		log.Printf("Enhancement with %s failed after %s: %v", c.model, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	log.Debugf("Enhancement with %s finished in %s", c.model, time.Since(start).Round(time.Millisecond))
	return pic, nil
}

func (c *Client) generate(ctx context.Context, key string, src *imageio.Picture, prompt string) (*imageio.Picture, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MIMEType: src.MIMEType, Data: base64.StdEncoding.EncodeToString(src.Data)}},
				{Text: prompt},
			},
		}},
		GenerationConfig: generationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	c.metrics.bytesOut.Add(float64(len(src.Data)))

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	log.Debugf("Sending %d byte %s to %s", len(src.Data), src.MIMEType, c.model)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return extractImage(gr)
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if json.Unmarshal(data, &er) == nil && er.Error.Message != "" {
		apiErr.Message = er.Error.Message
		if er.Error.Status != "" {
			apiErr.Status = er.Error.Status
		}
	}
	return apiErr
}

func extractImage(gr generateResponse) (*imageio.Picture, error) {
	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked (%s): %w", gr.PromptFeedback.BlockReason, ErrNoImage)
	}
	var text []string
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				if p.Text != "" {
					text = append(text, p.Text)
				}
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image data: %w", err)
			}
			return imageio.Decode(data, p.InlineData.MIMEType)
		}
	}
	if len(text) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, strings.Join(text, " "))
	}
	return nil, ErrNoImage
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &apiErr):
		return outcomeAPIError
	case errors.Is(err, ErrNoImage):
		return outcomeNoImage
	}
	return outcomeFailed
}
