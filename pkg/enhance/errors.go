package enhance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini API key is missing")
	// ErrNoImage is returned when the model answers without an image.
	ErrNoImage = errors.New("model returned no image")
)

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// UserMessage turns an enhancement error into text for the error card.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "Add a Gemini API key in Settings to enhance images."
	case errors.Is(err, ErrNoImage):
		return "The model did not return an image. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	case errors.Is(err, context.Canceled):
		return "The request was canceled."
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return "The API key was rejected. Check it in Settings."
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return "Too many requests. Wait a moment and try again."
		case apiErr.Message != "":
			return "The model service reported an error: " + apiErr.Message
		}
	}
	return "Processing failed. Please try again."
}
