package enhance

import (
	"net/http"
)

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip sets the User-Agent on a clone of req.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.RoundTripper
	if next == nil {
		next = http.DefaultTransport
	}
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return next.RoundTrip(clonedReq)
}
