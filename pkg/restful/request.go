package restful

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	// ContentType is the content type sent with every backend request.
	ContentType = "application/json;charset=UTF-8"

	// Accept is the accepted response media type.
	Accept = "application/json"
)

// Credentials is the username/password pair used for basic authentication.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}

// NewRequest builds a request carrying the JSON headers the backend expects
// and, when creds is not zero, basic authentication.
func NewRequest(ctx context.Context, method, target string, creds Credentials, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", Accept)

	if !creds.IsZero() {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	return req, nil
}

// ParseBaseURL validates an endpoint and makes sure its path ends with a slash
// so relative hrefs resolve beneath it.
func ParseBaseURL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: missing host", endpoint)
	}

	// credentials embedded in the URL are not honored, they go in the header
	u.User = nil

	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}

	return u, nil
}

// Resolve resolves href against base. Absolute hrefs are returned as is.
func Resolve(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("parse href %q: %w", href, err)
	}

	return base.ResolveReference(ref), nil
}
