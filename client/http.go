package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core/user"
)

const defaultTimeout = 15 * time.Second

// HTTPTransport implements Transport against the REST API. The session
// credential is the session cookie, held in the client's jar; it is never
// exposed to callers.
type HTTPTransport struct {
	base   string
	client *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(baseURL string) (*HTTPTransport, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	return &HTTPTransport{
		base: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
	}, nil
}

func (t *HTTPTransport) CurrentIdentity(ctx context.Context) (Identity, error) {
	var identity Identity
	code, err := t.do(ctx, http.MethodGet, "/v1/auth/me", nil, &identity)
	if err != nil || code != http.StatusOK {
		return Identity{}, ErrNotAuthenticated
	}
	return identity, nil
}

func (t *HTTPTransport) Login(ctx context.Context, userID int, pin string) (Identity, error) {
	body := map[string]interface{}{"user_id": userID, "pin": pin}
	var resp struct {
		User Identity `json:"user"`
	}

	code, err := t.do(ctx, http.MethodPost, "/v1/auth/login", body, &resp)
	switch {
	case err != nil:
		return Identity{}, ErrServerUnavailable
	case code >= 200 && code < 300:
		return resp.User, nil
	case code >= 400 && code < 500:
		return Identity{}, ErrInvalidCredential
	default:
		return Identity{}, ErrServerUnavailable
	}
}

func (t *HTTPTransport) Logout(ctx context.Context) error {
	code, err := t.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	if err != nil {
		return ErrServerUnavailable
	}
	if code >= 400 {
		return ErrServerUnavailable
	}
	return nil
}

func (t *HTTPTransport) PublicClasses(ctx context.Context) []ClassOption {
	var classes []ClassOption
	if code, err := t.do(ctx, http.MethodGet, "/v1/classes/public", nil, &classes); err != nil || code != http.StatusOK {
		return []ClassOption{}
	}
	if classes == nil {
		classes = []ClassOption{}
	}
	return classes
}

func (t *HTTPTransport) PublicCandidates(ctx context.Context, role user.Role, className string) []Candidate {
	q := url.Values{"role": {role.String()}}
	if className != "" {
		q.Set("class_name", className)
	}

	var candidates []Candidate
	if code, err := t.do(ctx, http.MethodGet, "/v1/users/public?"+q.Encode(), nil, &candidates); err != nil || code != http.StatusOK {
		return []Candidate{}
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return candidates
}

// do performs one request and decodes a 2xx JSON body into out (when out is
// non-nil). It returns the status code; transport-level failures (DNS,
// refused connections, timeouts) come back as an error.
func (t *HTTPTransport) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = new(bytes.Buffer)
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return 0, errors.Wrap(err, "encoding request body")
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.base+path, reqBody)
	if err != nil {
		return 0, errors.Wrap(err, "creating request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "decoding response body")
		}
	}
	return resp.StatusCode, nil
}
