// Package backend implements plan.Repository against the remote plans API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javiermolinar/moodplan/internal/plan"
	"github.com/javiermolinar/moodplan/internal/session"
)

// DefaultBaseURL is where the backend listens in a local setup.
const DefaultBaseURL = "http://localhost:8000"

// ErrUnauthorized is returned for 401 responses.
var ErrUnauthorized = errors.New("backend rejected the session token")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps well-known statuses onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return plan.ErrPlanNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Client talks to the plans endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
}

var _ plan.Repository = (*Client)(nil)

// New creates a client. A zero timeout uses 30 seconds.
func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
	}
}

// CreatePlan posts a new plan and copies the server-assigned fields back onto p.
func (c *Client) CreatePlan(ctx context.Context, p *plan.Plan) error {
	var created planJSON
	if err := c.do(ctx, http.MethodPost, "/plans/", nil, toCreateJSON(p), &created); err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}

	got, err := created.toPlan()
	if err != nil {
		return err
	}
	if !created.hasDate() && !p.ScheduledDate.IsZero() {
		got.ScheduledDate = p.ScheduledDate
	}
	*p = *got
	return nil
}

// GetPlan fetches a single plan.
func (c *Client) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	var body planJSON
	if err := c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id), nil, nil, &body); err != nil {
		return nil, fmt.Errorf("getting plan %s: %w", id, err)
	}
	return body.toPlan()
}

// ListPlans fetches the user's plans. Category and status are filtered by the
// server; the date filter is applied locally.
func (c *Client) ListPlans(ctx context.Context, f plan.Filter) ([]*plan.Plan, error) {
	query := url.Values{}
	if f.Category != nil {
		query.Set("category", string(*f.Category))
	}
	if f.Status != nil {
		query.Set("status", string(*f.Status))
	}

	var body planListJSON
	if err := c.do(ctx, http.MethodGet, "/plans/", query, nil, &body); err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	plans := make([]*plan.Plan, 0, len(body.Plans))
	for _, pj := range body.Plans {
		p, err := pj.toPlan()
		if err != nil {
			return nil, err
		}
		if f.Matches(p) {
			plans = append(plans, p)
		}
	}
	sortPlans(plans)
	return plans, nil
}

// UpdatePlan sends only the set fields of u.
func (c *Client) UpdatePlan(ctx context.Context, id string, u plan.Update) (*plan.Plan, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var body planJSON
	if err := c.do(ctx, http.MethodPut, "/plans/"+url.PathEscape(id), nil, toUpdateJSON(u), &body); err != nil {
		return nil, fmt.Errorf("updating plan %s: %w", id, err)
	}
	return body.toPlan()
}

// DeletePlan removes a plan.
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/plans/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.session.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var detail struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && len(detail.Detail) > 0 {
		var s string
		if json.Unmarshal(detail.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(detail.Detail)
		}
	} else {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	return apiErr
}
