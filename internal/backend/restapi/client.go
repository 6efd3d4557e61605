// Package restapi implements service.Service over the task REST API.
package restapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

// RequestIDHeader carries a per-request id for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	timeout time.Duration
	now     func() time.Time
}

var _ service.Service = (*Client)(nil)

// New creates a client for cfg.APIURL.
// tokens supplies the bearer token; requests go out unauthenticated while it
// has none (login, signup).
func New(cfg *config.Config, tokens oauth2.TokenSource) (*Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", cfg.APIURL)
	}
	c := NewWithHTTPClient(cfg.APIURL, &http.Client{}, tokens)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		timeout: config.DefaultTimeout,
		now:     time.Now,
	}
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, q service.Query) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks", queryValues(q), nil)
	if err != nil {
		return nil, err
	}
	records, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	return normalizeList(records, c.now()), nil
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil)
	if err != nil {
		return service.Task{}, err
	}
	return c.decodeTask(body)
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, d service.Draft) (service.Task, error) {
	body, err := c.do(ctx, http.MethodPost, "/tasks", nil, d)
	if err != nil {
		return service.Task{}, err
	}
	return c.decodeTask(body)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	body, err := c.do(ctx, http.MethodPut, taskPath(id), nil, p)
	if err != nil {
		return service.Task{}, err
	}
	return c.decodeTask(body)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
	return err
}

// Signup implements service.Service.
func (c *Client) Signup(ctx context.Context, name, email, password string) (service.User, string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/signup", nil, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return service.User{}, "", err
	}
	return decodeAuth(body)
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (service.User, string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return service.User{}, "", err
	}
	return decodeAuth(body)
}

func (c *Client) decodeTask(body []byte) (service.Task, error) {
	r, err := decodeOne(body)
	if err != nil {
		return service.Task{}, err
	}
	return normalize(r, c.now())
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// queryValues encodes the non-zero fields of q.
func queryValues(q service.Query) url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("status", string(q.Status))
	set("search", q.Search)
	set("priority", string(q.Priority))
	set("dueDate", q.DueDate.String())
	set("dueDateFrom", q.DueDateFrom.String())
	set("dueDateTo", q.DueDateTo.String())
	if q.Overdue {
		v.Set("overdue", "true")
	}
	if q.Upcoming != nil {
		v.Set("upcoming", strconv.Itoa(*q.Upcoming))
	}
	return v
}

// do performs one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok.Valid() {
			tok.SetAuthHeader(req)
		}
	}

	logger := log.WithFields(log.Fields{"method": method, "path": path, "request_id": reqID})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	logger.WithFields(log.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)}).Debug("api call")

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, wrapError(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return body, nil
}

// wrapError maps transport and HTTP failures onto the service error taxonomy.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Error{Kind: service.ErrNetwork, Message: "request timed out"}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := serverMessage(apiErr)
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.Error{Kind: service.ErrUnauthorized, Message: msg}
		case http.StatusNotFound:
			return &service.Error{Kind: service.ErrNotFound, Message: msg}
		default:
			return &service.Error{Kind: service.ErrNetwork, Message: msg}
		}
	}

	return &service.Error{Kind: service.ErrNetwork, Message: err.Error()}
}

// serverMessage extracts {"message": "..."} from an error body, falling
// back to the status text.
func serverMessage(apiErr *googleapi.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status code %d", apiErr.Code)
}
