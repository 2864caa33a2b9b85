package api

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

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/dmitrijs2005/shalo/internal/logging"
	"github.com/google/uuid"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. "https://host/api/v1").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) GetAccount(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var account *models.Account
	if err := c.do(ctx, http.MethodGet, "/account/", nil, token, nil, &account); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

func (c *HTTPClient) ListAll(ctx context.Context) ([]models.Resource, error) {
	return c.list(ctx, "/resources/", nil, "")
}

func (c *HTTPClient) ListTrending(ctx context.Context) ([]models.Resource, error) {
	return c.list(ctx, "/trending/", nil, "")
}

func (c *HTTPClient) ListBookmarks(ctx context.Context, token string) ([]models.Resource, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	return c.list(ctx, "/bookmarks/", nil, token)
}

func (c *HTTPClient) Search(ctx context.Context, query string) ([]models.Resource, error) {
	return c.list(ctx, "/search/", url.Values{"query": {query}}, "")
}

func (c *HTTPClient) GetByID(ctx context.Context, id, token string) (*models.Resource, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var r *models.Resource
	if err := c.do(ctx, http.MethodGet, "/resources/"+url.PathEscape(id)+"/", nil, token, nil, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (c *HTTPClient) Create(ctx context.Context, draft models.ResourceDraft, token string) (*models.Resource, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var r models.Resource
	if err := c.do(ctx, http.MethodPost, "/create-resource/", nil, token, draft, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, patch models.ResourcePatch, token string) (*models.Resource, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var r models.Resource
	if err := c.do(ctx, http.MethodPut, "/resources/"+url.PathEscape(id)+"/update", nil, token, patch, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodDelete, "/resources/"+url.PathEscape(id)+"/delete", nil, token, nil, nil)
}

func (c *HTTPClient) Bookmark(ctx context.Context, id, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, http.MethodPost, "/resources/"+url.PathEscape(id)+"/bookmark", nil, token, struct{}{}, nil)
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*models.Credentials, error) {
	return c.exchange(ctx, "/sign-in/", email, password)
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*models.Credentials, error) {
	return c.exchange(ctx, "/sign-up/", email, password)
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/delete-account/"+url.PathEscape(id)+"/", nil, "", nil, nil)
}

func (c *HTTPClient) exchange(ctx context.Context, path, email, password string) (*models.Credentials, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var creds models.Credentials
	if err := c.do(ctx, http.MethodPost, path, nil, "", body, &creds); err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, &StatusError{StatusCode: http.StatusOK, Message: "response carries no token", kind: ErrRejected}
	}
	return &creds, nil
}

func (c *HTTPClient) list(ctx context.Context, path string, query url.Values, token string) ([]models.Resource, error) {
	var items []models.Resource
	if err := c.do(ctx, http.MethodGet, path, query, token, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Resource{}
	}
	return items, nil
}

// do performs one request. A non-empty token is sent as a bearer credential;
// out, when non-nil, receives the decoded JSON body.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	c.logger.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return mapStatus(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func mapStatus(code int, body []byte) error {
	e := &StatusError{StatusCode: code, Message: serverMessage(body)}
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		e.kind = ErrUnauthorized
	case code == http.StatusNotFound:
		e.kind = ErrNotFound
	case code >= 500:
		e.kind = ErrUnavailable
	default:
		e.kind = ErrRejected
	}
	return e
}

// serverMessage pulls "detail", "message" or "error" out of a JSON error
// body and falls back to the raw text.
func serverMessage(body []byte) string {
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		for _, k := range []string{"detail", "message", "error"} {
			if s, ok := payload[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(body))
}
