package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/brandloom/internal/model"
)

// Backend is the set of remote operations the client needs. It is
// implemented by *Client and can be faked in tests.
type Backend interface {
	SetUserID(id string)
	Login(ctx context.Context, username string) (LoginResponse, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	CreateBrand(ctx context.Context, brand model.Brand) (model.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	ListThemes(ctx context.Context) ([]model.Theme, error)
	CreateTheme(ctx context.Context, theme model.Theme) (model.Theme, error)
	UpdateTheme(ctx context.Context, id string, update model.ThemeUpdate) (*model.Theme, error)
	DeleteTheme(ctx context.Context, id string) error
	OpenThemeOptionsStream(ctx context.Context, brandID string) (io.ReadCloser, error)
	OpenImageRegenerationStream(ctx context.Context, brandID string, params model.Theme) (io.ReadCloser, error)
	OpenPostsStream(ctx context.Context, themeID string) (io.ReadCloser, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the brand generator HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	stream    *http.Client
	userAgent string
	logger    *slog.Logger

	mu     sync.RWMutex
	userID string
}

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "brandloom/0.1"
	requestTimeout   = 30 * time.Second
	userHeader       = "X-User-ID"
	requestIDHeader  = "X-Request-ID"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the timeout for request/response calls. Streams are not
// bound by it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		stream:    &http.Client{},
		userAgent: defaultUserAgent,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetUserID sets the identity sent with authenticated requests. An empty
// id clears it.
func (c *Client) SetUserID(id string) {
	c.mu.Lock()
	c.userID = strings.TrimSpace(id)
	c.mu.Unlock()
}

func (c *Client) currentUser() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// Login exchanges a username for a user profile.
func (c *Client) Login(ctx context.Context, username string) (LoginResponse, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return LoginResponse{}, fmt.Errorf("username is empty")
	}
	var resp LoginResponse
	body := map[string]string{"username": name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return LoginResponse{}, err
	}
	if resp.UID == "" {
		return LoginResponse{}, fmt.Errorf("login response missing uid: %w", ErrProtocol)
	}
	return resp, nil
}

// ListBrands returns every brand owned by the current user.
func (c *Client) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var payload []BrandPayload
	if err := c.do(ctx, http.MethodGet, "/api/brands/", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]model.Brand, 0, len(payload))
	for _, p := range payload {
		out = append(out, BrandFromWire(p))
	}
	return out, nil
}

// CreateBrand persists a new brand and returns the server's copy.
func (c *Client) CreateBrand(ctx context.Context, brand model.Brand) (model.Brand, error) {
	body := BrandToWire(brand)
	body.ID = ""
	body.CreatedDate = ""
	var payload BrandPayload
	if err := c.do(ctx, http.MethodPost, "/api/brands/", body, &payload); err != nil {
		return model.Brand{}, err
	}
	if payload.ID == "" {
		return model.Brand{}, fmt.Errorf("created brand missing id: %w", ErrProtocol)
	}
	return BrandFromWire(payload), nil
}

// DeleteBrand removes a brand.
func (c *Client) DeleteBrand(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("brand id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/brands/"+url.PathEscape(id), nil, nil)
}

// ListThemes returns every theme owned by the current user.
func (c *Client) ListThemes(ctx context.Context) ([]model.Theme, error) {
	var payload []ThemePayload
	if err := c.do(ctx, http.MethodGet, "/api/themes/", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]model.Theme, 0, len(payload))
	for _, p := range payload {
		out = append(out, ThemeFromWire(p))
	}
	return out, nil
}

// CreateTheme persists a new theme and returns the server's copy.
func (c *Client) CreateTheme(ctx context.Context, theme model.Theme) (model.Theme, error) {
	body := ThemeToWire(theme)
	body.ID = ""
	var payload ThemePayload
	if err := c.do(ctx, http.MethodPost, "/api/themes/", body, &payload); err != nil {
		return model.Theme{}, err
	}
	if payload.ID == "" {
		return model.Theme{}, fmt.Errorf("created theme missing id: %w", ErrProtocol)
	}
	return ThemeFromWire(payload), nil
}

// UpdateTheme applies a partial update. The returned theme is nil when the
// server answers without a body.
func (c *Client) UpdateTheme(ctx context.Context, id string, update model.ThemeUpdate) (*model.Theme, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("theme id required")
	}
	var payload *ThemePayload
	if err := c.do(ctx, http.MethodPut, "/api/themes/"+url.PathEscape(id), ThemeUpdateToWire(update), &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	theme := ThemeFromWire(*payload)
	return &theme, nil
}

// DeleteTheme removes a theme.
func (c *Client) DeleteTheme(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("theme id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/themes/"+url.PathEscape(id), nil, nil)
}

// OpenThemeOptionsStream starts theme auto-generation for a brand.
func (c *Client) OpenThemeOptionsStream(ctx context.Context, brandID string) (io.ReadCloser, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("brand id required")
	}
	user := c.currentUser()
	if user == "" {
		return nil, ErrNoUser
	}
	values := url.Values{}
	values.Set("brand_id", brandID)
	values.Set("user_id", user)
	return c.openStream(ctx, &url.URL{Path: "/api/themes/auto-generate-stream", RawQuery: values.Encode()})
}

// OpenImageRegenerationStream regenerates preview images for the given
// theme parameters.
func (c *Client) OpenImageRegenerationStream(ctx context.Context, brandID string, params model.Theme) (io.ReadCloser, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, fmt.Errorf("brand id required")
	}
	user := c.currentUser()
	if user == "" {
		return nil, ErrNoUser
	}
	colors, err := json.Marshal(orEmpty(params.Colors))
	if err != nil {
		return nil, fmt.Errorf("encode colors: %w", err)
	}
	values := url.Values{}
	values.Set("brand_id", brandID)
	values.Set("user_id", user)
	values.Set("name", params.Name)
	values.Set("mood", params.Mood)
	values.Set("colors", string(colors))
	values.Set("imagery", params.Imagery)
	values.Set("tone", params.Tone)
	values.Set("caption_length", string(model.ParseCaptionLength(string(params.CaptionLength))))
	values.Set("use_emojis", strconv.FormatBool(params.UseEmojis))
	values.Set("use_hashtags", strconv.FormatBool(params.UseHashtags))
	return c.openStream(ctx, &url.URL{Path: "/api/themes/regenerate-images-stream", RawQuery: values.Encode()})
}

// OpenPostsStream starts post generation for a theme.
func (c *Client) OpenPostsStream(ctx context.Context, themeID string) (io.ReadCloser, error) {
	if strings.TrimSpace(themeID) == "" {
		return nil, fmt.Errorf("theme id required")
	}
	user := c.currentUser()
	if user == "" {
		return nil, ErrNoUser
	}
	values := url.Values{}
	values.Set("user_id", user)
	rel := &url.URL{Path: "/api/themes/" + url.PathEscape(themeID) + "/generate-posts-stream", RawQuery: values.Encode()}
	return c.openStream(ctx, rel)
}

func (c *Client) openStream(ctx context.Context, rel *url.URL) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w: %v", rel.Path, ErrTransport, err)
	}
	if resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(rel, resp)
	}
	c.logger.Debug("stream opened", "path", rel.Path, "request_id", req.Header.Get(requestIDHeader))
	return resp.Body, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, rel, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", rel.Path, "error", err)
		return fmt.Errorf("execute request: %w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request complete",
		"method", method,
		"path", rel.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(requestIDHeader),
		"elapsed", time.Since(start),
	)

	if resp.StatusCode >= 300 {
		return statusError(rel, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w: %v", ErrProtocol, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, rel *url.URL, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	if user := c.currentUser(); user != "" {
		req.Header.Set(userHeader, user)
	}
	return req, nil
}

func statusError(rel *url.URL, resp *http.Response) error {
	se := &StatusError{Path: rel.Path, Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil {
		switch {
		case eb.Message != "":
			se.Message = eb.Message
		case eb.Detail != nil:
			if s, ok := eb.Detail.(string); ok {
				se.Message = s
			} else {
				se.Message = fmt.Sprint(eb.Detail)
			}
		}
	}
	return se
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
