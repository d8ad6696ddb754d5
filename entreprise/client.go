package entreprise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://recherche-entreprises.api.gouv.fr"

	SearchEndpoint    = "/search"
	NearPointEndpoint = "/near_point"
)

var (
	// ErrTransport covers request construction, network and body read failures.
	ErrTransport = errors.New("recherche-entreprises: transport error")
	// ErrDecode is returned when the body is not valid JSON.
	ErrDecode = errors.New("recherche-entreprises: malformed response")
	// ErrUnexpectedShape is returned when the JSON does not match Response.
	ErrUnexpectedShape = errors.New("recherche-entreprises: unexpected response shape")
)

// Client queries the recherche-entreprises API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *zap.Logger
	validate   *validator.Validate
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the default client. Timeouts, proxies and
// cancellation policies belong there.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithValidation checks every decoded body against the declared shape and
// fails with ErrUnexpectedShape when it does not match.
func WithValidation() Option {
	return func(c *Client) {
		c.validate = validator.New(validator.WithRequiredStructEnabled())
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
		log: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search calls /search.
func (c *Client) Search(ctx context.Context, query SearchQuery) (*Response, error) {
	return c.Do(ctx, SearchEndpoint, query.Params())
}

// SearchNearPoint calls /near_point.
func (c *Client) SearchNearPoint(ctx context.Context, query GeoQuery) (*Response, error) {
	return c.Do(ctx, NearPointEndpoint, query.Params())
}

// URL returns the address requested for path and params.
func (c *Client) URL(path string, params Params) string {
	u := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	return u
}

// Do performs a single GET and decodes the body whatever the HTTP status.
// Only transport failures and undecodable bodies are returned as errors; an
// API error message is reported through Response.Erreur.
func (c *Client) Do(ctx context.Context, path string, params Params) (*Response, error) {
	target := c.URL(path, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}

	c.log.Debug("recherche-entreprises request",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)

	out, err := c.decode(body)
	if err != nil {
		return nil, err
	}

	out.StatusCode = resp.StatusCode

	return out, nil
}

func (c *Client) decode(body []byte) (*Response, error) {
	var out Response

	if err := json.Unmarshal(body, &out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}

	if c.validate != nil {
		if err := c.validate.Struct(&out); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
		}
	}

	out.Raw = json.RawMessage(body)

	return &out, nil
}
