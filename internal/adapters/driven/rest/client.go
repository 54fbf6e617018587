package rest

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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.RestaurantBackend = (*Client)(nil)

// APIPrefix is the path prefix of every endpoint.
const APIPrefix = "/api/v1"

// Header names set on outgoing requests.
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Client is a RestaurantBackend over HTTP.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	limiter  *RateLimiter
	validate *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left
// untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimiter replaces the limiter built from settings.
func WithRateLimiter(l *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a client for the backend described by settings.
func NewClient(settings domain.AppSettings, opts ...Option) (*Client, error) {
	u, err := url.Parse(settings.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend url %q", domain.ErrInvalidInput, settings.Backend.URL)
	}

	timeout := settings.Backend.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultBackendTimeout
	}

	c := &Client{
		baseURL:  strings.TrimRight(u.String(), "/"),
		token:    settings.Backend.Token,
		http:     &http.Client{Timeout: timeout},
		limiter:  NewRateLimiter(settings.RateLimit),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ListTables returns every table.
func (c *Client) ListTables(ctx context.Context) ([]domain.Table, error) {
	var out TableList
	if err := c.do(ctx, http.MethodGet, "/tables", nil, &out); err != nil {
		return nil, err
	}
	tables := make([]domain.Table, len(out.Tables))
	for i, t := range out.Tables {
		tables[i] = t.Domain()
	}
	return tables, nil
}

// GetTable retrieves a table by ID.
func (c *Client) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	var out TableDTO
	if err := c.do(ctx, http.MethodGet, "/tables/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	t := out.Domain()
	return &t, nil
}

// OpenTable seats a party.
func (c *Client) OpenTable(ctx context.Context, req domain.OpenTable) (*domain.Table, error) {
	body := OpenTableRequest{Guests: req.Guests, Server: req.Server}
	var out TableDTO
	path := "/tables/" + url.PathEscape(req.TableID) + "/open"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	t := out.Domain()
	return &t, nil
}

// SetTableStatus moves a table to a new status.
func (c *Client) SetTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	var out TableDTO
	path := "/tables/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, StatusRequest{Status: string(status)}, &out); err != nil {
		return nil, err
	}
	t := out.Domain()
	return &t, nil
}

// ListOrders returns orders matching filter.
func (c *Client) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	q := url.Values{}
	if filter.TableID != "" {
		q.Set("table", filter.TableID)
	}
	if filter.OpenOnly {
		q.Set("open", "true")
	}
	path := "/orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out OrderList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, len(out.Orders))
	for i, o := range out.Orders {
		orders[i] = o.Domain()
	}
	return orders, nil
}

// GetOrder retrieves an order by ID.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var out OrderDTO
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	o := out.Domain()
	return &o, nil
}

// PlaceOrder creates an order.
func (c *Client) PlaceOrder(ctx context.Context, req domain.NewOrder) (*domain.Order, error) {
	var out OrderDTO
	if err := c.do(ctx, http.MethodPost, "/orders", FromNewOrder(req), &out); err != nil {
		return nil, err
	}
	o := out.Domain()
	return &o, nil
}

// SetOrderStatus advances or cancels an order.
func (c *Client) SetOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var out OrderDTO
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, StatusRequest{Status: string(status)}, &out); err != nil {
		return nil, err
	}
	o := out.Domain()
	return &o, nil
}

// ListMenu returns the menu.
func (c *Client) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var out MenuList
	if err := c.do(ctx, http.MethodGet, "/menu", nil, &out); err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, len(out.Items))
	for i, m := range out.Items {
		items[i] = m.Domain()
	}
	return items, nil
}

// SetMenuAvailability marks a menu item available or sold out.
func (c *Client) SetMenuAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	var out MenuItemDTO
	path := "/menu/" + url.PathEscape(id) + "/availability"
	if err := c.do(ctx, http.MethodPut, path, AvailabilityRequest{Available: &available}, &out); err != nil {
		return nil, err
	}
	m := out.Domain()
	return &m, nil
}

// ListStock returns every stock item.
func (c *Client) ListStock(ctx context.Context) ([]domain.StockItem, error) {
	var out StockList
	if err := c.do(ctx, http.MethodGet, "/stock", nil, &out); err != nil {
		return nil, err
	}
	items := make([]domain.StockItem, len(out.Items))
	for i, s := range out.Items {
		items[i] = s.Domain()
	}
	return items, nil
}

// AdjustStock changes a stock quantity.
func (c *Client) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.StockItem, error) {
	var out StockItemDTO
	path := "/stock/" + url.PathEscape(adj.ItemID) + "/adjust"
	if err := c.do(ctx, http.MethodPost, path, AdjustStockRequest{Delta: adj.Delta, Reason: adj.Reason}, &out); err != nil {
		return nil, err
	}
	s := out.Domain()
	return &s, nil
}

// postAttempts is how many times a POST is sent when the connection fails
// before a response arrives. Every attempt carries the same
// Idempotency-Key, so a server that already handled it replays the result.
const postAttempts = 2

// do sends one request and decodes the response into out. POST requests
// carry an Idempotency-Key and are resent once, with the same key, after a
// transport failure.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempts := 1
	var idemKey string
	if method == http.MethodPost {
		attempts = postAttempts
		idemKey = uuid.NewString()
	}

	var resp *http.Response
	var requestID string
	start := time.Now()
	for attempt := 1; ; attempt++ {
		var reader io.Reader
		if data != nil {
			reader = bytes.NewReader(data)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+APIPrefix+path, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		requestID = uuid.NewString()
		req.Header.Set("Accept", "application/json")
		req.Header.Set(HeaderRequestID, requestID)
		if data != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idemKey != "" {
			req.Header.Set(HeaderIdempotencyKey, idemKey)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.http.Do(req)
		if err == nil {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if attempt >= attempts {
			return fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnavailable, method, path, err)
		}
		logger.Debug("rest %s %s: %v, resending (key %s)", method, path, err, idemKey)
	}
	defer resp.Body.Close()
	logger.Debug("rest %s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After"), time.Now()))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return c.decode(resp.Body, out)
}

// decode reads a JSON body into out and validates it against the contract.
func (c *Client) decode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrBackendUnavailable, err)
	}
	if err := c.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: malformed response: %s failed %q", domain.ErrBackendUnavailable,
				verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: malformed response: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}
