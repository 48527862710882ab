// Package apiclient is the HTTP adapter every screen talks through.  It
// attaches the stored bearer token to each request and, when the API
// answers 401, exchanges the refresh token for a new pair and replays the
// request exactly once.
package apiclient

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
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/iliyamo/bus-booking-client/internal/credstore"
	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

// DefaultTimeout is the fixed per-request timeout.
const DefaultTimeout = 10 * time.Second

const (
	refreshPath   = "/auth/refresh"
	maxErrorBody  = 64 << 10
	requestIDHead = "X-Request-ID"
)

// Client is safe for concurrent use.  All token reads and writes go
// through the credential store so a second process sharing the store sees
// rotations.
type Client struct {
	base    *url.URL
	http    *http.Client
	store   credstore.Store
	log     *zap.Logger
	limiter *rate.Limiter
	newID   func() string

	// refreshes collapses concurrent 401s into one /auth/refresh call.
	refreshes singleflight.Group

	hooksMu   sync.Mutex
	onExpired []func()
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.  Its Timeout is
// used as the fixed request timeout.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout sets the fixed per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.  Tokens are never logged.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = logging.OrNop(l) } }

// WithRateLimit caps outgoing requests at perSecond with the given burst.
// A non-positive rate disables the limiter.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(fn func() string) Option { return func(c *Client) { c.newID = fn } }

// New builds a client for the API at baseURL.
func New(baseURL string, store credstore.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("apiclient: nil credential store")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must be http or https", baseURL)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: DefaultTimeout},
		store: store,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Store exposes the credential store the client reads tokens from.
func (c *Client) Store() credstore.Store { return c.store }

// OnSessionExpired registers fn to run after an unrecoverable 401 has
// cleared the stored tokens.
func (c *Client) OnSessionExpired(fn func()) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// SaveTokens persists a token pair returned by login or register.
func (c *Client) SaveTokens(ctx context.Context, t model.AuthTokens) error {
	return credstore.SavePair(ctx, c.store, credstore.Pair{Access: t.AccessToken, Refresh: t.RefreshToken})
}

// ClearTokens removes both stored tokens.
func (c *Client) ClearTokens(ctx context.Context) error {
	return credstore.Clear(ctx, c.store)
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Anonymous requests carry no bearer token and never enter the
	// refresh path; a 401 from login is a wrong password, not an expired
	// session.
	Anonymous bool
}

// Get issues GET path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues POST path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues PUT path with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// call is the per-request state.  retried is local to one Do invocation so
// one request's replay never affects another in-flight request.
type call struct {
	req     Request
	payload []byte
	retried bool
}

// Do performs req.  A 401 on an authenticated request triggers at most one
// refresh and one replay; when recovery fails both tokens are cleared and
// the failure is returned for the caller to send the user to login.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	cl := &call{req: req}
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		cl.payload = b
	}

	token := ""
	if !req.Anonymous {
		t, err := credstore.AccessToken(ctx, c.store)
		if err != nil {
			return err
		}
		token = t
	}

	err := c.roundTrip(ctx, cl, token, out)
	if req.Anonymous || !errors.Is(err, ErrUnauthorized) {
		return err
	}
	return c.recover(ctx, cl, token, err, out)
}

// recover runs the refresh-and-replay path for a request that got a 401
// while carrying sentToken.
func (c *Client) recover(ctx context.Context, cl *call, sentToken string, original error, out any) error {
	if cl.retried {
		c.expire(ctx)
		return original
	}
	cl.retried = true

	refresh, err := credstore.RefreshToken(ctx, c.store)
	if err != nil || refresh == "" {
		c.log.Debug("no refresh token; session expired", zap.String("path", cl.req.Path))
		c.expire(ctx)
		return original
	}

	token, err := c.refreshed(ctx, sentToken)
	if err != nil {
		// A caller that gave up leaves the session to the shared exchange.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Info("token refresh failed", zap.String("path", cl.req.Path), zap.Error(err))
		c.expire(ctx)
		return original
	}

	if err := c.roundTrip(ctx, cl, token, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Info("replay after refresh failed", zap.String("path", cl.req.Path), zap.Error(err))
		c.expire(ctx)
		return err
	}
	return nil
}

// refreshed returns an access token newer than sentToken.  Concurrent
// callers share a single in-flight exchange.  When another request already
// rotated the pair, the stored token is reused without a second exchange.
func (c *Client) refreshed(ctx context.Context, sentToken string) (string, error) {
	ch := c.refreshes.DoChan("refresh", func() (any, error) {
		// The exchange outlives any single caller's cancellation: other
		// requests may be waiting on it.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.http.Timeout)
		defer cancel()

		current, err := credstore.AccessToken(rctx, c.store)
		if err != nil {
			return "", err
		}
		if current != "" && current != sentToken {
			return current, nil
		}
		return c.exchange(rctx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// exchange trades the stored refresh token for a new pair and persists it.
func (c *Client) exchange(ctx context.Context) (string, error) {
	refresh, err := credstore.RefreshToken(ctx, c.store)
	if err != nil {
		return "", err
	}
	if refresh == "" {
		return "", errors.New("no refresh token stored")
	}
	body, err := json.Marshal(model.RefreshRequest{RefreshToken: refresh})
	if err != nil {
		return "", err
	}
	var tokens model.AuthTokens
	cl := &call{req: Request{Method: http.MethodPost, Path: refreshPath, Anonymous: true}, payload: body}
	if err := c.roundTrip(ctx, cl, "", &tokens); err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	if tokens.AccessToken == "" {
		return "", errors.New("refresh: response carried no access token")
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refresh
	}
	if err := c.SaveTokens(ctx, tokens); err != nil {
		return "", err
	}
	c.log.Debug("access token refreshed")
	return tokens.AccessToken, nil
}

// expire clears the token pair and notifies listeners.
func (c *Client) expire(ctx context.Context) {
	if err := c.ClearTokens(context.WithoutCancel(ctx)); err != nil {
		c.log.Warn("clear tokens failed", zap.Error(err))
	}
	c.hooksMu.Lock()
	hooks := append([]func(){}, c.onExpired...)
	c.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// roundTrip sends one HTTP request and decodes the response.
func (c *Client) roundTrip(ctx context.Context, cl *call, token string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.base.JoinPath(cl.req.Path)
	if len(cl.req.Query) > 0 {
		u.RawQuery = cl.req.Query.Encode()
	}
	var body io.Reader
	if cl.payload != nil {
		body = bytes.NewReader(cl.payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, cl.req.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", cl.req.Method, cl.req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if cl.payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := c.newID()
	httpReq.Header.Set(requestIDHead, reqID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, cl.req.Method, cl.req.Path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", cl.req.Method),
		zap.String("path", cl.req.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Bool("retried", cl.retried),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(cl.req.Method, cl.req.Path, resp.StatusCode, b)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", ErrNetwork, cl.req.Method, cl.req.Path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", cl.req.Method, cl.req.Path, err)
	}
	return nil
}
