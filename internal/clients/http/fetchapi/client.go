package fetchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public dog service.
const DefaultBaseURL = "https://frontend-take-home-service.fetch.com"

const maxErrorBody = 512

// Client calls the external dog service on behalf of one session. Every
// client owns its cookie jar, so session credentials never leak across users.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	flight     singleflight.Group
}

// Option configures NewClient.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	jar        http.CookieJar
	hook       UnauthorizedHook
	cookies    []*http.Cookie
}

// WithHTTPClient sets the template client. Its Jar is replaced and its
// transport is wrapped with the 401 interceptor.
func WithHTTPClient(c *http.Client) Option {
	return func(opts *clientOptions) {
		opts.httpClient = c
	}
}

// WithCookieJar overrides the per-client cookie jar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(opts *clientOptions) {
		opts.jar = jar
	}
}

// WithUnauthorizedHook registers the hook fired on any 401 answer.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(opts *clientOptions) {
		opts.hook = hook
	}
}

// WithCookies seeds the jar, typically with cookies captured after Login.
func WithCookies(cookies []*http.Cookie) Option {
	return func(opts *clientOptions) {
		opts.cookies = cookies
	}
}

// NewClient instantiates a client with sane defaults.
func NewClient(baseURL string, optFns ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("fetch api base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse fetch api base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("fetch api base URL must be absolute: %q", baseURL)
	}
	var opts clientOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	jar := opts.jar
	if jar == nil {
		jar, err = cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("build cookie jar: %w", err)
		}
	}
	if len(opts.cookies) > 0 {
		jar.SetCookies(parsed, opts.cookies)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	if opts.httpClient != nil {
		copied := *opts.httpClient
		httpClient = &copied
	}
	httpClient.Jar = jar
	httpClient.Transport = &unauthorizedTransport{next: httpClient.Transport, hook: opts.hook}
	return &Client{baseURL: parsed, httpClient: httpClient, jar: jar}, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Cookies returns the session cookies currently held for the service.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

// Login authenticates the session and stores the returned cookie in the jar.
func (c *Client) Login(ctx context.Context, name, email string) error {
	body := LoginRequest{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	return c.do(ctx, "login", http.MethodPost, c.endpoint("/auth/login"), body, nil)
}

// Logout ends the upstream session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, c.endpoint("/auth/logout"), nil, nil)
}

// Breeds lists every breed name. Concurrent callers share one request.
func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	v, err, _ := c.flight.Do("breeds", func() (any, error) {
		var breeds []string
		if err := c.do(ctx, "breeds", http.MethodGet, c.endpoint("/dogs/breeds"), nil, &breeds); err != nil {
			return nil, err
		}
		return breeds, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

// Search runs GET /dogs/search with the given parameters.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	target := c.endpoint("/dogs/search")
	query, err := params.encode()
	if err != nil {
		return nil, fmt.Errorf("encode search params: %w", err)
	}
	target.RawQuery = query.Encode()
	var out SearchResponse
	if err := c.do(ctx, "search", http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchCursor follows a next/prev cursor returned by Search. The cursor is
// resolved against the base URL as-is; params only fill in parameters the
// cursor does not already carry.
func (c *Client) SearchCursor(ctx context.Context, cursor string, params SearchParams) (*SearchResponse, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil, errors.New("cursor is required")
	}
	ref, err := url.Parse(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrForeignCursor, err)
	}
	target := c.baseURL.ResolveReference(ref)
	if target.Scheme != c.baseURL.Scheme || target.Host != c.baseURL.Host {
		return nil, fmt.Errorf("%w: %s", ErrForeignCursor, target.Host)
	}
	extra, err := params.encode()
	if err != nil {
		return nil, fmt.Errorf("encode search params: %w", err)
	}
	query := target.Query()
	for key, values := range extra {
		if query.Has(key) {
			continue
		}
		for _, v := range values {
			query.Add(key, v)
		}
	}
	target.RawQuery = query.Encode()
	var out SearchResponse
	if err := c.do(ctx, "search cursor", http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dogs resolves up to MaxDogsPerLookup ids. The answer order is not guaranteed
// to follow ids.
func (c *Client) Dogs(ctx context.Context, ids []string) ([]Dog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxDogsPerLookup {
		return nil, fmt.Errorf("%w: %d", ErrTooManyIDs, len(ids))
	}
	var out []Dog
	if err := c.do(ctx, "dogs", http.MethodPost, c.endpoint("/dogs"), ids, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Match asks the service to pick one dog from the given favorites.
func (c *Client) Match(ctx context.Context, ids []string) (*MatchResponse, error) {
	if len(ids) == 0 {
		return nil, errors.New("at least one dog id is required")
	}
	var out MatchResponse
	if err := c.do(ctx, "match", http.MethodPost, c.endpoint("/dogs/match"), ids, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) endpoint(path string) *url.URL {
	return c.baseURL.JoinPath(path)
}

func (c *Client) do(ctx context.Context, op, method string, target *url.URL, body, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("fetch api client not configured")
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(snippet)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrUpstream, op, err)
	}
	return nil
}

// encode renders the parameters in OpenAPI form style, exploding arrays into
// repeated keys.
func (p SearchParams) encode() (url.Values, error) {
	values := url.Values{}
	add := func(name string, value any) error {
		frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
		if err != nil {
			return err
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return err
		}
		for k, vs := range parsed {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
		return nil
	}
	if len(p.Breeds) > 0 {
		if err := add("breeds", p.Breeds); err != nil {
			return nil, err
		}
	}
	if len(p.ZipCodes) > 0 {
		if err := add("zipCodes", p.ZipCodes); err != nil {
			return nil, err
		}
	}
	ints := []struct {
		name  string
		value *int
	}{
		{"ageMin", p.AgeMin},
		{"ageMax", p.AgeMax},
		{"size", p.Size},
		{"from", p.From},
		{"page", p.Page},
	}
	for _, param := range ints {
		if param.value == nil {
			continue
		}
		if err := add(param.name, *param.value); err != nil {
			return nil, err
		}
	}
	if p.Sort != "" {
		if err := add("sort", p.Sort); err != nil {
			return nil, err
		}
	}
	return values, nil
}
