// Package ebay is a client for the subset of the eBay Sell and Taxonomy
// APIs the sync needs: inventory items, offers, locations and category
// lookups, with OAuth2 app and user tokens.
package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/julienbonastre/woo-ebay-sync/internal/retry"
)

const (
	SandboxBaseURL    = "https://api.sandbox.ebay.com"
	ProductionBaseURL = "https://api.ebay.com"

	tokenPath = "/identity/v1/oauth2/token"

	// Tokens are considered expired this long before their real expiry.
	tokenExpiryMargin = 60 * time.Second

	defaultTimeout = 15 * time.Second
)

var appScopes = []string{
	"https://api.ebay.com/oauth/api_scope",
}

var userScopes = []string{
	"https://api.ebay.com/oauth/api_scope",
	"https://api.ebay.com/oauth/api_scope/sell.inventory",
	"https://api.ebay.com/oauth/api_scope/sell.account",
	"https://api.ebay.com/oauth/api_scope/sell.fulfillment",
	"https://api.ebay.com/oauth/api_scope/sell.marketing",
}

// Config holds eBay API credentials and endpoint selection.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Sandbox      bool

	// BaseURL and TokenURL override the environment-derived endpoints.
	// Tests point these at a local server.
	BaseURL  string
	TokenURL string

	ContentLanguage string        // defaults to "en-AU"
	Timeout         time.Duration // per-call HTTP timeout, defaults to 15s
}

// Client is the eBay API client. Safe for concurrent use.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client

	appToken  *tokenCache
	userToken *tokenCache
}

// NewClient creates an eBay client. App-scoped calls (taxonomy) use a
// client-credentials token; everything else uses the user token minted from
// the configured refresh token.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = SandboxBaseURL
		} else {
			baseURL = ProductionBaseURL
		}
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = baseURL + tokenPath
	}
	if cfg.ContentLanguage == "" {
		cfg.ContentLanguage = "en-AU"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	appConf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       appScopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	userConf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       userScopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	refreshSeed := &oauth2.Token{RefreshToken: cfg.RefreshToken}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: httpClient,
		appToken: newTokenCache("app", func(ctx context.Context) (*oauth2.Token, error) {
			return appConf.Token(withHTTPClient(ctx, httpClient))
		}),
		userToken: newTokenCache("user", func(ctx context.Context) (*oauth2.Token, error) {
			return userConf.TokenSource(withHTTPClient(ctx, httpClient), refreshSeed).Token()
		}),
	}
}

// Authenticate eagerly fetches both tokens so bad credentials fail the run
// before any product is touched.
func (c *Client) Authenticate(ctx context.Context) error {
	err := retry.Do(ctx, retry.Options{Label: "app token"}, func(ctx context.Context) error {
		_, terr := c.appToken.token(ctx)
		return terr
	})
	if err != nil {
		return err
	}
	return retry.Do(ctx, retry.Options{Label: "user token"}, func(ctx context.Context) error {
		_, terr := c.userToken.token(ctx)
		return terr
	})
}

func withHTTPClient(ctx context.Context, hc *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, hc)
}

// tokenCache lazily fetches and caches one OAuth token. The mutex coalesces
// concurrent refreshes: late arrivals block until the in-flight fetch
// completes and then reuse its result.
type tokenCache struct {
	label string
	fetch func(context.Context) (*oauth2.Token, error)

	mu  sync.Mutex
	tok *oauth2.Token
}

func newTokenCache(label string, fetch func(context.Context) (*oauth2.Token, error)) *tokenCache {
	return &tokenCache{label: label, fetch: fetch}
}

func (tc *tokenCache) token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.tok != nil && tc.tok.AccessToken != "" && time.Until(tc.tok.Expiry) > tokenExpiryMargin {
		return tc.tok.AccessToken, nil
	}
	log.Printf("[ebay] refreshing %s token", tc.label)
	tok, err := tc.fetch(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return "", &APIError{
				Status:  rerr.Response.StatusCode,
				Message: fmt.Sprintf("%s token: %s", tc.label, strings.TrimSpace(string(rerr.Body))),
			}
		}
		return "", fmt.Errorf("refresh %s token: %w", tc.label, err)
	}
	tc.tok = tok
	return tok.AccessToken, nil
}

func (tc *tokenCache) invalidate() {
	tc.mu.Lock()
	tc.tok = nil
	tc.mu.Unlock()
}

type tokenKind int

const (
	appToken tokenKind = iota
	userToken
)

func (c *Client) cacheFor(kind tokenKind) *tokenCache {
	if kind == appToken {
		return c.appToken
	}
	return c.userToken
}

// do performs one authenticated JSON request. A 401 response triggers
// exactly one forced token refresh and a single retry of the original call.
func (c *Client) do(ctx context.Context, kind tokenKind, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	refreshed := false
	for {
		tok, err := c.cacheFor(kind).token(ctx)
		if err != nil {
			return err
		}

		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, rd)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Language", c.cfg.ContentLanguage)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		log.Printf("[ebay] %s %s", method, u)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			resp.Body.Close()
			refreshed = true
			c.cacheFor(kind).invalidate()
			continue
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return newAPIError(resp)
		}
		if out != nil && resp.StatusCode != http.StatusNoContent {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}
}

func newAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &APIError{Status: resp.StatusCode}

	var env struct {
		Errors []struct {
			ErrorID     int    `json:"errorId"`
			Message     string `json:"message"`
			LongMessage string `json:"longMessage"`
		} `json:"errors"`
	}
	if json.Unmarshal(raw, &env) == nil && len(env.Errors) > 0 {
		apiErr.ErrorID = env.Errors[0].ErrorID
		apiErr.Message = env.Errors[0].Message
		if apiErr.Message == "" {
			apiErr.Message = env.Errors[0].LongMessage
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
