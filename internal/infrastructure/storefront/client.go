// Package storefront talks to a shop's storefront on behalf of the bundle
// widget: the app proxy endpoints served by cmd/api and the theme cart.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"
)

const (
	// DefaultProxyPath is the app proxy prefix configured for the app
	DefaultProxyPath = "/apps/bundles"

	cartAddPath    = "/cart/add.js"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Config holds the storefront client configuration
type Config struct {
	// StoreURL is the storefront origin, e.g. https://tea.myshopify.com
	StoreURL string
	// ProxyPath is the app proxy prefix; DefaultProxyPath when empty
	ProxyPath string
	// Shop is sent as the shop query parameter on app proxy calls
	Shop       string
	HTTPClient *http.Client
}

// Client implements ports.StorefrontAPI over HTTP
type Client struct {
	httpClient *http.Client
	storeURL   string
	proxyPath  string
	shop       string
}

// New creates a storefront client
func New(cfg Config) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if _, err := url.Parse(cfg.StoreURL); err != nil {
		return nil, fmt.Errorf("invalid store URL: %w", err)
	}

	proxyPath := cfg.ProxyPath
	if proxyPath == "" {
		proxyPath = DefaultProxyPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		httpClient: httpClient,
		storeURL:   strings.TrimRight(cfg.StoreURL, "/"),
		proxyPath:  "/" + strings.Trim(proxyPath, "/"),
		shop:       cfg.Shop,
	}, nil
}

var _ ports.StorefrontAPI = (*Client)(nil)

func (c *Client) proxyURL(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.storeURL + c.proxyPath + "/" + strings.Join(escaped, "/")
	if c.shop != "" {
		u += "?shop=" + url.QueryEscape(c.shop)
	}
	return u
}

// FetchBundle loads a bundle configuration
func (c *Client) FetchBundle(ctx context.Context, bundleID string) (*domain.BundleConfig, error) {
	var bundle domain.BundleConfig
	if err := c.getJSON(ctx, c.proxyURL("bundles", bundleID), &bundle); err != nil {
		return nil, fmt.Errorf("failed to fetch bundle: %w", err)
	}
	return &bundle, nil
}

// FetchBundleProducts loads the product details of a bundle
func (c *Client) FetchBundleProducts(ctx context.Context, bundleID string) ([]domain.BundleProductDetails, error) {
	var details []domain.BundleProductDetails
	if err := c.getJSON(ctx, c.proxyURL("bundles", bundleID, "products"), &details); err != nil {
		return nil, fmt.Errorf("failed to fetch bundle products: %w", err)
	}
	return details, nil
}

// FetchVariants loads the current variants of a product
func (c *Client) FetchVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	id, err := domain.NumericID(productID)
	if err != nil {
		return nil, err
	}

	var variants []domain.Variant
	if err := c.getJSON(ctx, c.proxyURL("products", strconv.FormatUint(id, 10), "variants"), &variants); err != nil {
		return nil, fmt.Errorf("failed to fetch variants: %w", err)
	}
	return variants, nil
}

type cartAddRequest struct {
	Items []domain.CartAddItem `json:"items"`
}

// AddToCart submits line items to the theme cart. Non-2xx responses are
// returned as *domain.CartError with the raw body for message extraction.
func (c *Client) AddToCart(ctx context.Context, items []domain.CartAddItem) error {
	body, err := json.Marshal(cartAddRequest{Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.storeURL+cartAddPath, body)
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.CartError{StatusCode: resp.StatusCode, Body: raw}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// SendAnalytics posts a widget beacon
func (c *Client) SendAnalytics(ctx context.Context, event domain.AnalyticsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode analytics event: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.proxyURL("analytics"), body)
	if err != nil {
		return fmt.Errorf("failed to send analytics: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("analytics endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
