// Package phonepe is a thin client for the PhonePe payments REST API:
// client-credentials OAuth, checkout order creation and order status.
package phonepe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	// orderExpirySeconds is how long a created checkout order stays payable.
	orderExpirySeconds = 1800

	// tokenExpirySlack refreshes the OAuth token slightly before PhonePe
	// considers it expired.
	tokenExpirySlack = 60 * time.Second
)

// Config holds the PhonePe API endpoints and credentials.
type Config struct {
	ClientID      string
	ClientSecret  string
	ClientVersion string
	AuthURL       string
	CheckoutURL   string
	StatusURL     string
}

// Client talks to the PhonePe API. It caches the OAuth access token until
// shortly before expiry; concurrent callers share one token.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a PhonePe client. httpClient may be nil, in which case a
// default client with a 30s timeout is used.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("PhonePe client ID and secret are required")
	}
	if cfg.AuthURL == "" || cfg.CheckoutURL == "" || cfg.StatusURL == "" {
		return nil, fmt.Errorf("PhonePe auth, checkout and status URLs are required")
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = "1"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// CreateOrderRequest describes one checkout order to create.
type CreateOrderRequest struct {
	MerchantOrderID string
	AmountPaise     int64
	MetaInfo        map[string]string
}

// CreateOrderResponse is the gateway's answer to a created order.
type CreateOrderResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CheckoutPageURL is where the client completes payment for the given token.
func CheckoutPageURL(token string) string {
	return "https://checkout.phonepe.com/v2/" + token
}

// CreateOrder creates a checkout order with the IFRAME payment flow and a
// 30-minute expiry, mirroring the website checkout.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"merchantOrderId": req.MerchantOrderID,
		"amount":          req.AmountPaise,
		"paymentFlow":     "IFRAME",
		"expireAfter":     orderExpirySeconds,
		"metaInfo":        req.MetaInfo,
		"paymentModeConfig": map[string]interface{}{
			"enabledModes":  []string{"UPI", "CARD", "NET_BANKING", "WALLET"},
			"disabledModes": []string{},
		},
	}

	var resp CreateOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.CheckoutURL, "O-Bearer "+token, payload, &resp); err != nil {
		return nil, fmt.Errorf("order creation failed for %s: %w", req.MerchantOrderID, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("order creation for %s returned no token", req.MerchantOrderID)
	}
	return &resp, nil
}

// OrderStatus fetches the detailed status of a checkout order.
func (c *Client) OrderStatus(ctx context.Context, merchantOrderID string) (map[string]interface{}, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/status?details=true", c.cfg.StatusURL, merchantOrderID)
	var status map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, url, "O-Bearer "+token, nil, &status); err != nil {
		return nil, fmt.Errorf("status check failed for %s: %w", merchantOrderID, err)
	}
	return status, nil
}

// accessToken returns a valid OAuth access token, fetching a fresh one when
// the cached token is missing or about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.token, nil
	}

	payload := map[string]string{
		"client_id":      c.cfg.ClientID,
		"client_secret":  c.cfg.ClientSecret,
		"client_version": c.cfg.ClientVersion,
		"grant_type":     "client_credentials",
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.AuthURL, "", payload, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("auth response contained no access token")
	}

	c.token = tokenResp.AccessToken
	if tokenResp.ExpiresAt > 0 {
		c.tokenExpiry = time.Unix(tokenResp.ExpiresAt, 0)
	} else {
		c.tokenExpiry = time.Now().Add(10 * time.Minute)
	}
	return c.token, nil
}

// doJSON performs one JSON request/response round trip.
func (c *Client) doJSON(ctx context.Context, method, url, authorization string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", url, err)
		}
	}
	return nil
}
