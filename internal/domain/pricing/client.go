// internal/domain/pricing/client.go
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
)

const priceCacheKey = "price:token_usd"

// Client fetches the payment token's USD price from an external feed. The
// price is a UX estimate only; the contract validates pricing through its own
// on-chain oracle, so a feed outage must never block a purchase. Every read
// path degrades to the configured fallback price instead of returning an
// error.
type Client struct {
	httpClient  *http.Client
	redisClient *redis.Client
	config      *config.Config
}

// NewClient creates a new price feed client
func NewClient(redisClient *redis.Client, cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.PriceFeed.RequestTimeout,
		},
		redisClient: redisClient,
		config:      cfg,
	}
}

// TokenUSDPrice returns the current USD price of the payment token, serving
// the cached value when fresh and falling back to the configured constant on
// any failure. It never returns an error.
func (c *Client) TokenUSDPrice(ctx context.Context) float64 {
	if cached, ok := c.cachedPrice(ctx); ok {
		return cached
	}

	price, err := c.FetchPrice(ctx)
	if err != nil {
		return c.config.PriceFeed.FallbackPriceUSD
	}
	return price
}

// FetchPrice performs one request against the feed and caches a successful
// result. A single attempt is sufficient; the contract re-validates pricing
// server-side.
func (c *Client) FetchPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.PriceFeed.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build price feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, fmt.Errorf("failed to read price feed response: %w", err)
	}

	// Schema: { "<assetKey>": { "usd": <number> } }
	var payload map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("malformed price feed response: %w", err)
	}

	entry, ok := payload[c.config.PriceFeed.AssetKey]
	if !ok {
		return 0, fmt.Errorf("price feed response missing asset %q", c.config.PriceFeed.AssetKey)
	}
	if entry.USD <= 0 {
		return 0, fmt.Errorf("price feed returned non-positive price %v", entry.USD)
	}

	c.cachePrice(ctx, entry.USD)
	return entry.USD, nil
}

func (c *Client) cachedPrice(ctx context.Context) (float64, bool) {
	if c.redisClient == nil {
		return 0, false
	}

	data, err := c.redisClient.Get(ctx, priceCacheKey).Result()
	if err != nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(data, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func (c *Client) cachePrice(ctx context.Context, price float64) {
	if c.redisClient == nil {
		return
	}
	// Cache failures are invisible to callers; the next read refetches.
	c.redisClient.Set(ctx, priceCacheKey,
		strconv.FormatFloat(price, 'f', -1, 64), c.config.PriceFeed.CacheTTL)
}
