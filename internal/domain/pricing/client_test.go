package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
)

func feedConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.PriceFeed.URL = url
	cfg.PriceFeed.AssetKey = "starknet"
	cfg.PriceFeed.FallbackPriceUSD = 2.0
	cfg.PriceFeed.RequestTimeout = 2 * time.Second
	cfg.PriceFeed.CacheTTL = time.Minute
	return cfg
}

func TestTokenUSDPriceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"starknet":{"usd":1.53}}`))
	}))
	defer server.Close()

	client := NewClient(nil, feedConfig(server.URL))
	price := client.TokenUSDPrice(context.Background())
	if price != 1.53 {
		t.Errorf("price = %v, want 1.53", price)
	}
}

func TestTokenUSDPriceFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "missing asset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ethereum":{"usd":3000}}`))
			},
		},
		{
			name: "non-positive price",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"starknet":{"usd":0}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(nil, feedConfig(server.URL))
			price := client.TokenUSDPrice(context.Background())
			if price != 2.0 {
				t.Errorf("price = %v, want fallback 2.0", price)
			}
		})
	}
}

func TestTokenUSDPriceUnreachableFeed(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(nil, feedConfig(server.URL))
	price := client.TokenUSDPrice(context.Background())
	if price != 2.0 {
		t.Errorf("price = %v, want fallback 2.0", price)
	}
}
