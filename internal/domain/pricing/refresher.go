// internal/domain/pricing/refresher.go
package pricing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/config"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/monitoring"
)

// Refresher keeps the cached token price warm with a fixed-interval poll.
// It is an explicit, cancelable task tied to process lifetime rather than an
// ambient timer: Stop (or canceling the context) ends the loop and no
// further requests are made.
type Refresher struct {
	client   *Client
	logger   *logrus.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewRefresher creates a new price refresher
func NewRefresher(client *Client, logger *logrus.Logger, cfg *config.Config) *Refresher {
	return &Refresher{
		client:   client,
		logger:   logger,
		interval: cfg.PriceFeed.RefreshInterval,
		stopChan: make(chan struct{}),
	}
}

// Start runs the refresh loop until the context is canceled or Stop is
// called. Intended to run in its own goroutine.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.WithField("interval", r.interval.String()).Info("Starting price refresher")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Price refresher stopped")
			return
		case <-r.stopChan:
			r.logger.Info("Price refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop ends the refresh loop.
func (r *Refresher) Stop() {
	close(r.stopChan)
}

func (r *Refresher) refresh(ctx context.Context) {
	price, err := r.client.FetchPrice(ctx)
	if err != nil {
		// Not fatal: readers fall back to the cached or configured price.
		monitoring.PriceRefreshTotal.WithLabelValues("error").Inc()
		r.logger.WithError(err).Warn("Price feed refresh failed")
		return
	}
	monitoring.PriceRefreshTotal.WithLabelValues("success").Inc()
	r.logger.WithField("price_usd", price).Debug("Token price refreshed")
}
