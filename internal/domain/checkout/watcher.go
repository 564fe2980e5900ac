// internal/domain/checkout/watcher.go
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/monitoring"
	"github.com/Olowodarey/web3-ecommerce/internal/infrastructure/starknet"
)

const receiptPollTimeout = 10 * time.Second

// watch polls for the transaction receipt until it appears or the service
// shuts down. There is no overall deadline: a transaction can sit in the
// mempool for a long time and still land, and declaring it failed early
// would desync the session from the chain.
func (s *Service) watch(checkoutID, txHash string) {
	log := s.logger.WithFields(logrus.Fields{
		"checkout_id": checkoutID,
		"tx_hash":     txHash,
	})

	ticker := time.NewTicker(s.config.Starknet.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			log.Info("Receipt watch stopped")
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), receiptPollTimeout)
			receipt, err := s.receipts.TransactionReceipt(ctx, txHash)
			cancel()

			if errors.Is(err, starknet.ErrReceiptNotFound) {
				// Not yet included in a block.
				monitoring.ReceiptPollsTotal.WithLabelValues("pending").Inc()
				continue
			}
			if err != nil {
				monitoring.ReceiptPollsTotal.WithLabelValues("error").Inc()
				log.WithError(err).Warn("Receipt poll failed")
				continue
			}

			monitoring.ReceiptPollsTotal.WithLabelValues("found").Inc()
			s.settle(checkoutID, receipt, log)
			return
		}
	}
}

// settle applies the receipt outcome to the session. Only a confirmed
// checkout clears the cart; every failure keeps it so the user can retry.
func (s *Service) settle(checkoutID string, receipt *starknet.Receipt, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), receiptPollTimeout)
	defer cancel()

	session, err := s.Get(ctx, checkoutID)
	if err != nil {
		log.WithError(err).Error("Failed to load session for settlement")
		return
	}

	if receipt.Succeeded() {
		if err := session.MarkConfirmed(); err != nil {
			log.WithError(err).Warn("Skipping settlement")
			return
		}
		if err := s.save(ctx, session); err != nil {
			log.WithError(err).Error("Failed to save confirmed session")
			return
		}
		if err := s.carts.Clear(ctx, session.CartSessionID); err != nil {
			log.WithError(err).Warn("Failed to clear cart after confirmation")
		}
		s.clearActive(ctx, session)
		monitoring.CheckoutsTotal.WithLabelValues(string(StatusConfirmed)).Inc()
		log.Info("Checkout confirmed")
		return
	}

	kind := ClassifyFailure(receipt.RevertReason)
	if err := session.MarkFailed(kind, receipt.RevertReason); err != nil {
		log.WithError(err).Warn("Skipping settlement")
		return
	}
	if err := s.save(ctx, session); err != nil {
		log.WithError(err).Error("Failed to save failed session")
		return
	}
	s.clearActive(ctx, session)
	monitoring.CheckoutsTotal.WithLabelValues(string(StatusFailed)).Inc()
	log.WithFields(logrus.Fields{
		"error_kind": kind,
		"revert":     receipt.RevertReason,
	}).Info("Checkout failed on chain")
}
