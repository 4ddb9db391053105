package service

import (
	"context"
	"time"

	"casinobot/config"

	log "github.com/sirupsen/logrus"
)

// Sweeper periodically releases abandoned bet reservations and expires stale deposit requests
type Sweeper struct {
	settlement SettlementService
	payments   PaymentService
	config     *config.Config
}

// NewSweeper creates a new sweeper
func NewSweeper(settlement SettlementService, payments PaymentService, cfg *config.Config) *Sweeper {
	return &Sweeper{
		settlement: settlement,
		payments:   payments,
		config:     cfg,
	}
}

// Start runs the sweeper until ctx is cancelled or the returned stop function is called
func (w *Sweeper) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Sweeper started, running every %v", w.config.SweepInterval)

		ticker := time.NewTicker(w.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Sweeper shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Sweeper shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.SweepOnce(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// SweepOnce performs a single pass. Failures are logged and retried on the next tick.
func (w *Sweeper) SweepOnce(ctx context.Context) {
	released, err := w.settlement.ReleaseStaleReservations(ctx, w.config.ReservationTTL)
	if err != nil {
		log.Errorf("Error releasing stale reservations: %v", err)
	}

	expired, err := w.payments.ExpireStaleDeposits(ctx, w.config.DepositTTL)
	if err != nil {
		log.Errorf("Error expiring stale deposits: %v", err)
	}

	if released > 0 || expired > 0 {
		log.WithFields(log.Fields{
			"releasedReservations": released,
			"expiredDeposits":      expired,
		}).Info("Completed sweep")
	}
}
