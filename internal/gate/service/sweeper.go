package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spectrelabs/authgate/internal/gate/store"
)

// SweeperService periodically drops revocation entries whose tokens
// have expired anyway, so the registry doesn't grow forever. The sweep
// never blocks Revoke/IsRevoked for unrelated keys; it is an ordinary
// store call.
type SweeperService struct {
	Revocations store.Revocations
	Logger      *slog.Logger
	Interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSweeperService creates a sweeper with the given interval,
// defaulting to an hour when unset.
func NewSweeperService(rev store.Revocations, logger *slog.Logger, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &SweeperService{
		Revocations: rev,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to
// shut it down.
func (s *SweeperService) Start() {
	go s.run()
	s.Logger.Info("revocation sweeper started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress sweep
// finishes.
func (s *SweeperService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("revocation sweeper stopped")
}

func (s *SweeperService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SweeperService) sweep() {
	removed, err := s.Revocations.DeleteExpired(context.Background(), time.Now().UTC())
	if err != nil {
		s.Logger.Error("revocation sweep failed", "err", err)
		return
	}
	if removed > 0 {
		s.Logger.Debug("revocation sweep", "removed", removed)
	}
}
