package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/crates/internal/domain"
)

const (
	// DefaultSyncInterval is the pause between library status probes
	DefaultSyncInterval = time.Second
	// DefaultSyncTimeout bounds a whole library sync
	DefaultSyncTimeout = 120 * time.Second
)

// SyncPoller starts a library refresh and polls its status until the
// library settles
type SyncPoller struct {
	repo     domain.LibraryRepository
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSyncPoller creates a poller. Zero durations select the defaults.
func NewSyncPoller(repo domain.LibraryRepository, interval, timeout time.Duration, logger *slog.Logger) *SyncPoller {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncPoller{repo: repo, interval: interval, timeout: timeout, logger: logger}
}

// Sync posts the refresh, then probes immediately and once per interval.
// It returns when the library reaches UPDATED or IMPORTING_AFTER_FIRST_PAGE,
// fails with ErrLibraryUpdateFailed on UPDATE_FAILED, and fails with
// ErrSyncTimeout when the timeout elapses first. onPoll may be nil.
func (p *SyncPoller) Sync(ctx context.Context, onPoll domain.PollFunc) (domain.SyncResult, error) {
	if err := p.repo.StartSync(ctx); err != nil {
		return domain.SyncResult{}, fmt.Errorf("start library sync: %w", err)
	}

	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var result domain.SyncResult
	for {
		result.Attempts++
		lib, err := p.repo.GetLibrary(pollCtx)
		if err != nil {
			return result, p.pollError(ctx, pollCtx, err)
		}
		result.Library = lib
		if onPoll != nil {
			onPoll(result.Attempts, lib)
		}
		p.logger.Debug("library sync probe", "attempt", result.Attempts, "state", lib.State)

		if lib.State.SyncSettled() {
			if lib.State == domain.LibraryUpdateFailed {
				return result, domain.ErrLibraryUpdateFailed
			}
			p.logger.Info("library sync finished", "attempts", result.Attempts, "state", lib.State)
			return result, nil
		}

		select {
		case <-pollCtx.Done():
			return result, p.pollError(ctx, pollCtx, pollCtx.Err())
		case <-ticker.C:
		}
	}
}

// pollError separates the poll's own deadline from cancellation by the caller
func (p *SyncPoller) pollError(parent, pollCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		p.logger.Warn("library sync timed out", "timeout", p.timeout)
		return domain.ErrSyncTimeout
	}
	return fmt.Errorf("poll library: %w", err)
}
