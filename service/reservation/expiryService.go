package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
)

const sweepBatchSize = 100

// SweepRepo is the slice of the reservation repository the expiry
// sweep needs. ExpireAndNotify must be atomic per row and report
// whether the row was claimed.
type SweepRepo interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
	ExpireAndNotify(ctx context.Context, id, userID int64, message string) (bool, error)
}

// Sweeper notifies users whose reservations have expired. It is the
// durability backstop for the scheduler's end-of-reservation reminder:
// jobs lost to a restart are still caught here.
type Sweeper interface {
	RunExpirySweep(ctx context.Context, now time.Time) (int, error)
	Run(ctx context.Context, interval time.Duration)
}

type sweeper struct {
	r   SweepRepo
	log *slog.Logger
}

func NewSweeper(r SweepRepo, log *slog.Logger) Sweeper {
	return &sweeper{r: r, log: log}
}

// RunExpirySweep is idempotent under at-least-once execution: each
// row's notification insert and notified flip commit together, and the
// claim re-checks the flag, so a re-run cannot double-notify.
func (s *sweeper) RunExpirySweep(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.r.ListExpired(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, res := range rows {
		msg := fmt.Sprintf("Your reservation for %s has expired.", res.LotName)
		claimed, err := s.r.ExpireAndNotify(ctx, res.ID, res.UserID, msg)
		if err != nil {
			// One bad row must not halt the sweep.
			s.log.Error("expiry sweep row failed", "reservation_id", res.ID, "err", err)
			continue
		}
		if claimed {
			notified++
		}
	}
	return notified, nil
}

func (s *sweeper) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.RunExpirySweep(ctx, time.Now().UTC())
			if err != nil {
				s.log.Error("expiry sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("expiry sweep", "notified", n)
			}
		}
	}
}
