// Package scheduler fires reservation reminder notifications at fixed
// offsets around a reservation's start and end times.
//
// The job table is process-local. Jobs for committed reservations are
// re-derived at startup via Reconcile; the expiry sweep remains the
// durability backstop for the end-of-reservation notice.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
)

type Phase string

const (
	PhasePreStart Phase = "pre-start"
	PhaseStart    Phase = "start"
	PhasePreEnd   Phase = "pre-end"
	PhaseEnd      Phase = "end"
)

const reminderLead = 30 * time.Minute

// JobKey is deterministic so cancellation can remove pending jobs by
// exact match.
type JobKey struct {
	Phase         Phase
	ReservationID int64
}

type Job struct {
	Key     JobKey
	FireAt  time.Time
	UserID  int64
	Message string
}

type NotificationWriter interface {
	Create(ctx context.Context, userID int64, message string) error
}

type ReservationSource interface {
	ListPendingReminders(ctx context.Context, now time.Time) ([]model.Reservation, error)
}

type Scheduler struct {
	notifs NotificationWriter
	log    *slog.Logger

	mu   sync.Mutex
	jobs map[JobKey]Job
}

func New(notifs NotificationWriter, log *slog.Logger) *Scheduler {
	return &Scheduler{
		notifs: notifs,
		log:    log,
		jobs:   make(map[JobKey]Job),
	}
}

// Schedule registers the reminder jobs for a reservation. Candidates
// whose fire time is not strictly in the future are skipped; past
// reminders are never backfilled.
func (s *Scheduler) Schedule(res model.Reservation, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range candidates(res) {
		if !j.FireAt.After(now) {
			continue
		}
		s.jobs[j.Key] = j
	}
}

func candidates(res model.Reservation) []Job {
	jobs := []Job{
		{
			Key:     JobKey{PhasePreStart, res.ID},
			FireAt:  res.StartTime.Add(-reminderLead),
			UserID:  res.UserID,
			Message: fmt.Sprintf("Your reservation for %s starts in 30 minutes.", res.LotName),
		},
		{
			Key:     JobKey{PhaseStart, res.ID},
			FireAt:  res.StartTime,
			UserID:  res.UserID,
			Message: fmt.Sprintf("Your reservation for %s has started.", res.LotName),
		},
	}
	// The pre-end reminder only makes sense when it lands after the
	// reservation has started.
	if res.EndTime.Sub(res.StartTime) > reminderLead {
		jobs = append(jobs, Job{
			Key:     JobKey{PhasePreEnd, res.ID},
			FireAt:  res.EndTime.Add(-reminderLead),
			UserID:  res.UserID,
			Message: fmt.Sprintf("Your reservation for %s ends in 30 minutes.", res.LotName),
		})
	}
	return append(jobs, Job{
		Key:     JobKey{PhaseEnd, res.ID},
		FireAt:  res.EndTime,
		UserID:  res.UserID,
		Message: fmt.Sprintf("Your reservation for %s has ended.", res.LotName),
	})
}

// Remove drops all pending jobs for a reservation. Absent keys are a
// no-op: the job may have fired already or never been scheduled.
func (s *Scheduler) Remove(reservationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range []Phase{PhasePreStart, PhaseStart, PhasePreEnd, PhaseEnd} {
		delete(s.jobs, JobKey{p, reservationID})
	}
}

// Reconcile rebuilds the job table from committed reservations after a
// restart. Schedule's future-only rule drops anything already past.
func (s *Scheduler) Reconcile(ctx context.Context, src ReservationSource, now time.Time) error {
	pending, err := src.ListPendingReminders(ctx, now)
	if err != nil {
		return err
	}
	for _, res := range pending {
		s.Schedule(res, now)
	}
	return nil
}

// Run drives job firing from a single goroutine.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.fire(ctx, time.Now().UTC())
		}
	}
}

// fire emits every due job once. Jobs are independent: a failed insert
// is logged and dropped, not retried; the expiry sweep covers the end
// notice.
func (s *Scheduler) fire(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []Job
	for k, j := range s.jobs {
		if !j.FireAt.After(now) {
			due = append(due, j)
			delete(s.jobs, k)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		if err := s.notifs.Create(ctx, j.UserID, j.Message); err != nil {
			s.log.Error("reminder notification failed",
				"phase", j.Key.Phase, "reservation_id", j.Key.ReservationID, "err", err)
		}
	}
}

// Pending returns a snapshot of the job table ordered by fire time.
func (s *Scheduler) Pending() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].FireAt.Equal(out[k].FireAt) {
			return out[i].Key.Phase < out[k].Key.Phase
		}
		return out[i].FireAt.Before(out[k].FireAt)
	})
	return out
}
