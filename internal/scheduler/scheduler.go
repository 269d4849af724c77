package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
	"github.com/example/sevenrooms-watcher/internal/notify"
)

// Notifier delivers a matched slot. It never fails the caller; per-channel
// outcomes come back in the report.
type Notifier interface {
	Dispatch(ctx context.Context, slot reservation.Slot) notify.Report
}

// Reporter receives the loop state after every pass.
type Reporter interface {
	Record(st State)
}

// DateReport summarises what one date produced in a pass.
type DateReport struct {
	Date     time.Time
	Outcome  reservation.Outcome
	Err      string
	Slots    int
	Matches  []string
	Notified int
}

// State is threaded from pass to pass instead of living in package globals.
type State struct {
	RunCount   int
	LastPollAt time.Time
	LastPass   []DateReport
}

// Scheduler polls every configured date, notifies on matches, then sleeps
// for Interval. Dates are handled strictly in order on the calling goroutine.
type Scheduler struct {
	Provider reservation.AvailabilityProvider
	Notifier Notifier
	Dates    []time.Time
	Times    []string
	Interval time.Duration
	Log      *zap.Logger
	Reporter Reporter

	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Run polls until ctx is cancelled. The first pass starts immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	var st State
	for {
		st = s.Pass(ctx, st)

		select {
		case <-ctx.Done():
			s.Log.Info("scheduler stopping", zap.Int("runs", st.RunCount))
			return ctx.Err()
		case <-s.after(s.Interval):
		}
	}
}

// Pass performs one full iteration over all dates and returns the next state.
// A failure on one date never stops the remaining dates.
func (s *Scheduler) Pass(ctx context.Context, prev State) State {
	next := State{
		RunCount:   prev.RunCount + 1,
		LastPollAt: s.now(),
		LastPass:   make([]DateReport, 0, len(s.Dates)),
	}
	log := s.Log.With(zap.String("pass_id", uuid.NewString()), zap.Int("run", next.RunCount))
	log.Info("poll pass started", zap.Int("dates", len(s.Dates)))

	for _, d := range s.Dates {
		if ctx.Err() != nil {
			log.Info("poll pass interrupted")
			break
		}
		next.LastPass = append(next.LastPass, s.pollDate(ctx, log, d))
	}

	if s.Reporter != nil {
		s.Reporter.Record(next)
	}
	return next
}

func (s *Scheduler) pollDate(ctx context.Context, log *zap.Logger, date time.Time) DateReport {
	day := date.Format("2006-01-02")
	res := s.Provider.Fetch(ctx, date)
	rep := DateReport{Date: date, Outcome: res.Outcome, Slots: len(res.Slots)}

	switch res.Outcome {
	case reservation.OutcomeFetchError:
		if res.Err != nil {
			rep.Err = res.Err.Error()
		}
		log.Warn("availability fetch failed", zap.String("date", day), zap.Error(res.Err))
		return rep
	case reservation.OutcomeEmpty:
		log.Info("no times available", zap.String("date", day))
		return rep
	}

	wanted := reservation.WantedTimestamps(date, s.Times)
	matches := reservation.Match(res.Slots, wanted)
	log.Info("availability fetched",
		zap.String("date", day),
		zap.Int("slots", len(res.Slots)),
		zap.Strings("wanted", wanted),
		zap.Int("matches", len(matches)),
	)

	for _, m := range matches {
		rep.Matches = append(rep.Matches, m.TimeISO)
		log.Info("booking available", zap.String("time_iso", m.TimeISO), zap.String("seating", m.Seating()))
		if s.Notifier.Dispatch(ctx, m).Sent() {
			rep.Notified++
		}
	}
	return rep
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) after(d time.Duration) <-chan time.Time {
	if s.After != nil {
		return s.After(d)
	}
	return time.After(d)
}
