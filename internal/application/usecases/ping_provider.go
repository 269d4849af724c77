package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

type PingProvider struct {
	Provider reservation.AvailabilityProvider
}

type PingSummary struct {
	Provider string
	Date     time.Time
	Outcome  reservation.Outcome
	Slots    int
	Bookable int
}

// Execute fetches one date and reports how many slots are actually bookable.
// A fetch error is returned as an error; an empty day is a successful ping.
func (u PingProvider) Execute(ctx context.Context, date time.Time) (PingSummary, error) {
	if u.Provider == nil {
		return PingSummary{}, fmt.Errorf("provider is nil")
	}
	res := u.Provider.Fetch(ctx, date)
	if res.Outcome == reservation.OutcomeFetchError {
		return PingSummary{}, fmt.Errorf("%s %s: %w", u.Provider.Name(), date.Format("2006-01-02"), res.Err)
	}
	sum := PingSummary{
		Provider: u.Provider.Name(),
		Date:     date,
		Outcome:  res.Outcome,
		Slots:    len(res.Slots),
	}
	for _, s := range res.Slots {
		if s.Bookable() {
			sum.Bookable++
		}
	}
	return sum, nil
}
