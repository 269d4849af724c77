package reservation

import (
	"context"
	"time"
)

// AvailabilityProvider fetches the offered slots for a single date.
// Implementations never return past this boundary with a panic or a bare
// error: every failure is folded into the Result.
type AvailabilityProvider interface {
	Name() string
	Fetch(ctx context.Context, date time.Time) Result
}
