package reservation

import (
	"errors"
	"time"
)

var (
	// ErrMalformed is returned when the availability payload lacks the
	// expected structure.
	ErrMalformed = errors.New("malformed availability response")
	// ErrHTTPStatus is returned for non-2xx provider responses.
	ErrHTTPStatus = errors.New("unexpected availability status")
)

// Slot is one offered time for a venue/date. It is only reservable when
// AccessPersistentID is non-nil.
type Slot struct {
	TimeISO            string  `json:"time_iso"`
	AccessPersistentID *string `json:"access_persistent_id"`
	Description        *string `json:"public_time_slot_description,omitempty"`
}

func (s Slot) Bookable() bool { return s.AccessPersistentID != nil }

// Seating returns the seating description, or "Unknown" when the provider
// did not send one.
func (s Slot) Seating() string {
	if s.Description == nil || *s.Description == "" {
		return "Unknown"
	}
	return *s.Description
}

type Outcome int

const (
	OutcomeAvailable Outcome = iota
	OutcomeEmpty
	OutcomeFetchError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAvailable:
		return "available"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFetchError:
		return "fetch_error"
	default:
		return "unknown"
	}
}

// Result is what one availability fetch for one date produced.
type Result struct {
	Date    time.Time
	Outcome Outcome
	Slots   []Slot
	Err     error
}

func Available(date time.Time, slots []Slot) Result {
	return Result{Date: date, Outcome: OutcomeAvailable, Slots: slots}
}

func Empty(date time.Time) Result {
	return Result{Date: date, Outcome: OutcomeEmpty}
}

func FetchFailed(date time.Time, err error) Result {
	return Result{Date: date, Outcome: OutcomeFetchError, Err: err}
}
