package reservation

import (
	"strings"
	"time"
)

// WantedTimestamps joins the date with each wanted time of day into the
// provider's "YYYY-MM-DD HH:MM" form.
func WantedTimestamps(date time.Time, times []string) []string {
	day := date.Format("2006-01-02")
	out := make([]string, 0, len(times))
	for _, t := range times {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, day+" "+t)
	}
	return out
}

// Match returns the bookable slots whose timestamp is wanted, in the order
// the provider returned them. Slots without a booking identifier never match.
func Match(available []Slot, wanted []string) []Slot {
	if len(available) == 0 || len(wanted) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		want[w] = struct{}{}
	}
	var out []Slot
	for _, s := range available {
		if _, ok := want[s.TimeISO]; !ok {
			continue
		}
		if !s.Bookable() {
			continue
		}
		out = append(out, s)
	}
	return out
}
