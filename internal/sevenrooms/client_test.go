package sevenrooms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/sevenrooms-watcher/internal/config"
	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

const availableBody = `{
  "status": 200,
  "data": {
    "availability": {
      "2024-05-01": [
        {
          "name": "Dinner",
          "times": [
            {"time_iso": "2024-05-01 18:45", "access_persistent_id": null},
            {"time_iso": "2024-05-01 19:00", "access_persistent_id": "abc123", "public_time_slot_description": "Patio"}
          ]
        }
      ]
    }
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.Config{
		Venue:      "venue-x",
		PartySize:  3,
		MainTime:   "19:00",
		SevenRooms: config.SevenRooms{BaseURL: srv.URL, Channel: "SEVENROOMS_WIDGET", TimeoutSeconds: 5},
	}, zap.NewNop())
}

func day(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", "2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFetch_SendsProviderQuery(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("want GET, got %s", r.Method)
		}
		if r.URL.Path != availabilityPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		got = r.URL.Query()
		_, _ = w.Write([]byte(availableBody))
	})

	c.Fetch(context.Background(), day(t))

	want := map[string]string{
		"venue":              "venue-x",
		"time_slot":          "19:00",
		"party_size":         "3",
		"halo_size_interval": "16",
		"start_date":         "05-01-2024",
		"num_days":           "1",
		"channel":            "SEVENROOMS_WIDGET",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Fatalf("query %s: want %q, got %q", k, v, got.Get(k))
		}
	}
}

func TestFetch_Available(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(availableBody))
	})

	res := c.Fetch(context.Background(), day(t))
	if res.Outcome != reservation.OutcomeAvailable {
		t.Fatalf("want available, got %s (%v)", res.Outcome, res.Err)
	}
	if len(res.Slots) != 2 {
		t.Fatalf("want 2 slots, got %d", len(res.Slots))
	}
	if res.Slots[0].AccessPersistentID != nil {
		t.Fatalf("null access_persistent_id should decode to nil")
	}
	s := res.Slots[1]
	if s.TimeISO != "2024-05-01 19:00" || s.AccessPersistentID == nil || *s.AccessPersistentID != "abc123" {
		t.Fatalf("unexpected slot %+v", s)
	}
	if s.Seating() != "Patio" {
		t.Fatalf("want Patio, got %q", s.Seating())
	}
}

func TestFetch_EmptyOutcomes(t *testing.T) {
	bodies := map[string]string{
		"date missing": `{"data":{"availability":{"2024-05-02":[{"times":[{"time_iso":"2024-05-02 19:00","access_persistent_id":"x"}]}]}}}`,
		"no entries":   `{"data":{"availability":{"2024-05-01":[]}}}`,
		"no times":     `{"data":{"availability":{"2024-05-01":[{"times":[]}]}}}`,
	}
	for name, body := range bodies {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		res := c.Fetch(context.Background(), day(t))
		if res.Outcome != reservation.OutcomeEmpty {
			t.Fatalf("%s: want empty, got %s (%v)", name, res.Outcome, res.Err)
		}
		if res.Err != nil || len(res.Slots) != 0 {
			t.Fatalf("%s: empty result should carry no error or slots: %+v", name, res)
		}
	}
}

func TestFetch_MalformedIsFetchError(t *testing.T) {
	bodies := map[string]string{
		"not json":          `<html>oops</html>`,
		"no data":           `{"status":500,"msg":"error"}`,
		"no availability":   `{"data":{}}`,
		"null availability": `{"data":{"availability":null}}`,
	}
	for name, body := range bodies {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		res := c.Fetch(context.Background(), day(t))
		if res.Outcome != reservation.OutcomeFetchError {
			t.Fatalf("%s: want fetch error, got %s", name, res.Outcome)
		}
		if !errors.Is(res.Err, reservation.ErrMalformed) {
			t.Fatalf("%s: want ErrMalformed, got %v", name, res.Err)
		}
	}
}

func TestFetch_SkipsUndecodableSlot(t *testing.T) {
	body := `{"data":{"availability":{"2024-05-01":[{"times":[
		{"time_iso":"2024-05-01 18:30","access_persistent_id":12345},
		{"time_iso":"2024-05-01 19:00","access_persistent_id":"abc","public_time_slot_description":"Patio"}
	]}]}}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	core, logs := observer.New(zapcore.WarnLevel)
	c.log = zap.New(core)

	res := c.Fetch(context.Background(), day(t))
	if res.Outcome != reservation.OutcomeAvailable {
		t.Fatalf("want available, got %s (%v)", res.Outcome, res.Err)
	}
	if len(res.Slots) != 1 || res.Slots[0].TimeISO != "2024-05-01 19:00" || res.Slots[0].Seating() != "Patio" {
		t.Fatalf("want only the valid 19:00 slot, got %+v", res.Slots)
	}
	skipped := logs.FilterMessage("skipping malformed slot").All()
	if len(skipped) != 1 || skipped[0].ContextMap()["index"] != int64(0) {
		t.Fatalf("want one skip log for index 0, got %+v", skipped)
	}
}

func TestFetch_NoDecodableSlotsIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"availability":{"2024-05-01":[{"times":[{"time_iso":7}]}]}}}`))
	})
	res := c.Fetch(context.Background(), day(t))
	if res.Outcome != reservation.OutcomeFetchError || !errors.Is(res.Err, reservation.ErrMalformed) {
		t.Fatalf("want malformed fetch error, got %s (%v)", res.Outcome, res.Err)
	}
}

func TestFetch_HTTPStatusIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	res := c.Fetch(context.Background(), day(t))
	if res.Outcome != reservation.OutcomeFetchError || !errors.Is(res.Err, reservation.ErrHTTPStatus) {
		t.Fatalf("want http status fetch error, got %s (%v)", res.Outcome, res.Err)
	}
}

func TestFetch_TransportErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(config.Config{Venue: "v", PartySize: 2, MainTime: "19:00", SevenRooms: config.SevenRooms{BaseURL: base}}, zap.NewNop())
	res := c.Fetch(context.Background(), day(t))
	if res.Outcome != reservation.OutcomeFetchError || res.Err == nil {
		t.Fatalf("want fetch error for closed server, got %+v", res)
	}
}
