package sevenrooms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/config"
	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

const (
	availabilityPath = "/api-yoa/availability/widget/range"
	defaultUA        = "Mozilla/5.0 (X11; Linux x86_64) sevenrooms-watcher/1.0"

	// Provider wants MM-DD-YYYY in the query but keys the response by YYYY-MM-DD.
	queryDateLayout    = "01-02-2006"
	responseDateLayout = "2006-01-02"
)

// Client is a minimal client for the SevenRooms reservation widget
// availability endpoint.
type Client struct {
	hc   *http.Client
	base string
	ua   string
	log  *zap.Logger

	venue     string
	partySize int
	timeSlot  string
	channel   string
}

func New(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		hc:        &http.Client{Timeout: cfg.HTTPTimeout()},
		base:      cfg.SevenRooms.BaseURL,
		ua:        defaultUA,
		log:       log,
		venue:     cfg.Venue,
		partySize: cfg.PartySize,
		timeSlot:  cfg.MainTime,
		channel:   cfg.SevenRooms.Channel,
	}
}

func (c *Client) Name() string { return "sevenrooms" }

// Fetch asks for one day of availability around the configured time slot.
func (c *Client) Fetch(ctx context.Context, date time.Time) reservation.Result {
	params := map[string]string{
		"venue":              c.venue,
		"time_slot":          c.timeSlot,
		"party_size":         strconv.Itoa(c.partySize),
		"halo_size_interval": "16",
		"start_date":         date.Format(queryDateLayout),
		"num_days":           "1",
		"channel":            c.channel,
	}
	status, body, err := c.do(ctx, http.MethodGet, c.base+availabilityPath, params)
	if err != nil {
		return reservation.FetchFailed(date, fmt.Errorf("sevenrooms availability: %w", err))
	}
	if status < 200 || status >= 300 {
		return reservation.FetchFailed(date, fmt.Errorf("%w: http %d", reservation.ErrHTTPStatus, status))
	}
	return c.parseAvailability(date, body)
}

// Slots are decoded one by one so a single odd entry does not hide the
// bookable ones next to it.
type availabilityDay struct {
	Times []json.RawMessage `json:"times"`
}

type availabilityResponse struct {
	Data *struct {
		Availability map[string][]availabilityDay `json:"availability"`
	} `json:"data"`
}

func (c *Client) parseAvailability(date time.Time, body []byte) reservation.Result {
	var parsed availabilityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return reservation.FetchFailed(date, fmt.Errorf("%w: %v", reservation.ErrMalformed, err))
	}
	if parsed.Data == nil || parsed.Data.Availability == nil {
		return reservation.FetchFailed(date, fmt.Errorf("%w: missing data.availability", reservation.ErrMalformed))
	}
	day := date.Format(responseDateLayout)
	days := parsed.Data.Availability[day]
	if len(days) == 0 || len(days[0].Times) == 0 {
		return reservation.Empty(date)
	}

	slots := make([]reservation.Slot, 0, len(days[0].Times))
	for i, raw := range days[0].Times {
		var s reservation.Slot
		if err := json.Unmarshal(raw, &s); err != nil {
			c.log.Warn("skipping malformed slot",
				zap.String("date", day),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		slots = append(slots, s)
	}
	if len(slots) == 0 {
		return reservation.FetchFailed(date, fmt.Errorf("%w: no decodable slots for %s", reservation.ErrMalformed, day))
	}
	return reservation.Available(date, slots)
}

func (c *Client) do(ctx context.Context, method, rawURL string, query map[string]string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("user-agent", c.ua)
	req.Header.Set("accept", "application/json")
	req.Header.Set("cache-control", "no-cache")

	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
