package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

type Status int

const (
	StatusSent Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSent:
		return "sent"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Delivery is the outcome of one channel for one message.
type Delivery struct {
	Channel string
	Status  Status
	Reason  string
	Err     error
}

// Channel is a best-effort delivery target. Deliver must not panic and must
// report every failure through the returned Delivery.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, msg Message) Delivery
}

type Report struct {
	Slot       reservation.Slot
	Message    Message
	Deliveries []Delivery
}

// Sent reports whether any channel delivered the message.
func (r Report) Sent() bool {
	for _, d := range r.Deliveries {
		if d.Status == StatusSent {
			return true
		}
	}
	return false
}

// Dispatcher fans one message out to each channel in order. A failing
// channel never stops the next one.
type Dispatcher struct {
	venue    string
	channels []Channel
	dryRun   bool
	log      *zap.Logger
}

func NewDispatcher(venue string, log *zap.Logger, dryRun bool, channels ...Channel) *Dispatcher {
	return &Dispatcher{venue: venue, channels: channels, dryRun: dryRun, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, slot reservation.Slot) Report {
	msg := Format(d.venue, slot)
	rep := Report{Slot: slot, Message: msg}

	for _, ch := range d.channels {
		var del Delivery
		if d.dryRun {
			del = Delivery{Channel: ch.Name(), Status: StatusSkipped, Reason: "dry run"}
		} else {
			del = ch.Deliver(ctx, msg)
		}
		d.logDelivery(slot, del)
		rep.Deliveries = append(rep.Deliveries, del)
	}
	return rep
}

func (d *Dispatcher) logDelivery(slot reservation.Slot, del Delivery) {
	fields := []zap.Field{
		zap.String("channel", del.Channel),
		zap.String("time_iso", slot.TimeISO),
		zap.String("status", del.Status.String()),
	}
	switch del.Status {
	case StatusSent:
		d.log.Info("notification sent", fields...)
	case StatusSkipped:
		d.log.Info("notification skipped", append(fields, zap.String("reason", del.Reason))...)
	default:
		d.log.Error("notification failed", append(fields, zap.Error(del.Err))...)
	}
}
