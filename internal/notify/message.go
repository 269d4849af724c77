package notify

import (
	"fmt"

	"github.com/example/sevenrooms-watcher/internal/domain/reservation"
)

const (
	subject        = "Booking is now available"
	bookingBaseURL = "https://www.sevenrooms.com/reservations/"
)

type Message struct {
	Subject string
	Body    string
}

// Format builds the notification for a matched slot at venue.
func Format(venue string, slot reservation.Slot) Message {
	body := fmt.Sprintf("Booking for %s is now available.\nSeating: %s\n\nBook here: %s",
		slot.TimeISO, slot.Seating(), BookingURL(venue))
	return Message{Subject: subject, Body: body}
}

func BookingURL(venue string) string {
	return bookingBaseURL + venue
}

// ChatText is the plain-text form sent to chat channels.
func (m Message) ChatText() string {
	return fmt.Sprintf("Subject: %s\n\n%s", m.Subject, m.Body)
}
