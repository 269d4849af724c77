package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/example/sevenrooms-watcher/internal/config"
)

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

// Email sends each message over a fresh SMTP session: connect, STARTTLS,
// PLAIN auth, send, close.
type Email struct {
	cfg  config.Email
	dial func(cfg config.Email) (mailSender, error)
}

func NewEmail(cfg config.Email) *Email {
	return &Email{cfg: cfg, dial: newSMTPClient}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Deliver(ctx context.Context, msg Message) Delivery {
	if !e.cfg.Enabled {
		return Delivery{Channel: e.Name(), Status: StatusSkipped, Reason: "disabled"}
	}
	if missing := e.cfg.Missing(); len(missing) > 0 {
		return Delivery{Channel: e.Name(), Status: StatusSkipped, Reason: "missing " + strings.Join(missing, ",")}
	}

	m, err := e.build(msg)
	if err != nil {
		return Delivery{Channel: e.Name(), Status: StatusFailed, Err: err}
	}
	client, err := e.dial(e.cfg)
	if err != nil {
		return Delivery{Channel: e.Name(), Status: StatusFailed, Err: fmt.Errorf("smtp client: %w", err)}
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return Delivery{Channel: e.Name(), Status: StatusFailed, Err: fmt.Errorf("smtp send: %w", err)}
	}
	return Delivery{Channel: e.Name(), Status: StatusSent}
}

func (e *Email) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(e.cfg.Username); err != nil {
		return nil, fmt.Errorf("email from: %w", err)
	}
	var to []string
	for _, addr := range strings.Split(e.cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if err := m.To(to...); err != nil {
		return nil, fmt.Errorf("email to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

func newSMTPClient(cfg config.Email) (mailSender, error) {
	c, err := mail.NewClient(cfg.SMTPServer,
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
