// Package smtp delivers email over authenticated SMTP (Gmail by default).
package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/wneessen/go-mail"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 465
)

// Config holds the SMTP server and credentials.
type Config struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Mailer implements ports.Mailer over SMTPS.
type Mailer struct {
	cfg  Config
	send func(ctx context.Context, msg *mail.Msg) error
}

type Option func(*Mailer)

// WithSender replaces the network delivery step (used by tests).
func WithSender(send func(ctx context.Context, msg *mail.Msg) error) Option {
	return func(m *Mailer) {
		m.send = send
	}
}

// New creates a Mailer. Host and port default to Gmail's implicit-TLS endpoint.
func New(cfg Config, opts ...Option) (*Mailer, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if err := domain.RequireConfig("GMAIL_EMAIL", cfg.Username, "GMAIL_PASSWORD", cfg.Password); err != nil {
		return nil, err
	}

	m := &Mailer{cfg: cfg}
	m.send = m.dialAndSend
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Send builds the message and hands it to the server.
func (m *Mailer) Send(ctx context.Context, email domain.Email) (domain.Receipt, error) {
	if err := email.Validate(); err != nil {
		return domain.Receipt{}, err
	}

	msg, err := BuildMessage(email)
	if err != nil {
		return domain.Receipt{}, err
	}

	if err := m.send(ctx, msg); err != nil {
		return domain.Receipt{}, fmt.Errorf("smtp send via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}

	return domain.Receipt{Provider: "smtp", Status: "sent"}, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// BuildMessage converts a domain email into a plain-text MIME message.
func BuildMessage(email domain.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := setFrom(msg, email.From); err != nil {
		return nil, err
	}
	for _, to := range email.To {
		if err := addTo(msg, to); err != nil {
			return nil, err
		}
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	return msg, nil
}

func setFrom(msg *mail.Msg, a domain.Address) error {
	var err error
	if a.Name != "" {
		err = msg.FromFormat(a.Name, a.Email)
	} else {
		err = msg.From(a.Email)
	}
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", a.Email, err)
	}
	return nil
}

func addTo(msg *mail.Msg, a domain.Address) error {
	var err error
	if a.Name != "" {
		err = msg.AddToFormat(a.Name, a.Email)
	} else {
		err = msg.AddTo(a.Email)
	}
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", a.Email, err)
	}
	return nil
}
