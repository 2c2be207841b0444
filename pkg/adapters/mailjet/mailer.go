// Package mailjet sends email through the Mailjet Send API v3.1, so the
// recipient only ever sees the verified sender configured on the account.
package mailjet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/errand/pkg/domain"
	mj "github.com/mailjet/mailjet-apiv3-go/v4"
)

// Config holds the API credentials.
type Config struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// SendFunc posts a batch to the Send API.
type SendFunc func(messages *mj.MessagesV31) (*mj.ResultsV31, error)

// Mailer implements ports.Mailer on Mailjet.
type Mailer struct {
	send SendFunc
}

type Option func(*Mailer)

// WithSendFunc replaces the API call (used by tests).
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		m.send = fn
	}
}

// New creates a Mailer from API credentials.
func New(cfg Config, opts ...Option) (*Mailer, error) {
	if err := domain.RequireConfig("MAILJET_API_KEY", cfg.APIKey, "MAILJET_API_SECRET", cfg.APISecret); err != nil {
		return nil, err
	}

	client := mj.NewMailjetClient(cfg.APIKey, cfg.APISecret)
	m := &Mailer{
		send: func(messages *mj.MessagesV31) (*mj.ResultsV31, error) {
			return client.SendMailV31(messages)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Send submits a single message and reports the per-recipient message IDs.
// The Mailjet client has no context support; ctx is only checked before sending.
func (m *Mailer) Send(ctx context.Context, email domain.Email) (domain.Receipt, error) {
	if err := email.Validate(); err != nil {
		return domain.Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	res, err := m.send(BuildMessages(email))
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("mailjet send: %w", err)
	}
	if res == nil || len(res.ResultsV31) == 0 {
		return domain.Receipt{}, fmt.Errorf("mailjet send: empty response")
	}

	result := res.ResultsV31[0]
	receipt := domain.Receipt{Provider: "mailjet", Status: result.Status}
	for _, to := range result.To {
		if receipt.ID == "" {
			receipt.ID = strconv.FormatInt(to.MessageID, 10)
		}
		receipt.Details = append(receipt.Details, fmt.Sprintf("%s: %d (%s)", to.Email, to.MessageID, to.MessageUUID))
	}
	if result.Status != "success" {
		return receipt, fmt.Errorf("mailjet send: status %q", result.Status)
	}
	return receipt, nil
}

// BuildMessages converts a domain email into a Send API v3.1 payload.
func BuildMessages(email domain.Email) *mj.MessagesV31 {
	to := make(mj.RecipientsV31, 0, len(email.To))
	for _, a := range email.To {
		to = append(to, mj.RecipientV31{Email: a.Email, Name: a.Name})
	}

	return &mj.MessagesV31{
		Info: []mj.InfoMessagesV31{
			{
				From:     &mj.RecipientV31{Email: email.From.Email, Name: email.From.Name},
				To:       &to,
				Subject:  email.Subject,
				TextPart: email.Text,
			},
		},
	}
}
