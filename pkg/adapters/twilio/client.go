// Package twilio sends SMS and WhatsApp messages and places voice calls
// through the Twilio REST API.
package twilio

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/domain"
	sdk "github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultTwiMLURL is Twilio's demo voice document.
const DefaultTwiMLURL = "http://demo.twilio.com/docs/voice.xml"

// Config holds the account credentials.
type Config struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
}

// API is the subset of the v2010 API service used here.
type API interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// Client implements ports.Messenger and ports.Caller.
type Client struct {
	api API
}

type Option func(*Client)

// WithAPI replaces the REST service (used by tests).
func WithAPI(a API) Option {
	return func(c *Client) {
		c.api = a
	}
}

// New creates a Client from account credentials.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := domain.RequireConfig("TWILIO_SID", cfg.AccountSID, "TWILIO_AUTH", cfg.AuthToken); err != nil {
		return nil, err
	}

	rest := sdk.NewRestClientWithParams(sdk.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	c := &Client{api: rest.Api}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendText sends an SMS or, for domain.ChannelWhatsApp, a WhatsApp message.
// The Twilio SDK has no context support; ctx is only checked before sending.
func (c *Client) SendText(ctx context.Context, msg domain.TextMessage) (domain.Receipt, error) {
	msg = msg.Normalized()
	if err := domain.RequireConfig("from", msg.From, "to", msg.To); err != nil {
		return domain.Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	params := &api.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("twilio %s: %w", msg.Channel, err)
	}

	return domain.Receipt{Provider: "twilio", ID: deref(resp.Sid), Status: "queued"}, nil
}

// Call places a voice call that plays the TwiML document at call.URL.
func (c *Client) Call(ctx context.Context, call domain.VoiceCall) (domain.Receipt, error) {
	if call.URL == "" {
		call.URL = DefaultTwiMLURL
	}
	if err := domain.RequireConfig("from", call.From, "to", call.To); err != nil {
		return domain.Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Receipt{}, err
	}

	params := &api.CreateCallParams{}
	params.SetFrom(call.From)
	params.SetTo(call.To)
	params.SetUrl(call.URL)

	resp, err := c.api.CreateCall(params)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("twilio call: %w", err)
	}

	return domain.Receipt{Provider: "twilio", ID: deref(resp.Sid), Status: "initiated"}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
