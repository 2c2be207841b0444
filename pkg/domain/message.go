package domain

import (
	"fmt"
	"strings"
)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email" mapstructure:"email"`
	Name  string `json:"name,omitempty" mapstructure:"name"`
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Email is a single plain-text message.
type Email struct {
	From    Address   `json:"from"`
	To      []Address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
}

// Validate checks that the message can be handed to a provider.
func (e Email) Validate() error {
	if e.From.Email == "" {
		return &MissingConfigError{Key: "sender"}
	}
	if len(e.To) == 0 || e.To[0].Email == "" {
		return &MissingConfigError{Key: "recipient"}
	}
	return nil
}

// Channel selects how a text message is routed by the telephony provider.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

const whatsAppPrefix = "whatsapp:"

// Address formats a phone number for the channel.
// WhatsApp numbers carry the "whatsapp:" scheme; adding it twice is avoided.
func (c Channel) Address(number string) string {
	number = strings.TrimSpace(number)
	if c != ChannelWhatsApp || number == "" {
		return number
	}
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}

// TextMessage is an SMS or WhatsApp message.
type TextMessage struct {
	Channel Channel `json:"channel"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Body    string  `json:"body"`
}

// Normalized returns the message with channel-specific addressing applied.
func (m TextMessage) Normalized() TextMessage {
	if m.Channel == "" {
		m.Channel = ChannelSMS
	}
	m.From = m.Channel.Address(m.From)
	m.To = m.Channel.Address(m.To)
	return m
}

// VoiceCall asks the provider to dial To and play the TwiML document at URL.
type VoiceCall struct {
	From string `json:"from"`
	To   string `json:"to"`
	URL  string `json:"url"`
}

// Receipt is what a provider hands back after accepting a request.
type Receipt struct {
	Provider string   `json:"provider"`
	ID       string   `json:"id"`
	Status   string   `json:"status,omitempty"`
	Details  []string `json:"details,omitempty"`
}
