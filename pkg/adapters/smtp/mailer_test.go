package smtp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func testEmail() domain.Email {
	return domain.Email{
		From:    domain.Address{Email: "sender@example.com"},
		To:      []domain.Address{{Email: "receiver@example.com", Name: "Receiver"}},
		Subject: "Hello from errand",
		Text:    "Hi, this is a test email.",
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{Username: "sender@example.com"})
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
	assert.ErrorContains(t, err, "GMAIL_PASSWORD")
}

func TestNew_Defaults(t *testing.T) {
	m, err := New(Config{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, m.cfg.Host)
	assert.Equal(t, DefaultPort, m.cfg.Port)
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(testEmail())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Hello from errand")
	assert.Contains(t, raw, "<sender@example.com>")
	assert.Contains(t, raw, "<receiver@example.com>")
	assert.Contains(t, raw, "Hi, this is a test email.")
}

func TestBuildMessage_InvalidAddress(t *testing.T) {
	email := testEmail()
	email.To = []domain.Address{{Email: "not an address"}}

	_, err := BuildMessage(email)
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestMailer_Send(t *testing.T) {
	var sent *mail.Msg
	m, err := New(Config{Username: "u", Password: "p"}, WithSender(func(ctx context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}))
	require.NoError(t, err)

	receipt, err := m.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.Equal(t, "smtp", receipt.Provider)
	assert.NotNil(t, sent)
}

func TestMailer_Send_Error(t *testing.T) {
	boom := errors.New("535 authentication failed")
	m, err := New(Config{Username: "u", Password: "p"}, WithSender(func(ctx context.Context, msg *mail.Msg) error {
		return boom
	}))
	require.NoError(t, err)

	_, err = m.Send(context.Background(), testEmail())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "smtp.gmail.com:465")
}

func TestMailer_Send_InvalidEmail(t *testing.T) {
	m, err := New(Config{Username: "u", Password: "p"}, WithSender(func(ctx context.Context, msg *mail.Msg) error {
		t.Fatal("should not send")
		return nil
	}))
	require.NoError(t, err)

	_, err = m.Send(context.Background(), domain.Email{})
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}
