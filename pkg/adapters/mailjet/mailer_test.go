package mailjet

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	mj "github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anonymousEmail() domain.Email {
	return domain.Email{
		From:    domain.Address{Email: "sender@example.com", Name: "Anonymous Sender"},
		To:      []domain.Address{{Email: "receiver@example.com", Name: "Receiver"}},
		Subject: "testing purpose",
		Text:    "This is an anonymous email.",
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{APIKey: "key"})
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
	assert.ErrorContains(t, err, "MAILJET_API_SECRET")
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(anonymousEmail())
	require.Len(t, msgs.Info, 1)

	info := msgs.Info[0]
	assert.Equal(t, "Anonymous Sender", info.From.Name)
	require.NotNil(t, info.To)
	assert.Equal(t, "receiver@example.com", (*info.To)[0].Email)
	assert.Equal(t, "testing purpose", info.Subject)
	assert.Equal(t, "This is an anonymous email.", info.TextPart)
}

func TestMailer_Send(t *testing.T) {
	var got *mj.MessagesV31
	m, err := New(Config{APIKey: "k", APISecret: "s"}, WithSendFunc(func(messages *mj.MessagesV31) (*mj.ResultsV31, error) {
		got = messages
		return &mj.ResultsV31{
			ResultsV31: []mj.ResultV31{{
				Status: "success",
				To: []mj.GeneratedMessageV31{{
					Email:       "receiver@example.com",
					MessageUUID: "uuid-1",
					MessageID:   42,
				}},
			}},
		}, nil
	}))
	require.NoError(t, err)

	receipt, err := m.Send(context.Background(), anonymousEmail())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "mailjet", receipt.Provider)
	assert.Equal(t, "success", receipt.Status)
	assert.Equal(t, "42", receipt.ID)
	assert.Equal(t, []string{"receiver@example.com: 42 (uuid-1)"}, receipt.Details)
}

func TestMailer_Send_Errors(t *testing.T) {
	apiErr := errors.New("401 unauthorized")
	m, err := New(Config{APIKey: "k", APISecret: "s"}, WithSendFunc(func(*mj.MessagesV31) (*mj.ResultsV31, error) {
		return nil, apiErr
	}))
	require.NoError(t, err)

	_, err = m.Send(context.Background(), anonymousEmail())
	assert.ErrorIs(t, err, apiErr)

	m.send = func(*mj.MessagesV31) (*mj.ResultsV31, error) {
		return &mj.ResultsV31{ResultsV31: []mj.ResultV31{{Status: "error"}}}, nil
	}
	receipt, err := m.Send(context.Background(), anonymousEmail())
	assert.ErrorContains(t, err, `status "error"`)
	assert.Equal(t, "error", receipt.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Send(ctx, anonymousEmail())
	assert.ErrorIs(t, err, context.Canceled)
}
