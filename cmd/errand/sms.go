package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/adapters/twilio"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/spf13/cobra"
)

var smsCmd = &cobra.Command{
	Use:   "sms",
	Short: "Send an SMS through Twilio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Twilio
		text, err := textFlags(cmd, "body")
		if err != nil {
			return err
		}
		msg := domain.TextMessage{
			Channel: domain.ChannelSMS,
			From:    cfg.From,
			To:      orDefault(cmd, "to", cfg.To),
			Body:    text[0],
		}

		return run(cmd, "sms", func(ctx context.Context) (string, error) {
			client, err := newTwilio()
			if err != nil {
				return "", err
			}
			receipt, err := client.SendText(ctx, msg)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent. SID: %s\n", receipt.ID)
			return receipt.ID, nil
		})
	},
}

func newTwilio() (*twilio.Client, error) {
	return twilio.New(twilio.Config{
		AccountSID: app.cfg.Twilio.SID,
		AuthToken:  app.cfg.Twilio.Auth,
	})
}

func init() {
	rootCmd.AddCommand(smsCmd)
	smsCmd.Flags().String("to", "", "Recipient number (overrides TWILIO_TO)")
	smsCmd.Flags().String("body", "Hello from errand!", "Message text")
}
