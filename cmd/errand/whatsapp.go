package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/spf13/cobra"
)

var whatsappCmd = &cobra.Command{
	Use:   "whatsapp",
	Short: "Send a WhatsApp message through Twilio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Twilio
		text, err := textFlags(cmd, "body")
		if err != nil {
			return err
		}
		to := cfg.WhatsAppTo
		if to == "" {
			to = cfg.WhatsAppNumber
		}
		msg := domain.TextMessage{
			Channel: domain.ChannelWhatsApp,
			From:    cfg.WhatsAppFrom,
			To:      orDefault(cmd, "to", to),
			Body:    text[0],
		}

		return run(cmd, "whatsapp", func(ctx context.Context) (string, error) {
			client, err := newTwilio()
			if err == nil {
				var receipt domain.Receipt
				receipt, err = client.SendText(ctx, msg)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Message sent. SID: %s\n", receipt.ID)
					return receipt.ID, nil
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to send message: %v\n", err)
			return "", reported(err)
		})
	},
}

func init() {
	rootCmd.AddCommand(whatsappCmd)
	whatsappCmd.Flags().String("to", "", "Recipient number (overrides TWILIO_WHATSAPP_TO)")
	whatsappCmd.Flags().String("body", "Hello from errand!", "Message text")
}
