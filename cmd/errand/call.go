package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Place a voice call that plays a TwiML document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Twilio
		call := domain.VoiceCall{
			From: cfg.From,
			To:   orDefault(cmd, "to", cfg.To),
			URL:  orDefault(cmd, "url", cfg.TwiMLURL),
		}

		return run(cmd, "call", func(ctx context.Context) (string, error) {
			client, err := newTwilio()
			if err != nil {
				return "", err
			}
			receipt, err := client.Call(ctx, call)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Call initiated. SID: %s\n", receipt.ID)
			return receipt.ID, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().String("to", "", "Number to call (overrides TWILIO_TO)")
	callCmd.Flags().String("url", "", "TwiML document played when the call is answered")
}
