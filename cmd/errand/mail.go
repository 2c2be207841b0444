package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/pkg/adapters/mailjet"
	"github.com/aretw0/errand/pkg/adapters/smtp"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/spf13/cobra"
)

const (
	defaultSubject = "Hello from errand"
	defaultBody    = "Hi,\n\nThis is a friendly hello sent from errand.\n"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Send an email through Gmail SMTP or Mailjet",
}

var mailSMTPCmd = &cobra.Command{
	Use:   "smtp",
	Short: "Send an email through Gmail over implicit TLS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.SMTP
		text, err := textFlags(cmd, "subject", "body")
		if err != nil {
			return err
		}
		email := domain.Email{
			From:    domain.Address{Email: cfg.Email},
			To:      []domain.Address{{Email: orDefault(cmd, "to", cfg.Receiver)}},
			Subject: text[0],
			Text:    text[1],
		}

		return run(cmd, "mail-smtp", func(ctx context.Context) (string, error) {
			mailer, err := smtp.New(smtp.Config{
				Host:     cfg.Host,
				Port:     cfg.Port,
				Username: cfg.Email,
				Password: cfg.Password,
				Timeout:  cfg.Timeout,
			})
			if err != nil {
				return "", err
			}
			if _, err := mailer.Send(ctx, email); err != nil {
				return "", err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email sent successfully")
			return email.To[0].Email, nil
		})
	},
}

var mailAnonymousCmd = &cobra.Command{
	Use:   "anonymous",
	Short: "Send an email through Mailjet under a chosen sender name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Mailjet
		text, err := textFlags(cmd, "subject", "body")
		if err != nil {
			return err
		}
		email := domain.Email{
			From: domain.Address{
				Email: orDefault(cmd, "from", cfg.From),
				Name:  orDefault(cmd, "from-name", cfg.FromName),
			},
			To: []domain.Address{{
				Email: orDefault(cmd, "to", cfg.To),
				Name:  orDefault(cmd, "to-name", cfg.ToName),
			}},
			Subject: text[0],
			Text:    text[1],
		}

		return run(cmd, "mail-anonymous", func(ctx context.Context) (string, error) {
			mailer, err := mailjet.New(mailjet.Config{APIKey: cfg.APIKey, APISecret: cfg.APISecret})
			if err != nil {
				return "", err
			}
			receipt, err := mailer.Send(ctx, email)
			out := cmd.OutOrStdout()
			if receipt.Status != "" {
				fmt.Fprintf(out, "Status: %s\n", receipt.Status)
				for _, d := range receipt.Details {
					fmt.Fprintf(out, "  %s\n", d)
				}
			}
			if err != nil {
				return "", err
			}
			return receipt.ID, nil
		})
	},
}

// textFlags reads free-text flags through cli.SanitizeInput.
func textFlags(cmd *cobra.Command, flags ...string) ([]string, error) {
	values := make([]string, len(flags))
	for i, flag := range flags {
		v, _ := cmd.Flags().GetString(flag)
		clean, err := cli.SanitizeInput(v)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", flag, err)
		}
		values[i] = clean
	}
	return values, nil
}

func init() {
	rootCmd.AddCommand(mailCmd)
	mailCmd.AddCommand(mailSMTPCmd, mailAnonymousCmd)

	for _, c := range []*cobra.Command{mailSMTPCmd, mailAnonymousCmd} {
		c.Flags().String("to", "", "Recipient address (overrides the configured one)")
		c.Flags().String("subject", defaultSubject, "Subject line")
		c.Flags().String("body", defaultBody, "Plain-text body")
	}
	mailAnonymousCmd.Flags().String("from", "", "Sender address (must be verified on the Mailjet account)")
	mailAnonymousCmd.Flags().String("from-name", "", "Sender display name")
	mailAnonymousCmd.Flags().String("to-name", "", "Recipient display name")
}
