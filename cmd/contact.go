package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipms/internal/config"
	"ipms/internal/contact"
	"ipms/pkg/logger"
)

// errNotSent makes the command exit non-zero when the form shows an error.
var errNotSent = errors.New("message was not sent")

// contactCommand constructs the 'contact' subcommand that fills the contact
// form from flags, submits it against the configured backend and prints the
// notice the form ends up showing.
func contactCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Submits a contact message through the contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			message, _ := cmd.Flags().GetString("message")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b := getBackend(ctx, cfg)
			defer b.close()

			options := contact.NewOptions(cfg)
			service, err := contact.New(contact.Deps{Store: b.writer, Tx: b.tx}, options)
			if err != nil {
				logger.Fatal(ctx, "could not create contact service", zap.Error(err))
			}

			form := contact.NewForm(service, contact.Rules{MaxMessageLength: options.MaxMessageLength})
			form.Open()
			form.SetName(name)
			form.SetEmail(email)
			form.SetMessage(message)

			if form.CanSubmit() {
				// the outcome is reflected in the form state printed below
				if err := form.Submit(ctx); err != nil {
					logger.Debug(ctx, "contact form not sent", zap.Error(err))
				}
			}

			state := form.State()
			out := cmd.OutOrStdout()
			for _, notice := range []string{state.Error, state.EmailError, state.MessageError} {
				if notice != "" {
					fmt.Fprintln(out, notice) //nolint: errcheck
				}
			}
			if state.Success == "" {
				return errNotSent
			}
			fmt.Fprintln(out, state.Success) //nolint: errcheck

			return nil
		},
	}

	cmd.Flags().String("name", "", "Sender name")
	cmd.Flags().String("email", "", "Sender email address")
	cmd.Flags().String("message", "", "Message text")

	return cmd
}
