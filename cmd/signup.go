package cmd

import (
	"context"
	"fmt"
	"net/mail"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/presentation"
)

var signupCmd = &cobra.Command{
	Use:   "signup <activity> <email>",
	Short: "Sign a student up for an activity",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignup,
}

func init() {
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	activityName, email := args[0], args[1]

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}

	services, err := newServices()
	if err != nil {
		return err
	}

	shutdownTracing, err := initTracing()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	message, err := services.Client.Signup(ctx, activityName, email)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	return presentation.NewFormatter(os.Stdout).FormatMessage(message)
}
