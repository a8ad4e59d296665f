package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mergington/enroll/internal/api"
	"github.com/mergington/enroll/internal/presentation"
)

var unregisterYes bool

var unregisterCmd = &cobra.Command{
	Use:   "unregister <activity> <email>",
	Short: "Remove a student from an activity",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnregister,
}

func init() {
	unregisterCmd.Flags().BoolVarP(&unregisterYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(unregisterCmd)
}

func runUnregister(cmd *cobra.Command, args []string) error {
	activityName, email := args[0], args[1]

	if !unregisterYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Remove %s from %s? [y/N] ", email, activityName)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
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

	message, err := services.Client.Unregister(ctx, activityName, email)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	return presentation.NewFormatter(os.Stdout).FormatMessage(message)
}
