package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mergington/enroll/internal/presentation"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities and their rosters",
	Long:  `Fetch the current activities from the server and print them as a table, or as JSON with --json.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	activities, err := services.Client.Activities(ctx)
	if err != nil {
		return fmt.Errorf("fetching activities: %w", err)
	}

	formatter := presentation.NewFormatter(os.Stdout)
	dtos := presentation.FromCollection(activities)
	if listJSON {
		return formatter.FormatActivitiesJSON(dtos)
	}
	return formatter.FormatActivitiesTable(dtos)
}
