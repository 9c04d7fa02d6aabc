package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDispatchesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dispatches",
		Short: "Show recent dispatch outcomes (admin)",
		Long: `Show recent dispatch outcomes from the gateway's audit log, newest
first. Requires an admin token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatches(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to show")

	return cmd
}

func runDispatches(limit int) error {
	if err := requireAuthentication(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	response, err := client.ListDispatches(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list dispatches: %w", err)
	}

	if len(response.Dispatches) == 0 {
		fmt.Println("No dispatches recorded.")
		return nil
	}

	fmt.Printf("Recent dispatches (%d, newest first):\n", len(response.Dispatches))
	fmt.Printf("%-8s %-20s %-15s %-20s %-12s %s\n", "OFFSET", "PROCESS", "TRANSPORT", "STATUS", "DURATION", "TIMESTAMP")
	for _, d := range response.Dispatches {
		process := d.Process
		if process == "" {
			process = "-"
		}
		fmt.Printf("%-8d %-20s %-15s %-20s %-12s %s\n",
			d.Offset, process, d.Transport, d.Status,
			fmt.Sprintf("%dµs", d.DurationM),
			d.Timestamp.Format("2006-01-02 15:04:05"))
	}

	return nil
}
