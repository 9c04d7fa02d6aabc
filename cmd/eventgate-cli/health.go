package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check gateway health",
		Long:  `Check the health of the EventGate server. Does not require authentication.`,
		RunE:  runHealth,
	}

	return cmd
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	response, err := client.GetHealth(ctx)
	if err != nil {
		return fmt.Errorf("failed to get health status: %w", err)
	}

	fmt.Printf("EventGate Health Status:\n")
	fmt.Printf("  Status: %s\n", response.Status)
	fmt.Printf("  Handlers: %d\n", response.Handlers)
	fmt.Printf("  Routes: %d\n", response.Routes)
	if len(response.Dispatched) > 0 {
		fmt.Printf("  Dispatched:\n")
		for status, count := range response.Dispatched {
			fmt.Printf("    %s: %d\n", status, count)
		}
	}

	return nil
}
