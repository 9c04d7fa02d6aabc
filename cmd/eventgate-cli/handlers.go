package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHandlersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handlers",
		Short: "List registered handlers",
		Long:  `List the handlers registered with the gateway, including adapted ones.`,
		RunE:  runHandlers,
	}

	return cmd
}

func runHandlers(cmd *cobra.Command, args []string) error {
	if err := requireAuthentication(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	response, err := client.ListHandlers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list handlers: %w", err)
	}

	if len(response.Handlers) == 0 {
		fmt.Println("No handlers registered.")
		return nil
	}

	fmt.Printf("Registered handlers (%d):\n", len(response.Handlers))
	for _, h := range response.Handlers {
		marker := ""
		if h.Adapted {
			marker = " (adapted)"
		}
		fmt.Printf("  %s%s\n", h.Name, marker)
		if desc, ok := h.Metadata["description"].(string); ok && desc != "" {
			fmt.Printf("    %s\n", desc)
		}
	}

	return nil
}
