package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Show the routing table",
		Long: `Show the routing table in declaration order. Events are matched
against routes top to bottom; the first matching trigger wins.`,
		RunE: runRoutes,
	}

	return cmd
}

func runRoutes(cmd *cobra.Command, args []string) error {
	if err := requireAuthentication(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	response, err := client.ListRoutes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	if len(response.Routes) == 0 {
		fmt.Println("No routes configured.")
		return nil
	}

	fmt.Printf("Routing table (%d routes, first match wins):\n", len(response.Routes))
	for i, route := range response.Routes {
		fmt.Printf("%3d. %s\n", i+1, route.Process)
		for _, trig := range route.Triggers {
			fmt.Printf("       %s %s\n", trig.Transport, formatAttributes(trig.Attributes))
		}
	}

	return nil
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "(any)"
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, attrs[k]))
	}
	return strings.Join(parts, " ")
}
