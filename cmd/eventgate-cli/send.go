package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eventgate-io/eventgate-go/pkg/httpclient"
	"github.com/spf13/cobra"
)

func newSendCommand() *cobra.Command {
	var (
		transport  string
		attrs      []string
		payload    string
		bestEffort bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Dispatch an event through the gateway",
		Long: `Dispatch an event through the gateway. The transport and trigger
attributes select the handler; the payload should be valid JSON.

Example:
  eventgate-cli send --transport topic --attr listen-channel=orders --payload '{"id":1}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(transport, attrs, payload, bestEffort)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "Transport type (rest, topic, queue, ...) (required)")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "Trigger attribute as key=value (repeatable)")
	cmd.Flags().StringVar(&payload, "payload", "{}", "Event payload as JSON object")
	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "Treat an unmatched event as a successful no-op")
	if err := cmd.MarkFlagRequired("transport"); err != nil {
		panic(fmt.Sprintf("Failed to mark transport as required: %v", err))
	}

	return cmd
}

func runSend(transport string, attrs []string, payloadStr string, bestEffort bool) error {
	if err := requireAuthentication(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	attributes := make(map[string]string, len(attrs))
	for _, a := range attrs {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid attribute %q: expected key=value", a)
		}
		attributes[key] = value
	}

	var payload map[string]any
	if payloadStr != "" {
		if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
			return fmt.Errorf("invalid JSON payload: %w", err)
		}
	}

	event := httpclient.EventRequest{
		Transport:  transport,
		Attributes: attributes,
		Payload:    payload,
	}

	fmt.Printf("Dispatching %s event...\n", transport)

	var (
		response *httpclient.DispatchResponse
		err      error
	)
	if bestEffort {
		response, err = client.SendEventBestEffort(ctx, event)
	} else {
		response, err = client.SendEvent(ctx, event)
	}
	if err != nil {
		return fmt.Errorf("failed to dispatch event: %w", err)
	}

	printDispatchResponse(response)
	return nil
}

func printDispatchResponse(response *httpclient.DispatchResponse) {
	switch response.Status {
	case "completed":
		fmt.Printf("✅ Dispatch completed\n")
	default:
		fmt.Printf("⚠️  Dispatch %s\n", response.Status)
	}
	if response.Process != "" {
		fmt.Printf("Process: %s\n", response.Process)
	}
	fmt.Printf("Matched: %t\n", response.Matched)
	if response.ForwardTo != "" {
		fmt.Printf("Forward to: %s\n", response.ForwardTo)
	}
	if len(response.Output) > 0 {
		out, err := json.MarshalIndent(response.Output, "", "  ")
		if err == nil {
			fmt.Printf("Output:\n%s\n", string(out))
		}
	}
	if response.Error != nil {
		fmt.Printf("Error (%s): %s\n", response.Error.Kind, response.Error.Message)
		if response.Error.Operation != "" {
			fmt.Printf("Operation: %s\n", response.Error.Operation)
		}
	}
}
