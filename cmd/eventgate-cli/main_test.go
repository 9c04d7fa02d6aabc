package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventgate-io/eventgate-go/pkg/httpclient"
)

func TestRequireAuthentication(t *testing.T) {
	t.Run("returns error when client is nil", func(t *testing.T) {
		originalClient := client
		client = nil
		defer func() { client = originalClient }()

		err := requireAuthentication()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "client not initialized")
	})

	t.Run("returns error when not authenticated", func(t *testing.T) {
		testClient, err := httpclient.NewClient(httpclient.Config{
			ServerURL: "http://localhost:8080",
			ClientID:  "test-client",
			Timeout:   5 * time.Second,
		})
		require.NoError(t, err)

		originalClient := client
		client = testClient
		defer func() { client = originalClient }()

		err = requireAuthentication()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})

	t.Run("succeeds when authenticated", func(t *testing.T) {
		testClient, err := httpclient.NewClient(httpclient.Config{
			ServerURL: "http://localhost:8080",
			ClientID:  "test-client",
			Timeout:   5 * time.Second,
		})
		require.NoError(t, err)
		testClient.SetToken("test-token")

		originalClient := client
		client = testClient
		defer func() { client = originalClient }()

		err = requireAuthentication()
		assert.NoError(t, err)
	})
}

func TestMainCommandHelp(t *testing.T) {
	rootCmd := &cobra.Command{
		Use:   "eventgate-cli",
		Short: "EventGate HTTP API command line interface",
	}

	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newSendCommand())
	rootCmd.AddCommand(newHandlersCommand())
	rootCmd.AddCommand(newRoutesCommand())
	rootCmd.AddCommand(newDispatchesCommand())
	rootCmd.AddCommand(newHealthCommand())

	output := &bytes.Buffer{}
	rootCmd.SetOutput(output)
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	helpOutput := output.String()
	assert.Contains(t, helpOutput, "auth")
	assert.Contains(t, helpOutput, "send")
	assert.Contains(t, helpOutput, "handlers")
	assert.Contains(t, helpOutput, "routes")
	assert.Contains(t, helpOutput, "dispatches")
	assert.Contains(t, helpOutput, "health")
}

func TestSendInvalidJSONPayload(t *testing.T) {
	cmd := newSendCommand()

	output := &bytes.Buffer{}
	cmd.SetOutput(output)
	cmd.SetArgs([]string{"--transport", "rest", "--payload", "invalid-json"})

	var err error
	client, err = httpclient.NewClient(httpclient.Config{
		ServerURL: "http://localhost:8080",
		ClientID:  "test-client",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	client.SetToken("test-token")

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON payload")
}

func TestSendInvalidAttribute(t *testing.T) {
	cmd := newSendCommand()

	output := &bytes.Buffer{}
	cmd.SetOutput(output)
	cmd.SetArgs([]string{"--transport", "rest", "--attr", "no-equals-sign"})

	var err error
	client, err = httpclient.NewClient(httpclient.Config{
		ServerURL: "http://localhost:8080",
		ClientID:  "test-client",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)
	client.SetToken("test-token")

	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}
