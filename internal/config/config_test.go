package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventgate-io/eventgate-go/pkg/routing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  secret_key: test-secret
logger:
  level: debug
  format: json
routes:
  - process: order-intake
    triggers:
      - transport: rest
        attributes:
          path: /orders
          method: POST
      - transport: topic
        attributes:
          listen-channel: orders
          response-channel: orders.reply
  - process: archive
    triggers:
      - transport: object-storage
        attributes:
          bucket: archive-inbox
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.SecretKey)
	assert.Equal(t, "debug", cfg.Logger.Level)
	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "order-intake", cfg.Routes[0].Process)
	require.Len(t, cfg.Routes[0].Triggers, 2)
	assert.Equal(t, "POST", cfg.Routes[0].Triggers[0].Attributes["method"])
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  secret_key: s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 1024, cfg.Audit.Capacity)
	assert.False(t, cfg.Registry.RejectCollisions)
}

func TestLoad_MissingSecretKey(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestLoad_NoAuthAllowsMissingSecret(t *testing.T) {
	path := writeConfig(t, `
auth:
  no_auth: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Auth.NoAuth)
}

func TestValidate_RouteInvariants(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			"missing process name",
			`
auth: {secret_key: s}
routes:
  - triggers:
      - transport: rest
`,
		},
		{
			"no triggers",
			`
auth: {secret_key: s}
routes:
  - process: p1
`,
		},
		{
			"missing transport",
			`
auth: {secret_key: s}
routes:
  - process: p1
    triggers:
      - attributes: {path: /a}
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRoutingTable_PreservesDeclarationOrder(t *testing.T) {
	path := writeConfig(t, `
auth: {secret_key: s}
routes:
  - process: first
    triggers:
      - transport: rest
        attributes: {path: /a}
  - process: second
    triggers:
      - transport: rest
        attributes: {path: /a}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	table, err := cfg.RoutingTable()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	process, _, ok := table.Match("rest", map[string]string{routing.AttrPath: "/a"})
	require.True(t, ok)
	assert.Equal(t, "first", process, "first declared route must win")
}
