// Package config loads gateway configuration, including the declarative
// routing table, from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/eventgate-io/eventgate-go/internal/logging"
	"github.com/eventgate-io/eventgate-go/pkg/routing"
)

// Config holds all gateway configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logger   logging.Config `mapstructure:"logger"`
	Registry RegistryConfig `mapstructure:"registry"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Routes   []RouteConfig  `mapstructure:"routes"`
}

// ServerConfig holds HTTP connector configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	NoAuth    bool          `mapstructure:"no_auth"`
}

// RegistryConfig holds handler registry construction options.
type RegistryConfig struct {
	// RejectCollisions makes duplicate handler names a startup error
	// instead of last-registration-wins.
	RejectCollisions bool `mapstructure:"reject_collisions"`
}

// AuditConfig bounds the in-memory dispatch audit log.
type AuditConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// RouteConfig is one declarative routing entry as written in the config
// file.
type RouteConfig struct {
	Process  string          `mapstructure:"process"`
	Triggers []TriggerConfig `mapstructure:"triggers"`
}

// TriggerConfig is one trigger rule as written in the config file.
type TriggerConfig struct {
	Transport  string            `mapstructure:"transport"`
	Attributes map[string]string `mapstructure:"attributes"`
}

// Load reads configuration from the given file, applying defaults and
// environment variable overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EVENTGATE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.no_auth", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("registry.reject_collisions", false)
	v.SetDefault("audit.capacity", 1024)
}

// Validate checks the configuration, including the routing invariants:
// every route names a process and declares at least one trigger with a
// transport type.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if !c.Auth.NoAuth && c.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret key is required unless no_auth is set")
	}
	for i, route := range c.Routes {
		if route.Process == "" {
			return fmt.Errorf("route %d: %w", i, routing.ErrEmptyProcessName)
		}
		if len(route.Triggers) == 0 {
			return fmt.Errorf("route %d (%s): %w", i, route.Process, routing.ErrNoTriggers)
		}
		for j, trig := range route.Triggers {
			if trig.Transport == "" {
				return fmt.Errorf("route %d (%s) trigger %d: %w", i, route.Process, j, routing.ErrEmptyTransport)
			}
		}
	}
	return nil
}

// RoutingTable converts the configured routes into an immutable routing
// table, preserving declaration order.
func (c *Config) RoutingTable() (*routing.Table, error) {
	routings := make([]routing.Routing, len(c.Routes))
	for i, route := range c.Routes {
		triggers := make([]routing.Trigger, len(route.Triggers))
		for j, trig := range route.Triggers {
			triggers[j] = routing.Trigger{
				Transport:  trig.Transport,
				Attributes: trig.Attributes,
			}
		}
		routings[i] = routing.Routing{ProcessName: route.Process, Triggers: triggers}
	}
	return routing.NewTable(routings)
}
