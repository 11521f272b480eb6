package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/scorekeeper/internal/api"
	"github.com/mcoot/scorekeeper/internal/factory"
	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/services/persistence"
	"github.com/mcoot/scorekeeper/internal/services/session"
	redisstorage "github.com/mcoot/scorekeeper/internal/storage/redis"
)

// Config holds the server settings gathered from flags and environment
type Config struct {
	host              string
	port              int
	storage           string
	redisURL          string
	sessionKey        string
	ttl               time.Duration
	defaultRosterSize int
	verbose           bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storage {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.redisURL == "" {
			return errors.New("--redis-url is required when --storage=redis")
		}
	default:
		return fmt.Errorf("invalid storage %q (must be memory or redis)", c.storage)
	}
	if strings.TrimSpace(c.sessionKey) == "" {
		return errors.New("--session-key must not be empty")
	}
	if c.ttl <= 0 {
		return fmt.Errorf("invalid ttl (must be positive): %s", c.ttl)
	}
	if c.defaultRosterSize < model.MinRosterSize || c.defaultRosterSize > model.MaxRosterSize {
		return fmt.Errorf("invalid default roster size (must be between %d-%d inclusive): %d",
			model.MinRosterSize, model.MaxRosterSize, c.defaultRosterSize)
	}
	return nil
}

func (c *Config) logLevel() slog.Level {
	if c.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (c *Config) serverConfig() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.host
	cfg.Port = c.port
	return cfg
}

func (c *Config) factoryConfig(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: c.storage,
		PersistenceConfig: persistence.Config{
			Key: c.sessionKey,
			TTL: c.ttl,
		},
		SessionConfig: session.Config{
			DefaultRosterSize: c.defaultRosterSize,
		},
	}

	if c.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.redisURL
		cfg.RedisConfig = &redisCfg
	}

	return cfg
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SCOREKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the score tracker API",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.host, "host", "", "address to bind to (env: SCOREKEEPER_HOST)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SCOREKEEPER_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeMemory, "storage backend: memory, redis (env: SCOREKEEPER_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: SCOREKEEPER_REDIS_URL)")
	fs.StringVar(&cfg.sessionKey, "session-key", persistence.DefaultKey, "storage key for the session snapshot (env: SCOREKEEPER_SESSION_KEY)")
	fs.DurationVar(&cfg.ttl, "ttl", persistence.DefaultTTL, "lifetime of a saved session (env: SCOREKEEPER_TTL)")
	fs.IntVar(&cfg.defaultRosterSize, "default-roster-size", model.DefaultRosterSize, "players in a fresh session (env: SCOREKEEPER_DEFAULT_ROSTER_SIZE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: SCOREKEEPER_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
