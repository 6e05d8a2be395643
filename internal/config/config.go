package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/osvaldoandrade/graphql-migrate/internal/app/migrate"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
	"github.com/osvaldoandrade/graphql-migrate/internal/platform"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyRoot      = "root"
	KeyPattern   = "pattern"
	KeyURL       = "url"
	KeyTimeout   = "timeout"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
)

const (
	EnvRoot      = "GRAPHQL_PATH"
	EnvPattern   = "GRAPHQL_FILE_REGEX"
	EnvURL       = "DGRAPH_DSN"
	EnvTimeout   = "GRAPHQL_MIGRATE_TIMEOUT"
	EnvLogLevel  = "GRAPHQL_MIGRATE_LOG_LEVEL"
	EnvLogFormat = "GRAPHQL_MIGRATE_LOG_FORMAT"
)

const DefaultEnvFile = ".env"

var envBindings = map[string]string{
	KeyRoot:      EnvRoot,
	KeyPattern:   EnvPattern,
	KeyURL:       EnvURL,
	KeyTimeout:   EnvTimeout,
	KeyLogLevel:  EnvLogLevel,
	KeyLogFormat: EnvLogFormat,
}

type Settings struct {
	Migration domain.Config
	LogLevel  string
	LogFormat string
}

// RegisterFlags declares the flags Load reads from.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyRoot, domain.DefaultRoot, "Directory searched for migration files (env "+EnvRoot+")")
	flags.String(KeyPattern, domain.DefaultPattern, "Regular expression matched against the start of each file name (env "+EnvPattern+")")
	flags.String(KeyURL, "", "Base URL of the schema endpoint (env "+EnvURL+")")
	flags.Duration(KeyTimeout, 0, "HTTP timeout, 0 waits indefinitely (env "+EnvTimeout+")")
	flags.String(KeyLogLevel, "info", "Log level (debug, info, warn, error) (env "+EnvLogLevel+")")
	flags.String(KeyLogFormat, "text", "Log format (text, json) (env "+EnvLogFormat+")")
}

// LoadEnvFile loads variables from a dotenv file without overriding the
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no dotenv file has been found", "path", path)
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves settings from explicitly set flags, then the environment,
// then defaults. Empty environment values count as unset.
func Load(flags *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	v.SetDefault(KeyRoot, domain.DefaultRoot)
	v.SetDefault(KeyPattern, domain.DefaultPattern)
	v.SetDefault(KeyURL, "")
	v.SetDefault(KeyTimeout, "0s")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Settings{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if flags != nil {
		for key := range envBindings {
			flag := flags.Lookup(key)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Settings{}, fmt.Errorf("bind --%s: %w", key, err)
			}
		}
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString(KeyTimeout)))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", domain.ErrInvalidTimeout, err)
	}

	settings := Settings{
		Migration: domain.Config{
			Root:    v.GetString(KeyRoot),
			Pattern: v.GetString(KeyPattern),
			BaseURL: v.GetString(KeyURL),
			Timeout: timeout,
		},
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) Validate() error {
	if s.Migration.Root == "" {
		return domain.ErrRootRequired
	}
	if _, err := migrate.NewMatcher(s.Migration.Pattern); err != nil {
		return err
	}
	if s.Migration.Timeout < 0 {
		return domain.ErrInvalidTimeout
	}
	if _, err := platform.ParseLogLevel(s.LogLevel); err != nil {
		return err
	}
	if _, err := platform.ParseLogFormat(s.LogFormat); err != nil {
		return err
	}
	return nil
}
