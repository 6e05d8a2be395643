package migratesdk

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

// Config defines one migration run for programmatic callers. Unlike the CLI
// it never reads the environment.
type Config struct {
	Root    string
	Pattern string
	BaseURL string
	Timeout time.Duration
	DryRun  bool

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// DefaultConfig returns the CLI defaults for root and pattern.
func DefaultConfig(baseURL string) Config {
	return Config{
		Root:    domain.DefaultRoot,
		Pattern: domain.DefaultPattern,
		BaseURL: baseURL,
	}
}

func normalizeConfig(cfg Config) (Config, error) {
	if cfg.Root == "" {
		return cfg, ErrRootRequired
	}
	if cfg.Pattern == "" {
		cfg.Pattern = domain.DefaultPattern
	}
	if cfg.Timeout < 0 {
		return cfg, domain.ErrInvalidTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg, nil
}
