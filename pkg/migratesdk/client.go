package migratesdk

import (
	"context"
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/graphql-migrate/internal/app/migrate"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/filesystem"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/gitrepo"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/hash"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/ident"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/schemaapi"
	"github.com/osvaldoandrade/graphql-migrate/internal/platform"
)

// Report summarizes a migration run.
type Report struct {
	RunID      string
	Files      []string
	TargetURL  string
	Bytes      int
	Digest     string
	Revision   string
	Branch     string
	DryRun     bool
	StatusCode int
	Errors     jsontext.Value
	Elapsed    time.Duration
}

// Client runs migrations with a fixed configuration.
type Client struct {
	cfg     Config
	service *migrate.Service
}

// New validates cfg and wires the filesystem source, HTTP client and git
// revision lookup.
func New(cfg Config) (*Client, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := migrate.NewMatcher(normalized.Pattern); err != nil {
		return nil, err
	}

	service := migrate.NewService(
		filesystem.MigrationSource{Logger: normalized.Logger},
		schemaapi.New(normalized.HTTPClient, normalized.Timeout),
		gitrepo.NewStore(),
		ident.NewRunIDGenerator(),
		hash.SHA256{},
		platform.RealClock{},
		normalized.Logger,
	)
	return &Client{cfg: normalized, service: service}, nil
}

// Files lists the migration files in application order.
func (c *Client) Files(ctx context.Context) ([]string, error) {
	plan, err := c.service.Plan(ctx, c.cfg.Root, c.cfg.Pattern)
	if err != nil {
		return nil, err
	}
	return plan.Files, nil
}

// Run performs the whole migration: collect, concatenate, post, interpret.
// The report is populated as far as the run got, also on error.
func (c *Client) Run(ctx context.Context) (Report, error) {
	plan, err := c.service.Plan(ctx, c.cfg.Root, c.cfg.Pattern)
	if err != nil {
		return Report{}, err
	}
	report, err := c.service.Apply(ctx, plan, migrate.ApplyOptions{
		BaseURL: c.cfg.BaseURL,
		DryRun:  c.cfg.DryRun,
	})
	return toReport(report), err
}

// Run is a shorthand for New followed by Client.Run.
func Run(ctx context.Context, cfg Config) (Report, error) {
	client, err := New(cfg)
	if err != nil {
		return Report{}, err
	}
	return client.Run(ctx)
}

func toReport(report domain.ApplyReport) Report {
	return Report{
		RunID:      report.RunID,
		Files:      report.Plan.Files,
		TargetURL:  report.TargetURL,
		Bytes:      report.PayloadBytes,
		Digest:     report.Digest,
		Revision:   report.Revision.HeadHash,
		Branch:     report.Revision.Branch,
		DryRun:     report.DryRun,
		StatusCode: report.Response.StatusCode,
		Errors:     report.Response.Errors,
		Elapsed:    report.Elapsed,
	}
}
