package migrate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

type ApplyOptions struct {
	BaseURL string
	DryRun  bool
	// OnFile is called with each planned path just before it is read.
	OnFile func(path string) error
}

type Service struct {
	files     FileSource
	client    SchemaClient
	revisions RevisionSource
	ids       IDGenerator
	digester  Digester
	clock     Clock
	logger    *slog.Logger
}

func NewService(files FileSource, client SchemaClient, revisions RevisionSource, ids IDGenerator, digester Digester, clock Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		files:     files,
		client:    client,
		revisions: revisions,
		ids:       ids,
		digester:  digester,
		clock:     clock,
		logger:    logger,
	}
}

// Plan collects the files under root whose names match pattern, in ascending
// path order.
func (s *Service) Plan(ctx context.Context, root, pattern string) (domain.Plan, error) {
	if root == "" {
		return domain.Plan{}, domain.ErrRootRequired
	}
	matcher, err := NewMatcher(pattern)
	if err != nil {
		return domain.Plan{}, err
	}

	files, err := s.files.ListFiles(ctx, root, matcher.Match)
	if err != nil {
		return domain.Plan{}, err
	}
	if len(files) == 0 {
		s.logger.Debug("no migration files", "root", root, "pattern", pattern)
		return domain.Plan{}, ErrNoMigrationFiles
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	s.logger.Debug("migration plan ready", "root", root, "pattern", pattern, "files", len(sorted))
	return domain.Plan{Root: root, Pattern: pattern, Files: sorted}, nil
}

// BuildPayload reads every planned file in order and appends a newline after
// each one. onFile, when set, is called with each path before it is read.
func (s *Service) BuildPayload(ctx context.Context, plan domain.Plan, onFile func(path string) error) (domain.Payload, error) {
	var buf bytes.Buffer
	for _, path := range plan.Files {
		if onFile != nil {
			if err := onFile(path); err != nil {
				return domain.Payload{}, err
			}
		}
		data, err := s.files.ReadFile(ctx, path)
		if err != nil {
			return domain.Payload{}, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	body := buf.Bytes()
	payload := domain.Payload{Body: body}
	if s.digester != nil {
		payload.Digest = s.digester.Digest(body)
	}
	return payload, nil
}

// PreparedRun is a run whose payload is built but not yet submitted.
type PreparedRun struct {
	Report  domain.ApplyReport
	payload domain.Payload
	dryRun  bool
	started time.Time
	logger  *slog.Logger
}

// Prepare assigns a run id, resolves the source revision and builds the
// payload for plan. Nothing is sent.
func (s *Service) Prepare(ctx context.Context, plan domain.Plan, opts ApplyOptions) (*PreparedRun, error) {
	started := s.clock.Now()

	runID, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("run_id", runID)

	cfg := domain.Config{Root: plan.Root, Pattern: plan.Pattern, BaseURL: opts.BaseURL}
	run := &PreparedRun{
		Report: domain.ApplyReport{
			RunID:     runID,
			Plan:      plan,
			TargetURL: cfg.TargetURL(),
			DryRun:    opts.DryRun,
		},
		dryRun:  opts.DryRun,
		started: started,
		logger:  logger,
	}

	if s.revisions != nil {
		revision, err := s.revisions.Revision(ctx, plan.Root)
		if err != nil {
			logger.Debug("source revision unavailable", "root", plan.Root, "err", err)
		} else {
			run.Report.Revision = revision
		}
	}

	payload, err := s.BuildPayload(ctx, plan, opts.OnFile)
	if err != nil {
		run.Report.Elapsed = s.clock.Now().Sub(started)
		return run, err
	}
	run.payload = payload
	run.Report.PayloadBytes = payload.Size()
	run.Report.Digest = payload.Digest
	return run, nil
}

// Submit posts the prepared payload in a single request. A response carrying
// an errors member is returned together with a *RejectedError. Dry runs
// return without sending.
func (s *Service) Submit(ctx context.Context, run *PreparedRun) (domain.ApplyReport, error) {
	report := run.Report
	logger := run.logger

	logger.Info("applying migrations",
		"target", report.TargetURL,
		"files", len(report.Plan.Files),
		"bytes", report.PayloadBytes,
		"digest", report.Digest,
		"revision", report.Revision.HeadHash,
		"dry_run", run.dryRun,
	)

	if run.dryRun {
		report.Elapsed = s.clock.Now().Sub(run.started)
		return report, nil
	}

	response, err := s.client.PostSchema(ctx, report.TargetURL, run.payload.Body)
	report.Elapsed = s.clock.Now().Sub(run.started)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			logger.Warn("schema request failed", "target", report.TargetURL, "err", err)
		}
		return report, err
	}
	report.Response = response

	if response.HasErrors {
		logger.Warn("schema rejected", "status", response.StatusCode)
		return report, &RejectedError{Errors: response.Errors}
	}

	logger.Info("schema applied", "status", response.StatusCode, "members", response.Members, "elapsed", report.Elapsed)
	return report, nil
}

// Apply prepares and submits plan in one step.
func (s *Service) Apply(ctx context.Context, plan domain.Plan, opts ApplyOptions) (domain.ApplyReport, error) {
	run, err := s.Prepare(ctx, plan, opts)
	if err != nil {
		if run == nil {
			return domain.ApplyReport{}, err
		}
		return run.Report, err
	}
	return s.Submit(ctx, run)
}
