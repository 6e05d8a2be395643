package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/graphql-migrate/internal/app/migrate"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/filesystem"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/gitrepo"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/hash"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/ident"
	"github.com/osvaldoandrade/graphql-migrate/internal/infra/schemaapi"
	"github.com/osvaldoandrade/graphql-migrate/internal/platform"
	"github.com/spf13/cobra"
)

const (
	markerSuccess = "SUCCESS"
	markerFailed  = "FAILED"
	markerDryRun  = "DRY RUN"
)

func newApplyCmd(opts *RootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Concatenate migration files and post them to the schema endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, opts, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the payload without sending it")
	return cmd
}

func newListCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migration files in the order they would be applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.Settings.Migration
			service := newMigrateService(opts)
			plan, err := service.Plan(cmd.Context(), cfg.Root, cfg.Pattern)
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), plan, opts.JSONOutput)
		},
	}
}

func runApply(cmd *cobra.Command, opts *RootOptions, dryRun bool) error {
	cfg := opts.Settings.Migration
	out := cmd.OutOrStdout()
	ui := newRenderer(out, opts.JSONOutput)
	service := newMigrateService(opts)

	if !opts.JSONOutput {
		if _, err := fmt.Fprintln(out, "Browsing for migration files..."); err != nil {
			return err
		}
	}

	plan, err := service.Plan(cmd.Context(), cfg.Root, cfg.Pattern)
	if err != nil {
		return err
	}

	applyOpts := migrate.ApplyOptions{BaseURL: cfg.BaseURL, DryRun: dryRun}
	if !opts.JSONOutput {
		applyOpts.OnFile = func(path string) error {
			return writePlanLine(out, path)
		}
	}
	run, err := service.Prepare(cmd.Context(), plan, applyOpts)
	if err != nil {
		return err
	}

	if !opts.JSONOutput {
		if _, err := fmt.Fprintf(out, "%s %s\n", ui.key("Applying migrations at"), run.Report.TargetURL); err != nil {
			return err
		}
	}

	var report domain.ApplyReport
	errOut := cmd.ErrOrStderr()
	err = withSpinner(cmd.Context(), errOut, !dryRun && spinnerEnabled(errOut, opts.JSONOutput), "Waiting for schema endpoint", func() error {
		var submitErr error
		report, submitErr = service.Submit(cmd.Context(), run)
		return submitErr
	})

	var rejected *migrate.RejectedError
	switch {
	case errors.As(err, &rejected):
		if opts.JSONOutput {
			if writeErr := writeJSON(out, newReportOutput(report, markerFailed)); writeErr != nil {
				return writeErr
			}
			return err
		}
		if _, writeErr := fmt.Fprintf(out, "Response: %s\n%s\n", rejected.ErrorsText(), ui.err(markerFailed)); writeErr != nil {
			return writeErr
		}
		return err
	case err != nil:
		return err
	}

	marker := markerSuccess
	if report.DryRun {
		marker = markerDryRun
	}
	if opts.JSONOutput {
		return writeJSON(out, newReportOutput(report, marker))
	}
	if report.DryRun {
		_, err := fmt.Fprintf(out, "%s %d bytes %s\n%s\n", ui.key("Payload"), report.PayloadBytes, ui.dim(report.Digest), ui.warn(marker))
		return err
	}
	_, err = fmt.Fprintln(out, ui.ok(marker))
	return err
}

func newMigrateService(opts *RootOptions) *migrate.Service {
	logger := opts.Logger
	return migrate.NewService(
		filesystem.MigrationSource{Logger: logger},
		schemaapi.New(nil, opts.Settings.Migration.Timeout),
		gitrepo.NewStore(),
		ident.NewRunIDGenerator(),
		hash.SHA256{},
		platform.RealClock{},
		logger,
	)
}

type planOutput struct {
	Root    string   `json:"root"`
	Pattern string   `json:"pattern"`
	Files   []string `json:"files"`
}

type revisionOutput struct {
	Head   string `json:"head"`
	Branch string `json:"branch,omitempty"`
}

type reportOutput struct {
	RunID     string          `json:"run_id"`
	Root      string          `json:"root"`
	Pattern   string          `json:"pattern"`
	Files     []string        `json:"files"`
	Target    string          `json:"target"`
	Bytes     int             `json:"bytes"`
	Digest    string          `json:"digest,omitempty"`
	Revision  *revisionOutput `json:"revision,omitzero"`
	Status    int             `json:"status,omitzero"`
	Errors    jsontext.Value  `json:"errors,omitzero"`
	Result    string          `json:"result"`
	ElapsedMS int64           `json:"elapsed_ms"`
}

func newReportOutput(report domain.ApplyReport, result string) reportOutput {
	output := reportOutput{
		RunID:     report.RunID,
		Root:      report.Plan.Root,
		Pattern:   report.Plan.Pattern,
		Files:     report.Plan.Files,
		Target:    report.TargetURL,
		Bytes:     report.PayloadBytes,
		Digest:    report.Digest,
		Status:    report.Response.StatusCode,
		Result:    result,
		ElapsedMS: report.Elapsed.Milliseconds(),
	}
	if !report.Revision.IsZero() {
		output.Revision = &revisionOutput{Head: report.Revision.HeadHash, Branch: report.Revision.Branch}
	}
	if report.Response.HasErrors {
		output.Errors = report.Response.Errors
		if len(output.Errors) == 0 {
			output.Errors = jsontext.Value("null")
		}
	}
	return output
}

func writePlan(out io.Writer, plan domain.Plan, asJSON bool) error {
	if asJSON {
		return writeJSON(out, planOutput{Root: plan.Root, Pattern: plan.Pattern, Files: plan.Files})
	}
	return writePlanLines(out, plan)
}

func writePlanLines(out io.Writer, plan domain.Plan) error {
	for _, path := range plan.Files {
		if err := writePlanLine(out, path); err != nil {
			return err
		}
	}
	return nil
}

func writePlanLine(out io.Writer, path string) error {
	_, err := fmt.Fprintf(out, "-\t%s\n", path)
	return err
}
