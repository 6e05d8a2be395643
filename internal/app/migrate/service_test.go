package migrate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

type fakeFileSource struct {
	files    []string
	contents map[string]string
	listErr  error
	readErr  map[string]error
	reads    []string
	root     string
	match    func(string) bool
}

func (f *fakeFileSource) ListFiles(ctx context.Context, root string, match func(name string) bool) ([]string, error) {
	f.root = root
	f.match = match
	return f.files, f.listErr
}

func (f *fakeFileSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	f.reads = append(f.reads, path)
	if err := f.readErr[path]; err != nil {
		return nil, err
	}
	return []byte(f.contents[path]), nil
}

type fakeSchemaClient struct {
	calls    int
	target   string
	body     []byte
	response domain.SchemaResponse
	err      error
}

func (f *fakeSchemaClient) PostSchema(ctx context.Context, targetURL string, body []byte) (domain.SchemaResponse, error) {
	f.calls++
	f.target = targetURL
	f.body = append([]byte(nil), body...)
	return f.response, f.err
}

type fakeRevisionSource struct {
	revision domain.SourceRevision
	err      error
}

func (f fakeRevisionSource) Revision(ctx context.Context, path string) (domain.SourceRevision, error) {
	return f.revision, f.err
}

type fakeIDGenerator struct {
	id string
}

func (f fakeIDGenerator) NewID() (string, error) {
	return f.id, nil
}

type fakeDigester struct{}

func (fakeDigester) Digest(data []byte) string {
	return "sha256:fake"
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestService(files *fakeFileSource, client *fakeSchemaClient) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(files, client, fakeRevisionSource{revision: domain.SourceRevision{HeadHash: "abc123", Branch: "main"}}, fakeIDGenerator{id: "01RUN"}, fakeDigester{}, &stepClock{}, logger)
}

func TestPlanRequiresRoot(t *testing.T) {
	service := newTestService(&fakeFileSource{}, &fakeSchemaClient{})
	_, err := service.Plan(context.Background(), "", domain.DefaultPattern)
	if !errors.Is(err, domain.ErrRootRequired) {
		t.Fatalf("expected ErrRootRequired, got %v", err)
	}
}

func TestPlanRejectsInvalidPattern(t *testing.T) {
	service := newTestService(&fakeFileSource{}, &fakeSchemaClient{})
	_, err := service.Plan(context.Background(), "/etc/graphql", "(unclosed")
	if !errors.Is(err, domain.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestPlanWithoutFiles(t *testing.T) {
	service := newTestService(&fakeFileSource{}, &fakeSchemaClient{})
	_, err := service.Plan(context.Background(), "/etc/graphql", domain.DefaultPattern)
	if !errors.Is(err, ErrNoMigrationFiles) {
		t.Fatalf("expected ErrNoMigrationFiles, got %v", err)
	}
}

func TestPlanSortsPaths(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/b.graphql", "/g/a/z.graphql", "/g/B.graphql", "/g/a.graphql"}}
	service := newTestService(files, &fakeSchemaClient{})

	plan, err := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	expected := []string{"/g/B.graphql", "/g/a.graphql", "/g/a/z.graphql", "/g/b.graphql"}
	if len(plan.Files) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, plan.Files)
	}
	for i, value := range expected {
		if plan.Files[i] != value {
			t.Fatalf("expected %v, got %v", expected, plan.Files)
		}
	}
	if files.files[0] != "/g/b.graphql" {
		t.Fatalf("Plan must not reorder the source slice, got %v", files.files)
	}
	if files.root != "/g" {
		t.Fatalf("expected root /g, got %q", files.root)
	}
	if !files.match("schema.graphql") || files.match("README.md") {
		t.Fatalf("matcher passed to the source does not follow the pattern")
	}
}

func TestApplyConcatenatesInOrder(t *testing.T) {
	files := &fakeFileSource{
		files: []string{"/g/b.graphql", "/g/a.graphql"},
		contents: map[string]string{
			"/g/a.graphql": "type A {}",
			"/g/b.graphql": "type B {}",
		},
	}
	client := &fakeSchemaClient{response: domain.SchemaResponse{StatusCode: 200, Members: []string{"data"}}}
	service := newTestService(files, client)

	plan, err := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	report, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://dgraph:8080"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if got := string(client.body); got != "type A {}\ntype B {}\n" {
		t.Fatalf("unexpected payload %q", got)
	}
	if client.target != "http://dgraph:8080/admin/schema" {
		t.Fatalf("unexpected target %q", client.target)
	}
	if report.RunID != "01RUN" {
		t.Fatalf("expected run id 01RUN, got %q", report.RunID)
	}
	if report.PayloadBytes != len("type A {}\ntype B {}\n") {
		t.Fatalf("unexpected payload size %d", report.PayloadBytes)
	}
	if report.Revision.HeadHash != "abc123" || report.Revision.Branch != "main" {
		t.Fatalf("unexpected revision %+v", report.Revision)
	}
	if report.Elapsed <= 0 {
		t.Fatalf("expected elapsed time, got %v", report.Elapsed)
	}
	if !report.Succeeded() {
		t.Fatalf("expected success")
	}
}

func TestApplyKeepsFileContentsVerbatim(t *testing.T) {
	files := &fakeFileSource{
		files: []string{"/g/a.graphql", "/g/b.graphql"},
		contents: map[string]string{
			"/g/a.graphql": "type A {}\n",
			"/g/b.graphql": "",
		},
	}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	if _, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x"}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := string(client.body); got != "type A {}\n\n\n" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestApplyReadFailureSendsNothing(t *testing.T) {
	readErr := errors.New("permission denied")
	files := &fakeFileSource{
		files:    []string{"/g/a.graphql", "/g/b.graphql"},
		contents: map[string]string{"/g/a.graphql": "type A {}"},
		readErr:  map[string]error{"/g/b.graphql": readErr},
	}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	_, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x"})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("expected no request, got %d", client.calls)
	}
}

func TestApplyAnnouncesEachFileBeforeReading(t *testing.T) {
	readErr := errors.New("permission denied")
	files := &fakeFileSource{
		files:    []string{"/g/c.graphql", "/g/b.graphql", "/g/a.graphql"},
		contents: map[string]string{"/g/a.graphql": "type A {}"},
		readErr:  map[string]error{"/g/b.graphql": readErr},
	}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	var announced []string
	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	_, err := service.Apply(context.Background(), plan, ApplyOptions{
		BaseURL: "http://x",
		OnFile: func(path string) error {
			if len(announced) != len(files.reads) {
				t.Fatalf("%s announced after %d reads", path, len(files.reads))
			}
			announced = append(announced, path)
			return nil
		},
	})
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if len(announced) != 2 || announced[0] != "/g/a.graphql" || announced[1] != "/g/b.graphql" {
		t.Fatalf("expected a and b announced, got %v", announced)
	}
	if client.calls != 0 {
		t.Fatalf("expected no request, got %d", client.calls)
	}
}

func TestPrepareThenSubmit(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	run, err := service.Prepare(context.Background(), plan, ApplyOptions{BaseURL: "http://x"})
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("Prepare must not send, got %d calls", client.calls)
	}
	if run.Report.TargetURL != "http://x/admin/schema" || run.Report.PayloadBytes != len("type A {}\n") {
		t.Fatalf("unexpected prepared report %+v", run.Report)
	}

	report, err := service.Submit(context.Background(), run)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if client.calls != 1 || string(client.body) != "type A {}\n" {
		t.Fatalf("unexpected request %d %q", client.calls, client.body)
	}
	if report.RunID != "01RUN" {
		t.Fatalf("expected run id 01RUN, got %q", report.RunID)
	}
}

func TestApplyRejected(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{response: domain.SchemaResponse{
		StatusCode: 200,
		HasErrors:  true,
		Errors:     jsontext.Value(`[{"message": "bad schema"}]`),
	}}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	report, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x"})
	if !errors.Is(err, ErrSchemaRejected) {
		t.Fatalf("expected ErrSchemaRejected, got %v", err)
	}
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RejectedError, got %T", err)
	}
	if got := rejected.ErrorsText(); got != `[{"message":"bad schema"}]` {
		t.Fatalf("unexpected errors text %q", got)
	}
	if report.Succeeded() {
		t.Fatalf("expected failed report")
	}
}

func TestApplyTransportFault(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{err: errors.Join(domain.ErrTransport, errors.New("connection refused"))}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	_, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x"})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one request, got %d", client.calls)
	}
}

func TestApplyMissingBaseURL(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	if _, err := service.Apply(context.Background(), plan, ApplyOptions{}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if client.target != "None/admin/schema" {
		t.Fatalf("expected placeholder target, got %q", client.target)
	}
}

func TestApplyDryRun(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{}
	service := newTestService(files, client)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	report, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x", DryRun: true})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("dry run must not send, got %d calls", client.calls)
	}
	if !report.DryRun || report.PayloadBytes != len("type A {}\n") || report.Digest == "" {
		t.Fatalf("unexpected dry run report %+v", report)
	}
}

func TestApplyIgnoresRevisionFailure(t *testing.T) {
	files := &fakeFileSource{files: []string{"/g/a.graphql"}, contents: map[string]string{"/g/a.graphql": "type A {}"}}
	client := &fakeSchemaClient{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(files, client, fakeRevisionSource{err: errors.New("not a repo")}, fakeIDGenerator{id: "01RUN"}, fakeDigester{}, &stepClock{}, logger)

	plan, _ := service.Plan(context.Background(), "/g", domain.DefaultPattern)
	report, err := service.Apply(context.Background(), plan, ApplyOptions{BaseURL: "http://x"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !report.Revision.IsZero() {
		t.Fatalf("expected zero revision, got %+v", report.Revision)
	}
}
