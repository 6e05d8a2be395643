package domain

import (
	"time"

	"github.com/go-json-experiment/json/jsontext"
)

type Plan struct {
	Root    string
	Pattern string
	Files   []string
}

type Payload struct {
	Body   []byte
	Digest string
}

func (p Payload) Size() int {
	return len(p.Body)
}

// SchemaResponse is the decoded reply of the schema endpoint. HasErrors is
// driven by key presence, so an explicit null still counts.
type SchemaResponse struct {
	StatusCode int
	HasErrors  bool
	Errors     jsontext.Value
	Members    []string
}

type SourceRevision struct {
	HeadHash string
	Branch   string
}

func (r SourceRevision) IsZero() bool {
	return r.HeadHash == ""
}

type ApplyReport struct {
	RunID        string
	Plan         Plan
	TargetURL    string
	PayloadBytes int
	Digest       string
	Revision     SourceRevision
	DryRun       bool
	Response     SchemaResponse
	Elapsed      time.Duration
}

func (r ApplyReport) Succeeded() bool {
	return !r.Response.HasErrors
}
