package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/osvaldoandrade/graphql-migrate/internal/app/migrate"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
	"github.com/osvaldoandrade/graphql-migrate/internal/platform"
)

type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindValidation ErrorKind = "validation"
	KindNoInput    ErrorKind = "no_input"
	KindTransport  ErrorKind = "transport"
	KindRejected   ErrorKind = "rejected"
)

// ExitFailed is the only non-zero exit code; the error kind tells failures
// apart.
const ExitFailed = 1

type ExitError struct {
	Code    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e ExitError) Error() string {
	return errorMessage(e)
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func NormalizeError(err error) ExitError {
	if err == nil {
		return ExitError{Code: 0}
	}
	var exitErr ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == 0 {
			exitErr.Code = ExitFailed
		}
		return exitErr
	}

	switch {
	case errors.Is(err, migrate.ErrNoMigrationFiles):
		return ExitError{Code: ExitFailed, Kind: KindNoInput, Message: "No migration files were found", Err: err}
	case errors.Is(err, domain.ErrTransport):
		return ExitError{
			Code:    ExitFailed,
			Kind:    KindTransport,
			Message: fmt.Sprintf("Cannot perform POST request: %v", err),
			Err:     err,
		}
	case errors.Is(err, migrate.ErrSchemaRejected):
		return ExitError{Code: ExitFailed, Kind: KindRejected, Err: err}
	case errors.Is(err, domain.ErrRootRequired),
		errors.Is(err, domain.ErrInvalidPattern),
		errors.Is(err, domain.ErrInvalidTimeout),
		errors.Is(err, platform.ErrInvalidLogLevel),
		errors.Is(err, platform.ErrInvalidLogFormat):
		return ExitError{Code: ExitFailed, Kind: KindValidation, Err: err}
	default:
		return ExitError{Code: ExitFailed, Kind: KindInternal, Err: err}
	}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return NormalizeError(err).Code
}

func writeCLIError(w io.Writer, exitErr ExitError, asJSON bool) error {
	if exitErr.Code == 0 {
		return nil
	}
	message := errorMessage(exitErr)
	if asJSON {
		payload := struct {
			Code    int    `json:"code"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}{
			Code:    exitErr.Code,
			Kind:    string(exitErr.Kind),
			Message: message,
		}
		return writeJSON(w, payload)
	}

	ui := newRenderer(w, false)
	prefix := "Error"
	if exitErr.Kind != "" {
		prefix = fmt.Sprintf("Error (%s)", exitErr.Kind)
	}
	prefix = ui.err(prefix)
	_, err := fmt.Fprintf(w, "%s: %s\n", prefix, message)
	return err
}

func writeJSON(w io.Writer, value any) error {
	if err := json.MarshalWrite(w, value, jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func errorMessage(exitErr ExitError) string {
	if exitErr.Message != "" {
		return exitErr.Message
	}
	if exitErr.Err != nil {
		return exitErr.Err.Error()
	}
	return "unknown error"
}
