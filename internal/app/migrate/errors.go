package migrate

import (
	"errors"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

var ErrNoMigrationFiles = errors.New("no migration files were found")
var ErrSchemaRejected = errors.New("schema rejected by endpoint")

// RejectedError carries the errors member of the endpoint response.
type RejectedError struct {
	Errors jsontext.Value
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchemaRejected, e.ErrorsText())
}

func (e *RejectedError) Unwrap() error {
	return ErrSchemaRejected
}

// ErrorsText renders the errors member compactly, "null" when it was absent
// or empty.
func (e *RejectedError) ErrorsText() string {
	if len(e.Errors) == 0 {
		return "null"
	}
	value := e.Errors.Clone()
	if err := value.Compact(); err != nil {
		return string(e.Errors)
	}
	return string(value)
}
