package migratesdk

import (
	"github.com/osvaldoandrade/graphql-migrate/internal/app/migrate"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

var (
	ErrRootRequired      = domain.ErrRootRequired
	ErrInvalidPattern    = domain.ErrInvalidPattern
	ErrNoMigrationFiles  = migrate.ErrNoMigrationFiles
	ErrTransport         = domain.ErrTransport
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrSchemaRejected    = migrate.ErrSchemaRejected
)

// RejectedError is returned by Run when the endpoint answered with an
// errors member.
type RejectedError = migrate.RejectedError
