package migrate

import (
	"context"
	"time"

	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

type FileSource interface {
	ListFiles(ctx context.Context, root string, match func(name string) bool) ([]string, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

type SchemaClient interface {
	PostSchema(ctx context.Context, targetURL string, body []byte) (domain.SchemaResponse, error)
}

type RevisionSource interface {
	Revision(ctx context.Context, path string) (domain.SourceRevision, error)
}

type IDGenerator interface {
	NewID() (string, error)
}

type Digester interface {
	Digest(data []byte) string
}

type Clock interface {
	Now() time.Time
}
