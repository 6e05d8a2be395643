package graphqlmigrate

import "github.com/osvaldoandrade/graphql-migrate/internal/cli"

// Execute runs the graphql-migrate CLI entrypoint.
func Execute() int {
	return cli.Execute()
}
