package main

import (
	"os"

	"github.com/osvaldoandrade/graphql-migrate/pkg/graphqlmigrate"
)

func main() {
	os.Exit(graphqlmigrate.Execute())
}
