package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/osvaldoandrade/graphql-migrate/pkg/migratesdk"
)

func main() {
	dsn := os.Getenv("DGRAPH_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DGRAPH_DSN is required (base URL of the schema endpoint)")
		os.Exit(1)
	}

	cfg := migratesdk.DefaultConfig(dsn)
	if root := os.Getenv("GRAPHQL_PATH"); root != "" {
		cfg.Root = root
	}
	cfg.Timeout = 30 * time.Second

	ctx := context.Background()
	client, err := migratesdk.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	files, err := client.Files(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "files: %v\n", err)
		os.Exit(1)
	}
	for _, path := range files {
		fmt.Printf("migration %s\n", path)
	}

	report, err := client.Run(ctx)
	var rejected *migratesdk.RejectedError
	switch {
	case errors.As(err, &rejected):
		fmt.Fprintf(os.Stderr, "rejected run=%s errors=%s\n", report.RunID, rejected.ErrorsText())
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("applied run=%s files=%d bytes=%d digest=%s status=%d elapsed=%s\n",
		report.RunID, len(report.Files), report.Bytes, report.Digest, report.StatusCode, report.Elapsed)
}
