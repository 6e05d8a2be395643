package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestRevisionOutsideRepository(t *testing.T) {
	_, err := NewStore().Revision(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("expected ErrNotRepository, got %v", err)
	}
}

func TestRevisionUnbornHead(t *testing.T) {
	root := t.TempDir()
	if _, err := git.PlainInit(root, false); err != nil {
		t.Fatalf("init repo: %v", err)
	}

	revision, err := NewStore().Revision(context.Background(), root)
	if err != nil {
		t.Fatalf("Revision returned error: %v", err)
	}
	if !revision.IsZero() {
		t.Fatalf("expected zero revision, got %+v", revision)
	}
}

func TestRevisionFromNestedDirectory(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	schemaDir := filepath.Join(root, "graphql")
	if err := os.MkdirAll(schemaDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(schemaDir, "a.graphql"), []byte("type A {}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := worktree.Add("graphql/a.graphql"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := worktree.Commit("add schema", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	revision, err := NewStore().Revision(context.Background(), schemaDir)
	if err != nil {
		t.Fatalf("Revision returned error: %v", err)
	}
	if revision.HeadHash != hash.String() {
		t.Fatalf("expected head %s, got %s", hash, revision.HeadHash)
	}
	if revision.Branch != "master" {
		t.Fatalf("expected branch master, got %q", revision.Branch)
	}
}
