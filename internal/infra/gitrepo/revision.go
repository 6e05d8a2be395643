package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

var ErrNotRepository = errors.New("not inside a git repository")

// Store reads repository metadata for a migration root.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Revision resolves HEAD of the repository containing path, searching parent
// directories. An unborn HEAD yields a zero revision without error.
func (s *Store) Revision(ctx context.Context, path string) (domain.SourceRevision, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceRevision{}, err
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return domain.SourceRevision{}, ErrNotRepository
		}
		return domain.SourceRevision{}, fmt.Errorf("open git repo: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return domain.SourceRevision{}, nil
		}
		return domain.SourceRevision{}, fmt.Errorf("read HEAD: %w", err)
	}

	revision := domain.SourceRevision{HeadHash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		revision.Branch = ref.Name().Short()
	}
	return revision, nil
}
