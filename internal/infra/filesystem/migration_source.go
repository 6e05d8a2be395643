package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// MigrationSource walks a directory tree for migration files and reads them.
type MigrationSource struct {
	Logger *slog.Logger
}

// ListFiles returns every non-directory entry below root whose base name
// satisfies match. Symlinked directories are neither selected nor followed.
// Unreadable directories, including a missing root, are skipped.
func (s MigrationSource) ListFiles(ctx context.Context, root string, match func(name string) bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger().Debug("skip unreadable path", "path", path, "err", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if entry.Type()&fs.ModeSymlink != 0 && isDirTarget(path) {
			return nil
		}
		if match(entry.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (MigrationSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read migration: %w", err)
	}
	return data, nil
}

func (s MigrationSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func isDirTarget(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
