// Package storage writes rendered artifact sets.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

const stagingPrefix = ".anvil-staging-"

// FileStore implements interfaces.ArtifactStore on the local filesystem.
//
// A commit renders every file into a staging directory inside the target
// and moves the artifacts into place only after all writes succeeded. Only
// the artifact paths are touched: other files in the target survive. Files
// being replaced are moved aside first and restored if any move fails.
type FileStore struct {
	dir    string
	logger *common.Logger
}

// NewFileStore creates a store that commits into dir.
func NewFileStore(logger *common.Logger, dir string) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

// Dir returns the target directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Commit writes artifacts into the target directory all-or-nothing.
func (s *FileStore) Commit(ctx context.Context, artifacts []models.Artifact) (string, error) {
	target, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output dir %s: %w", s.dir, err)
	}

	created := false
	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(target, 0755); err != nil {
			return "", fmt.Errorf("failed to create output dir %s: %w", target, err)
		}
		created = true
	case err != nil:
		return "", fmt.Errorf("failed to stat %s: %w", target, err)
	case !info.IsDir():
		return "", fmt.Errorf("output path %s exists and is not a directory", target)
	}

	staging, err := os.MkdirTemp(target, stagingPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	committed := false
	defer func() {
		os.RemoveAll(staging)
		if created && !committed {
			// Only succeeds while the directory is still empty.
			os.Remove(target)
		}
	}()

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := writeArtifact(staging, a); err != nil {
			return "", err
		}
	}

	if err := install(staging, target, artifacts); err != nil {
		return "", err
	}
	committed = true

	s.logger.Info().
		Int("files", len(artifacts)).
		Str("dir", target).
		Msg("artifacts written")
	return target, nil
}

func writeArtifact(root string, a models.Artifact) error {
	if err := validPath(a.Path); err != nil {
		return err
	}
	dest := filepath.Join(root, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create dir for %s: %w", a.Path, err)
	}
	if err := os.WriteFile(dest, []byte(a.Content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Path, err)
	}
	return nil
}

// install moves every staged artifact to its path under target. On failure
// the artifacts already moved are removed and the files they replaced are
// put back.
func install(staging, target string, artifacts []models.Artifact) error {
	backup := staging + ".previous"
	defer os.RemoveAll(backup)

	var done []placed
	for _, a := range artifacts {
		p, err := place(staging, target, backup, a.Path)
		if err != nil {
			rollback(done)
			return err
		}
		done = append(done, p)
	}
	return nil
}

// placed records one installed artifact and where its predecessor was kept.
type placed struct {
	dest  string
	saved string
}

func place(staging, target, backup, rel string) (placed, error) {
	src := filepath.Join(staging, filepath.FromSlash(rel))
	p := placed{dest: filepath.Join(target, filepath.FromSlash(rel))}

	if _, err := os.Lstat(p.dest); err == nil {
		saved := filepath.Join(backup, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(saved), 0755); err != nil {
			return placed{}, fmt.Errorf("failed to prepare backup for %s: %w", rel, err)
		}
		if err := os.Rename(p.dest, saved); err != nil {
			return placed{}, fmt.Errorf("failed to move aside %s: %w", p.dest, err)
		}
		p.saved = saved
	} else if !os.IsNotExist(err) {
		return placed{}, fmt.Errorf("failed to stat %s: %w", p.dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(p.dest), 0755); err != nil {
		restore(p)
		return placed{}, fmt.Errorf("failed to create dir for %s: %w", rel, err)
	}
	if err := os.Rename(src, p.dest); err != nil {
		restore(p)
		return placed{}, fmt.Errorf("failed to move %s into place: %w", rel, err)
	}
	return p, nil
}

func rollback(done []placed) {
	for i := len(done) - 1; i >= 0; i-- {
		os.Remove(done[i].dest)
		restore(done[i])
	}
}

func restore(p placed) {
	if p.saved != "" {
		os.Rename(p.saved, p.dest)
	}
}

// validPath rejects absolute paths and paths escaping the output directory.
func validPath(p string) error {
	if p == "" {
		return fmt.Errorf("artifact has empty path")
	}
	clean := path.Clean(p)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("artifact path %q escapes the output directory", p)
	}
	return nil
}
