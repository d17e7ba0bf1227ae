package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

// MemoryStore implements interfaces.ArtifactStore in memory.
type MemoryStore struct {
	mu      sync.Mutex
	files   map[string]string
	commits int
	logger  *common.Logger
}

// NewMemoryStore creates an empty in-memory artifact store.
func NewMemoryStore(logger *common.Logger) *MemoryStore {
	return &MemoryStore{
		files:  make(map[string]string),
		logger: logger,
	}
}

// Commit replaces the stored set with artifacts.
func (s *MemoryStore) Commit(ctx context.Context, artifacts []models.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	files := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		if err := validPath(a.Path); err != nil {
			return "", err
		}
		if _, dup := files[a.Path]; dup {
			return "", fmt.Errorf("duplicate artifact path %s", a.Path)
		}
		files[a.Path] = a.Content
	}

	s.mu.Lock()
	s.files = files
	s.commits++
	s.mu.Unlock()

	s.logger.Debug().Int("files", len(files)).Msg("artifacts held in memory")
	return "memory://", nil
}

// Get returns the stored content of one artifact.
func (s *MemoryStore) Get(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	return content, ok
}

// Paths returns the stored artifact paths in sorted order.
func (s *MemoryStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Commits returns how many sets have been committed.
func (s *MemoryStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}
