package storage

import (
	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/interfaces"
)

// NewArtifactStore returns a FileStore rooted at dir, or a MemoryStore
// when dryRun is set.
func NewArtifactStore(logger *common.Logger, dir string, dryRun bool) interfaces.ArtifactStore {
	if dryRun {
		return NewMemoryStore(logger)
	}
	return NewFileStore(logger, dir)
}
