package interfaces

import (
	"context"

	"github.com/bobmcallan/anvil/internal/models"
)

// ArtifactStore persists a rendered artifact set.
// Implementations can be swapped (filesystem for generate, memory for dry runs and tests).
type ArtifactStore interface {
	// Commit writes every artifact or none of them and returns the
	// location the set was written to.
	Commit(ctx context.Context, artifacts []models.Artifact) (string, error)
}
