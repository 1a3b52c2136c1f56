// Package file provides file-based persistence for narratives. Each narrative is one JSON
// document under <root>/narratives.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root          string
	narrativeRepo *NarrativeRepository
}

// NewPersistence accepts a plain directory or a file:// URL.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	return &Persistence{
		root:          cleanRoot,
		narrativeRepo: NewNarrativeRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) NarrativeRepository() persistence.NarrativeRepository {
	return fp.narrativeRepo
}
