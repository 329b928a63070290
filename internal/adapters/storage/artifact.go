package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"

	"pixmend/internal/core/domain"
)

// Artifact is the durable store for finished restorations. It is
// append-only: every Save writes a fresh unique filename, nothing is ever
// overwritten or evicted.
type Artifact struct {
	dir string
}

func NewArtifact(dir string) (*Artifact, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating artifact dir: %w", err)
	}

	return &Artifact{dir: dir}, nil
}

func (a *Artifact) Save(data []byte) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("restored_%s_%d.jpg", id.String(), time.Now().Unix())

	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("error writing artifact: %w", err)
	}

	log.Debug().Str("artifact", name).Int("bytes", len(data)).Msg("persisted artifact")

	return name, nil
}

func (a *Artifact) Open(filename string) ([]byte, error) {
	// identifiers are bare filenames, strip any path a caller smuggled in
	path := filepath.Join(a.dir, filepath.Base(filename))

	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("error reading artifact: %w", err)
	}

	return buf, nil
}
