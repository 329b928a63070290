package port

type TempStore interface {
	// Save writes data to the transient store under a collision-free name
	// and returns its path.
	Save(data []byte, extension string) (string, error)
	// Read retrieves transiently stored bytes by the path Save returned.
	Read(path string) ([]byte, error)
	// Remove deletes a transient file, best-effort. Failures are logged,
	// not returned.
	Remove(path string)
}

type ArtifactStore interface {
	// Save persists a finished restoration and returns its generated
	// filename, usable as retrieval identifier.
	Save(data []byte) (string, error)
	// Open returns the stored bytes for a filename, or
	// domain.ErrArtifactNotFound when no such artifact exists.
	Open(filename string) ([]byte, error)
}
