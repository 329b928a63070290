package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAnImage       = errors.New("uploaded file is not an image")
	ErrFileTooLarge     = errors.New("uploaded file exceeds the size limit")
	ErrEmptyUpload      = errors.New("no image file provided")
	ErrNotDecodable     = errors.New("source bytes are not a decodable image")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ExternalError carries the upstream status and message of a failed
// analysis call. Status is zero when the call never reached the
// collaborator (network failure, timeout).
type ExternalError struct {
	Status  int
	Message string
}

func (e *ExternalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream analysis failed with status %d: %s", e.Status, e.Message)
	}

	return "upstream analysis failed: " + e.Message
}
