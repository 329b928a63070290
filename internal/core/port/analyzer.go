package port

import (
	"context"
	"pixmend/internal/core/domain"
)

type Analyzer interface {
	// Analyze submits the encoded image to the external collaborator and
	// returns its outcome, either textual restoration advice or an edited
	// image. A single attempt is made per call, no retries.
	Analyze(ctx context.Context, image domain.EncodedImage) (domain.Outcome, error)
}
