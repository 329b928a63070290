package domain

// Upload is a single image received from a client, held only for the
// duration of one request.
type Upload struct {
	Data      []byte
	MediaType string
	Filename  string
	Size      int64
}

// EncodedImage is an optimized, transport-ready representation of an upload.
type EncodedImage struct {
	Data      []byte
	MediaType string
}

type OutcomeKind string

const (
	Advice      OutcomeKind = "advice"
	EditedImage OutcomeKind = "edited_image"
)

// Outcome is the tagged result of an external analysis call. Advice carries
// textual restoration guidance, EditedImage carries the restored image
// itself. Consumers branch on Kind.
type Outcome struct {
	Kind   OutcomeKind
	Advice string
	Image  []byte
}

// Artifact references a finished restoration stored for later retrieval.
type Artifact struct {
	Filename         string
	Analysis         string
	OriginalFilename string
}
