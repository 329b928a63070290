package port

type ImageProcessor interface {
	// Optimize re-encodes an image bounded to the transport dimensions at a
	// fixed lossy quality. It never upscales.
	Optimize(src []byte) ([]byte, error)
	// Enhance applies the local restoration pass (bounded resize, sharpen,
	// brightness and saturation lift) and encodes at high quality.
	Enhance(src []byte) ([]byte, error)
}
