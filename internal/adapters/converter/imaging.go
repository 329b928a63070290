package converter

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	_ "github.com/gen2brain/avif"
	_ "golang.org/x/image/webp"

	"pixmend/internal/core/domain"
)

const (
	OptimizeBound   = 1024
	OptimizeQuality = 85

	EnhanceBound   = 2048
	EnhanceQuality = 92

	sharpenSigma   = 0.8
	brightnessLift = 3
	saturationLift = 12
)

// Imaging performs the local image transforms: downsampling uploads before
// transmission and the enhancement pass on results. imaging.Fit preserves
// aspect ratio and never upscales.
type Imaging struct{}

func NewImaging() *Imaging {
	return &Imaging{}
}

func (c *Imaging) Optimize(src []byte) ([]byte, error) {
	img, err := decode(src)
	if err != nil {
		return nil, err
	}

	img = imaging.Fit(img, OptimizeBound, OptimizeBound, imaging.Lanczos)

	return encodeJPEG(img, OptimizeQuality)
}

func (c *Imaging) Enhance(src []byte) ([]byte, error) {
	img, err := decode(src)
	if err != nil {
		return nil, err
	}

	out := imaging.Fit(img, EnhanceBound, EnhanceBound, imaging.Lanczos)
	out = imaging.Sharpen(out, sharpenSigma)
	out = imaging.AdjustBrightness(out, brightnessLift)
	out = imaging.AdjustSaturation(out, saturationLift)

	return encodeJPEG(out, EnhanceQuality)
}

func decode(src []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		log.Debug().Err(err).Msg("image decode failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDecodable, err)
	}

	return img, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("error encoding jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
