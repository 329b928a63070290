package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pixmend/internal/core/domain"
	"pixmend/internal/core/port"
)

// Pipeline sequences one restoration request: transient store, optimize,
// external analysis, enhance, persist. The transient input is removed
// exactly once on every path out, success or failure.
type Pipeline struct {
	processor port.ImageProcessor
	analyzer  port.Analyzer
	temp      port.TempStore
	artifacts port.ArtifactStore
	timeout   time.Duration
}

func NewPipeline(processor port.ImageProcessor, analyzer port.Analyzer, temp port.TempStore,
	artifacts port.ArtifactStore, timeout time.Duration) *Pipeline {
	return &Pipeline{
		processor: processor,
		analyzer:  analyzer,
		temp:      temp,
		artifacts: artifacts,
		timeout:   timeout,
	}
}

func (p *Pipeline) Process(ctx context.Context, upload domain.Upload) (domain.Artifact, error) {
	l := log.With().
		Str("filename", upload.Filename).
		Int64("size", upload.Size).
		Logger()

	l.Info().Msg("handling restoration request")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if len(upload.Data) == 0 {
		return domain.Artifact{}, domain.ErrEmptyUpload
	}

	path, err := p.temp.Save(upload.Data, extensionFor(upload))
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("error storing upload: %w", err)
	}

	defer p.temp.Remove(path)

	src, err := p.temp.Read(path)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("error reading stored upload: %w", err)
	}

	optimized, err := p.processor.Optimize(src)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("error optimizing upload: %w", err)
	}

	l.Debug().Int("optimizedBytes", len(optimized)).Msg("optimized upload")

	outcome, err := p.analyzer.Analyze(ctx, domain.EncodedImage{Data: optimized, MediaType: "image/jpeg"})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("analysis failed: %w", err)
	}

	// advise variant: enhance the original upload; edit variant: enhance
	// the image the collaborator returned
	source := src
	if outcome.Kind == domain.EditedImage {
		source = outcome.Image
	}

	enhanced, err := p.processor.Enhance(source)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("error enhancing result: %w", err)
	}

	name, err := p.artifacts.Save(enhanced)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("error persisting artifact: %w", err)
	}

	l.Info().Str("artifact", name).Msg("restoration complete")

	return domain.Artifact{
		Filename:         name,
		Analysis:         outcome.Advice,
		OriginalFilename: upload.Filename,
	}, nil
}

func extensionFor(upload domain.Upload) string {
	if ext := filepath.Ext(upload.Filename); ext != "" {
		return strings.ToLower(ext)
	}

	return ".jpg"
}
