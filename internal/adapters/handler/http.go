package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pixmend/internal/core/domain"
	"pixmend/internal/core/port"
	"pixmend/internal/core/service"
)

// HTTP is the relay's ingress surface. It owns upload validation and the
// mapping from pipeline errors to HTTP statuses; everything between intake
// and response lives in the pipeline.
type HTTP struct {
	pipeline       *service.Pipeline
	artifacts      port.ArtifactStore
	limiter        service.Limiter
	maxUploadBytes int64
	debug          bool
}

func NewHTTP(pipeline *service.Pipeline, artifacts port.ArtifactStore, limiter service.Limiter,
	maxUploadBytes int64, debug bool) *HTTP {
	return &HTTP{
		pipeline:       pipeline,
		artifacts:      artifacts,
		limiter:        limiter,
		maxUploadBytes: maxUploadBytes,
		debug:          debug,
	}
}

func (h *HTTP) Register(r *gin.Engine) {
	r.POST("/repair", h.Repair)
	r.GET("/artifacts/:filename", h.Artifact)
	r.GET("/health", h.Health)
	r.GET("/", h.Info)
}

func (h *HTTP) Repair(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limited",
			"message": "too many requests, try again later",
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.fail(c, domain.ErrEmptyUpload)
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		h.fail(c, domain.ErrFileTooLarge)
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mediaType, "image/") {
		h.fail(c, domain.ErrNotAnImage)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.fail(c, fmt.Errorf("error opening upload: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(c, fmt.Errorf("error reading upload: %w", err))
		return
	}

	artifact, err := h.pipeline.Process(c.Request.Context(), domain.Upload{
		Data:      data,
		MediaType: mediaType,
		Filename:  fileHeader.Filename,
		Size:      fileHeader.Size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"processedImageUrl": "/artifacts/" + artifact.Filename,
		"analysis":          artifact.Analysis,
		"originalFilename":  artifact.OriginalFilename,
		"processedFilename": artifact.Filename,
	})
}

func (h *HTTP) Artifact(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))

	data, err := h.artifacts.Open(name)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/jpeg", data)
}

func (h *HTTP) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTP) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "pixmend",
		"endpoints": gin.H{
			"repair":    fmt.Sprintf("POST /repair (multipart field: image, image/* only, max %d bytes)", h.maxUploadBytes),
			"artifacts": "GET /artifacts/:filename",
			"health":    "GET /health",
		},
	})
}

func (h *HTTP) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "processing"

	var extErr *domain.ExternalError
	switch {
	case errors.Is(err, domain.ErrNotAnImage), errors.Is(err, domain.ErrEmptyUpload):
		status = http.StatusBadRequest
		kind = "validation"
	case errors.Is(err, domain.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
		kind = "validation"
	case errors.Is(err, domain.ErrArtifactNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	case errors.As(err, &extErr):
		kind = "external_service"
	}

	// client-correctable outcomes are routine, only server-side failures
	// warrant an error entry
	if status < http.StatusInternalServerError {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("request rejected")
	} else {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	body := gin.H{
		"error":   kind,
		"message": err.Error(),
	}

	if h.debug {
		body["detail"] = fmt.Sprintf("%T: %+v", err, err)
	}

	c.JSON(status, body)
}
