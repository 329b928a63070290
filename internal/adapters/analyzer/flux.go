package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"pixmend/internal/adapters/file"
	"pixmend/internal/core/domain"
)

// Flux implements the edit-and-return variant against a FLUX-style image
// editing endpoint: the collaborator restores the image itself and returns
// a URL to the result, which is fetched and handed back embedded.
type Flux struct {
	apiKey  string
	editURL string
	prompt  string
}

func NewFlux(editURL, apiKey, prompt string) *Flux {
	return &Flux{
		apiKey:  apiKey,
		editURL: editURL,
		prompt:  prompt,
	}
}

type editRequest struct {
	Prompt              string `json:"prompt"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
	InputImageURL       string `json:"image_url"`
}

type editResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (a *Flux) Analyze(ctx context.Context, image domain.EncodedImage) (domain.Outcome, error) {
	editReq := editRequest{
		Prompt:              a.prompt,
		InputImageURL:       dataURL(image),
		EnableSafetyChecker: false,
	}

	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(editReq); err != nil {
		return domain.Outcome{}, fmt.Errorf("error encoding edit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.editURL, payloadBuf)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("error creating edit request: %w", err)
	}

	req.Header.Add("Authorization", "Key "+a.apiKey)
	req.Header.Add("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return domain.Outcome{}, &domain.ExternalError{Message: err.Error()}
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.Outcome{}, &domain.ExternalError{Message: "error reading edit response: " + err.Error()}
	}

	if res.StatusCode != http.StatusOK {
		return domain.Outcome{}, &domain.ExternalError{
			Status:  res.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}

	log.Debug().Int("bytes", len(body)).Msg("edit response received")

	var result editResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.Outcome{}, &domain.ExternalError{Message: "error unmarshalling edit response: " + err.Error()}
	}

	if len(result.Images) == 0 {
		return domain.Outcome{}, &domain.ExternalError{Message: "no images returned in edit response"}
	}

	edited, err := file.Download(ctx, result.Images[0].URL)
	if err != nil {
		return domain.Outcome{}, &domain.ExternalError{Message: "error fetching edited image: " + err.Error()}
	}

	return domain.Outcome{
		Kind:  domain.EditedImage,
		Image: edited,
	}, nil
}
