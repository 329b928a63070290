package analyzer

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/revrost/go-openrouter"

	"pixmend/internal/core/domain"
)

// OpenRouterClient is the slice of the openrouter client the analyzer uses.
type OpenRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		request openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// OpenRouter implements the describe-and-advise variant: the model receives
// the image and returns textual restoration guidance, no image comes back.
type OpenRouter struct {
	client       OpenRouterClient
	model        string
	systemPrompt string
	userPrompt   string
}

func NewOpenRouter(apiKey, model, systemPrompt, userPrompt string) *OpenRouter {
	return &OpenRouter{
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("pixmend"),
		),
		model:        model,
		systemPrompt: systemPrompt,
		userPrompt:   userPrompt,
	}
}

func (a *OpenRouter) Analyze(ctx context.Context, image domain.EncodedImage) (domain.Outcome, error) {
	messages := []openrouter.ChatCompletionMessage{
		{
			Role: openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{
				Text: a.systemPrompt,
			},
		},
		{
			Role: openrouter.ChatMessageRoleUser,
			Content: openrouter.Content{Multi: []openrouter.ChatMessagePart{
				{
					Type:     openrouter.ChatMessagePartTypeImageURL,
					ImageURL: &openrouter.ChatMessageImageURL{URL: dataURL(image)},
				},
				{
					Type: openrouter.ChatMessagePartTypeText,
					Text: a.userPrompt,
				},
			}},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		var apiErr *openrouter.APIError
		if errors.As(err, &apiErr) {
			return domain.Outcome{}, &domain.ExternalError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return domain.Outcome{}, &domain.ExternalError{Message: err.Error()}
	}

	if len(resp.Choices) == 0 {
		return domain.Outcome{}, &domain.ExternalError{Message: "no choices in completion response"}
	}

	return domain.Outcome{
		Kind:   domain.Advice,
		Advice: resp.Choices[0].Message.Content.Text,
	}, nil
}

// dataURL embeds the optimized image as a base64 data URL, the transport
// encoding all backends accept inline.
func dataURL(image domain.EncodedImage) string {
	return "data:" + image.MediaType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}
