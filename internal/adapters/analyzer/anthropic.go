package analyzer

import (
	"context"
	"errors"

	"github.com/liushuangls/go-anthropic/v2"

	"pixmend/internal/core/domain"
)

const maxTokens = 2000

// AnthropicClient is the slice of the anthropic client the analyzer uses.
type AnthropicClient interface {
	CreateMessages(ctx context.Context, request anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Claude is an alternative describe-and-advise backend using the Anthropic
// API directly.
type Claude struct {
	client       AnthropicClient
	model        anthropic.Model
	systemPrompt string
	userPrompt   string
}

func NewClaude(apiKey, model, systemPrompt, userPrompt string) *Claude {
	return &Claude{
		client:       anthropic.NewClient(apiKey),
		model:        anthropic.Model(model),
		systemPrompt: systemPrompt,
		userPrompt:   userPrompt,
	}
}

func (a *Claude) Analyze(ctx context.Context, image domain.EncodedImage) (domain.Outcome, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     a.model,
		System:    a.systemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.MessageContentSource{
						Type:      "base64",
						MediaType: image.MediaType,
						Data:      image.Data,
					}),
					anthropic.NewTextMessageContent(a.userPrompt),
				},
			},
		},
	})
	if err != nil {
		var reqErr *anthropic.RequestError
		if errors.As(err, &reqErr) {
			return domain.Outcome{}, &domain.ExternalError{Status: reqErr.StatusCode, Message: reqErr.Error()}
		}
		return domain.Outcome{}, &domain.ExternalError{Message: err.Error()}
	}

	if len(resp.Content) == 0 {
		return domain.Outcome{}, &domain.ExternalError{Message: "empty completion response"}
	}

	return domain.Outcome{
		Kind:   domain.Advice,
		Advice: resp.Content[0].GetText(),
	}, nil
}
