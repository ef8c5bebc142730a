package openaiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
	Name() string
}

type impl struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClient(client *openai.Client, model string, maxTokens int) Provider {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return impl{
		client:      client,
		model:       model,
		temperature: 0.7,
		maxTokens:   maxTokens,
	}
}

// NewAPIClient один клиент на процесс, переиспользуется генерацией текста и классификатором кадров
func NewAPIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (i impl) Name() string {
	return fmt.Sprintf("OpenAI (%s)", i.model)
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: i.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: promt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: i.temperature,
		MaxTokens:   i.maxTokens,
	}
	response, err := i.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса на генерацию в API OpenAI")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("API OpenAI вернул пустой список вариантов")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
