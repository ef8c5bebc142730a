package bedrockclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/pkg/errors"
)

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
	Name() string
}

type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type impl struct {
	client invoker
	model  string
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature,omitempty"`
	AnthropicVersion string          `json:"anthropic_version"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewClient учётные данные берутся из окружения/IAM роли
func NewClient(ctx context.Context, region, model string) (Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка загрузки конфигурации AWS")
	}
	return impl{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
	}, nil
}

func (i impl) Name() string {
	return fmt.Sprintf("AWS Bedrock (%s)", i.model)
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (string, error) {
	body, err := json.Marshal(claudeRequest{
		System:           promt,
		Messages:         []claudeMessage{{Role: "user", Content: text}},
		MaxTokens:        2000,
		Temperature:      0.7,
		AnthropicVersion: "bedrock-2023-05-31",
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка сериализации запроса в Bedrock")
	}
	resp, err := i.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(i.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка вызова Bedrock API")
	}
	var out claudeResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", errors.Wrap(err, "ошибка декодирования ответа Bedrock")
	}
	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("Bedrock вернул пустой ответ")
	}
	return sb.String(), nil
}
