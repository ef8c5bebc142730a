package yagptclient

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
)

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
	Name() string
}

type impl struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
	model     string
}

// NewClient model: yandexgpt-lite, yandexgpt
func NewClient(token, catalog, model string) Provider {
	if model == "" {
		model = "yandexgpt-lite"
	}
	return impl{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
		model:     model,
	}
}

func (i impl) Name() string {
	return fmt.Sprintf("YandexGPT (%s)", i.model)
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (description string, err error) {
	request := yandexgptclient.YandexGPTRequest{
		ModelURI: fmt.Sprintf("gpt://%s/%s/latest", i.catalogID, i.model),
		CompletionOptions: yandexgptclient.YandexGPTCompletionOptions{
			Stream:      false,
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleSystem,
				Text: promt,
			},
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: text,
			},
		},
	}

	response, err := i.client.CreateRequest(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "Ошибка при отправке запроса на генерацию в API YandexGPT")
	}
	if len(response.Result.Alternatives) == 0 {
		return "", errors.New("API YandexGPT вернул пустой ответ")
	}
	return response.Result.Alternatives[0].Message.Text, nil
}
