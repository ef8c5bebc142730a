package gpthandler

import (
	"context"

	bedrockclient "interview-coach-backend/lib/gpt/bedrock-client"
	openaiclient "interview-coach-backend/lib/gpt/openai-client"
	yagptclient "interview-coach-backend/lib/gpt/yagpt-client"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

type FactoryConfig struct {
	// yandexgpt, openai, bedrock
	Provider string
	Model    string

	OpenAIClient *openai.Client

	YandexIAMToken  string
	YandexCatalogID string

	BedrockRegion string
	BedrockModel  string
}

// NewLLM создаёт клиента генерации текста по конфигурации
func NewLLM(ctx context.Context, cfg FactoryConfig) (LLM, error) {
	var (
		llm LLM
		err error
	)
	switch cfg.Provider {
	case "openai", "":
		if cfg.OpenAIClient == nil {
			return nil, errors.New("клиент OpenAI не инициализирован")
		}
		llm = openaiclient.NewClient(cfg.OpenAIClient, cfg.Model, 1500)
	case "yandexgpt", "yandex":
		if cfg.YandexIAMToken == "" || cfg.YandexCatalogID == "" {
			return nil, errors.New("не указаны IAM токен или каталог YandexGPT")
		}
		llm = yagptclient.NewClient(cfg.YandexIAMToken, cfg.YandexCatalogID, cfg.Model)
	case "bedrock", "aws":
		model := cfg.BedrockModel
		if model == "" {
			model = cfg.Model
		}
		llm, err = bedrockclient.NewClient(ctx, cfg.BedrockRegion, model)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("неизвестный провайдер LLM: %s (поддерживаются: openai, yandexgpt, bedrock)", cfg.Provider)
	}
	log.Infof("Инициализация LLM: %s", llm.Name())
	return llm, nil
}
