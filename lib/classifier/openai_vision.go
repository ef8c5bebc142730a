package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"interview-coach-backend/lib/emotion"
	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const visionSysPromt = "Ты — система распознавания эмоций по изображению лица. Отвечай только JSON-объектом."

type openAIVision struct {
	client *openai.Client
	model  string
}

// NewOpenAIVideo классификатор кадра через мультимодальную модель OpenAI
func NewOpenAIVideo(client *openai.Client, model string) VideoClassifier {
	if model == "" {
		model = openai.GPT4oMini
	}
	return openAIVision{
		client: client,
		model:  model,
	}
}

func visionPromt() string {
	labels, _ := emotion.Labels(emotion.Video)
	return fmt.Sprintf(`Определи эмоцию человека на изображении.
Допустимые метки: %s.
Верни JSON вида {"label": "<метка>", "confidence": <0..1>, "probabilities": {"<метка>": <0..1>, ...}}
с вероятностью для каждой допустимой метки.`, strings.Join(labels, ", "))
}

func (o openAIVision) Classify(ctx context.Context, frame Frame) (emotion.Prediction, error) {
	if len(frame.Image) == 0 {
		return emotion.Prediction{}, errors.Wrap(emotion.ErrClassification, "пустой кадр")
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(frame.Image), base64.StdEncoding.EncodeToString(frame.Image))
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: visionSysPromt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPromt(),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return emotion.Prediction{}, apperrors.Upstream(err, "openai vision")
	}
	if len(resp.Choices) == 0 {
		return emotion.Prediction{}, errors.Wrap(apperrors.ErrUpstream, "openai vision: пустой ответ")
	}
	var reply modelReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		return emotion.Prediction{}, errors.Wrapf(emotion.ErrClassification, "некорректный ответ модели: %v", err)
	}
	return reply.toPrediction().Validate(emotion.Video)
}
