package gpthandler

import (
	"context"
	"strings"
	"testing"

	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	answer string
	err    error
	promts []string
}

func (f *fakeLLM) GenerateByPromtAndText(_ context.Context, promt, text string) (string, error) {
	f.promts = append(f.promts, promt, text)
	return f.answer, f.err
}

func (f *fakeLLM) Name() string {
	return "fake"
}

func TestParseQuestions(t *testing.T) {
	t.Run(`numbering and bullets check`, func(t *testing.T) {
		content := `Вот вопросы:
1. Как вы планируете работу команды?
2) Какие метрики вы используете для оценки проекта?
- Расскажите о себе?
* Как вы решаете конфликты в команде?
• Опишите самый сложный проект.
`
		questions := ParseQuestions(content)
		require.Equal(t, []string{
			"Как вы планируете работу команды?",
			"Какие метрики вы используете для оценки проекта?",
			"Как вы решаете конфликты в команде?",
		}, questions)
	})

	t.Run(`empty content check`, func(t *testing.T) {
		require.Empty(t, ParseQuestions(""))
		require.Empty(t, ParseQuestions("нет вопросов"))
	})
}

func TestGenerateQuestions(t *testing.T) {
	t.Run(`questions are truncated to count check`, func(t *testing.T) {
		llm := &fakeLLM{answer: "1. Первый?\n2. Второй?\n3. Третий?"}
		handler := NewHandler(llm, 0)
		questions, err := handler.GenerateQuestions(context.TODO(), "ICT", "", 2)
		require.NoError(t, err)
		require.Equal(t, []string{"Первый?", "Второй?"}, questions)
		require.Equal(t, QuestionsSysPromt, llm.promts[0])
		require.True(t, strings.Contains(llm.promts[1], "Должность: ICT"))
		require.True(t, strings.Contains(llm.promts[1], "Ссылка на вакансию: не указана"))
	})

	t.Run(`llm failure is upstream error check`, func(t *testing.T) {
		handler := NewHandler(&fakeLLM{err: errors.New("timeout")}, 0)
		_, err := handler.GenerateQuestions(context.TODO(), "ICT", "", 2)
		require.True(t, errors.Is(err, apperrors.ErrUpstream))
	})

	t.Run(`answer without questions check`, func(t *testing.T) {
		handler := NewHandler(&fakeLLM{answer: "Извините, не могу помочь."}, 0)
		_, err := handler.GenerateQuestions(context.TODO(), "ICT", "", 2)
		require.True(t, errors.Is(err, apperrors.ErrResponseParse))
	})

	t.Run(`invalid count check`, func(t *testing.T) {
		handler := NewHandler(&fakeLLM{}, 0)
		_, err := handler.GenerateQuestions(context.TODO(), "ICT", "", 0)
		require.True(t, errors.Is(err, apperrors.ErrValidation))
	})
}

func TestNewLLM(t *testing.T) {
	t.Run(`unknown provider check`, func(t *testing.T) {
		_, err := NewLLM(context.TODO(), FactoryConfig{Provider: "ollama"})
		require.Error(t, err)
	})

	t.Run(`openai without client check`, func(t *testing.T) {
		_, err := NewLLM(context.TODO(), FactoryConfig{Provider: "openai"})
		require.Error(t, err)
	})

	t.Run(`yandex without credentials check`, func(t *testing.T) {
		_, err := NewLLM(context.TODO(), FactoryConfig{Provider: "yandexgpt"})
		require.Error(t, err)
	})

	t.Run(`yandex provider check`, func(t *testing.T) {
		llm, err := NewLLM(context.TODO(), FactoryConfig{Provider: "yandexgpt", YandexIAMToken: "token", YandexCatalogID: "catalog"})
		require.NoError(t, err)
		require.Equal(t, "YandexGPT (yandexgpt-lite)", llm.Name())
	})
}
