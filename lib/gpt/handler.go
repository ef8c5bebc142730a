package gpthandler

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LLM генерация текста по системной инструкции и пользовательскому запросу
type LLM interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
	Name() string
}

type Provider interface {
	GenerateQuestions(ctx context.Context, jobPosition, jobURL string, count int) ([]string, error)
}

type impl struct {
	llm     LLM
	timeout time.Duration
}

func NewHandler(llm LLM, timeout time.Duration) Provider {
	return impl{
		llm:     llm,
		timeout: timeout,
	}
}

const (
	QuestionsSysPromt = "Ты — эксперт по подбору персонала и проводишь тренировочное собеседование."
	QuestionsTemplate = `Составь %d вопросов для собеседования кандидата на указанную должность.

Должность: %s
Ссылка на вакансию: %s

Требования:
- вопросы должны быть практическими и позволять оценить компетенции кандидата;
- избегай слишком общих вопросов, используй формулировки, которые звучат на реальном интервью;
- каждый вопрос записывай в одну строку;
- каждый вопрос обязательно заканчивается знаком вопроса (?);
- не включай просьбу рассказать о себе;
- пиши на русском языке.

Вопросы (%d):`
)

var (
	numberingRe = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	bulletRe    = regexp.MustCompile(`^[-*•]\s*`)
)

func (i impl) GenerateQuestions(ctx context.Context, jobPosition, jobURL string, count int) ([]string, error) {
	logger := log.
		WithField("job_position", jobPosition).
		WithField("llm", i.llm.Name())
	if count <= 0 {
		return nil, apperrors.Validation("количество вопросов должно быть больше нуля")
	}
	if jobURL == "" {
		jobURL = "не указана"
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	userPromt := fmt.Sprintf(QuestionsTemplate, count, jobPosition, jobURL, count)
	content, err := i.llm.GenerateByPromtAndText(ctx, QuestionsSysPromt, userPromt)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации вопросов для собеседования")
		return nil, apperrors.Upstream(err, "ошибка генерации вопросов")
	}
	questions := ParseQuestions(content)
	if len(questions) == 0 {
		logger.WithField("answer", content).Warn("в ответе модели не найдено ни одного вопроса")
		return nil, errors.Wrap(apperrors.ErrResponseParse, "в ответе модели не найдено ни одного вопроса")
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// ParseQuestions выделяет вопросы из ответа модели: убирает нумерацию и маркеры списка,
// оставляет строки, оканчивающиеся на "?", кроме просьбы рассказать о себе
func ParseQuestions(content string) []string {
	var questions []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = numberingRe.ReplaceAllString(line, "")
		line = bulletRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		if strings.Contains(strings.ToLower(line), "о себе") {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}
