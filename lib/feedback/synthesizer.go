package feedback

import (
	"context"
	"sync"
	"time"

	gpthandler "interview-coach-backend/lib/gpt"
	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const FeedbackSysPromt = "Ты — эксперт по оценке собеседований. Отвечай только JSON-объектом без пояснений и блоков кода."

// Ключи частей отчёта в Report.Errors
const (
	PartAudio    = "audio_summary"
	PartVideo    = "video_summary"
	PartFeedback = "feedback"
)

type Provider interface {
	AudioSummary(ctx context.Context, job JobContext, in ModalityInput) (*AudioSummary, error)
	VideoSummary(ctx context.Context, job JobContext, in ModalityInput) (*VideoSummary, error)
	Combined(ctx context.Context, job JobContext, audio, video *ModalityInput) (*Result, error)
	// Synthesize отправляет готовый запрос модели и разбирает ответ в итоговую оценку
	Synthesize(ctx context.Context, promt string) (*Result, error)
	// Compose собирает три части параллельно; ошибка одной части не влияет на остальные
	Compose(ctx context.Context, job JobContext, audio, video *ModalityInput) Report
}

type impl struct {
	llm     gpthandler.LLM
	timeout time.Duration
}

func NewSynthesizer(llm gpthandler.LLM, timeout time.Duration) Provider {
	return impl{
		llm:     llm,
		timeout: timeout,
	}
}

func (i impl) AudioSummary(ctx context.Context, job JobContext, in ModalityInput) (*AudioSummary, error) {
	result := new(AudioSummary)
	if err := i.synthesize(ctx, BuildPrompt(job, in), result); err != nil {
		return nil, err
	}
	return result, nil
}

func (i impl) VideoSummary(ctx context.Context, job JobContext, in ModalityInput) (*VideoSummary, error) {
	result := new(VideoSummary)
	if err := i.synthesize(ctx, BuildPrompt(job, in), result); err != nil {
		return nil, err
	}
	return result, nil
}

func (i impl) Combined(ctx context.Context, job JobContext, audio, video *ModalityInput) (*Result, error) {
	return i.Synthesize(ctx, BuildCombinedPrompt(job, audio, video))
}

func (i impl) Synthesize(ctx context.Context, promt string) (*Result, error) {
	result := new(Result)
	if err := i.synthesize(ctx, promt, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (i impl) Compose(ctx context.Context, job JobContext, audio, video *ModalityInput) Report {
	report := Report{}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(part string, err error) {
		log.WithError(err).WithField("part", part).Warn("не удалось сформировать часть отчёта")
		mu.Lock()
		defer mu.Unlock()
		if report.Errors == nil {
			report.Errors = map[string]string{}
		}
		report.Errors[part] = err.Error()
	}

	if audio != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := i.AudioSummary(ctx, job, *audio)
			if err != nil {
				fail(PartAudio, err)
				return
			}
			report.Audio = summary
		}()
	}
	if video != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := i.VideoSummary(ctx, job, *video)
			if err != nil {
				fail(PartVideo, err)
				return
			}
			report.Video = summary
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, err := i.Combined(ctx, job, audio, video)
		if err != nil {
			fail(PartFeedback, err)
			return
		}
		report.Feedback = result
	}()
	wg.Wait()
	return report
}

func (i impl) synthesize(ctx context.Context, promt string, out Schema) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	content, err := i.llm.GenerateByPromtAndText(ctx, FeedbackSysPromt, promt)
	if err != nil {
		return apperrors.Upstream(err, i.llm.Name())
	}
	if err := Parse(content, out); err != nil {
		log.WithField("llm", i.llm.Name()).WithField("content", content).Warn("не удалось разобрать ответ модели")
		return errors.Wrap(err, "разбор ответа")
	}
	return nil
}
