package interviewapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Categories struct {
	Categories []string `json:"categories"`
}

type SetupRequest struct {
	JobPosition  string `json:"job_position"`  // категория должности из списка categories
	JobURL       string `json:"job_url"`       // ссылка на вакансию, необязательно
	NumQuestions int    `json:"num_questions"` // количество вопросов
}

func (r SetupRequest) Validate(categories []string, maxQuestions int) error {
	position := strings.TrimSpace(r.JobPosition)
	if position == "" {
		return errors.New("не указана должность")
	}
	found := false
	for _, category := range categories {
		if strings.EqualFold(category, position) {
			found = true
			break
		}
	}
	if !found {
		return errors.Errorf("неизвестная должность: %s", position)
	}
	if r.NumQuestions < 1 || r.NumQuestions > maxQuestions {
		return errors.Errorf("количество вопросов должно быть от 1 до %d", maxQuestions)
	}
	return nil
}

type SetupResponse struct {
	SessionID   string   `json:"session_id"`
	Questions   []string `json:"questions"`
	JobPosition string   `json:"job_position"`
	JobURL      string   `json:"job_url"`
	Message     string   `json:"message"`
}

type Session struct {
	ID          string    `json:"id"`
	JobPosition string    `json:"job_position"`
	JobURL      string    `json:"job_url"`
	Questions   []string  `json:"questions"`
	CreatedAt   time.Time `json:"created_at"`
}

// AudioRequest поля формы вместе с файлом audio_file
type AudioRequest struct {
	Question      string
	QuestionIndex int
	ContentType   string
	Data          []byte
}

func (r AudioRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("не указан вопрос")
	}
	if r.QuestionIndex < 0 {
		return errors.New("номер вопроса не может быть отрицательным")
	}
	if len(r.Data) == 0 {
		return errors.New("пустой аудиофайл")
	}
	return nil
}

type AudioResponse struct {
	RecordID      string             `json:"record_id"`
	Timestamp     time.Time          `json:"timestamp"`
	Text          string             `json:"text"`
	Emotion       string             `json:"emotion"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}
