// Package emotion holds the emotion domain shared by the classifier adapters,
// the aggregation engine and the feedback synthesizer.
package emotion

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

type Modality string

const (
	Audio Modality = "audio"
	Video Modality = "video"
)

var (
	ErrClassification  = errors.New("ошибка классификации эмоции")
	ErrUnknownModality = errors.New("неизвестная модальность")
)

var audioLabels = []string{"angry", "anxious", "embarrassed", "happy", "hurt", "neutral", "sad"}

var videoLabels = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

// Labels возвращает канонический набор меток модальности (копия, порядок фиксирован)
func Labels(modality Modality) ([]string, error) {
	switch modality {
	case Audio:
		return append([]string(nil), audioLabels...), nil
	case Video:
		return append([]string(nil), videoLabels...), nil
	}
	return nil, errors.Wrapf(ErrUnknownModality, "modality: %q", modality)
}

func IsCanonical(modality Modality, label string) bool {
	labels, err := Labels(modality)
	if err != nil {
		return false
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// Reindex переносит вектор вероятностей на канонический набор меток:
// отсутствующие метки и NaN/Inf становятся 0, значения приводятся к [0,1], чужие метки отбрасываются.
func Reindex(labels []string, vector map[string]float64) map[string]float64 {
	result := make(map[string]float64, len(labels))
	for _, label := range labels {
		value, ok := vector[label]
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
		}
		result[label] = math.Min(math.Max(value, 0), 1)
	}
	return result
}

type Prediction struct {
	Label         string
	Confidence    float64
	Probabilities map[string]float64
	// исходная метка детектора лица до уточнения по признакам кадра, не проверяется
	RawLabel string
}

// Validate проверяет контракт адаптера классификатора и приводит вектор к каноническому виду
func (p Prediction) Validate(modality Modality) (Prediction, error) {
	labels, err := Labels(modality)
	if err != nil {
		return Prediction{}, err
	}
	if !IsCanonical(modality, p.Label) {
		return Prediction{}, errors.Wrapf(ErrClassification, "метка %q не входит в набор %s", p.Label, modality)
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return Prediction{}, errors.Wrapf(ErrClassification, "уверенность вне диапазона [0,1]: %v", p.Confidence)
	}
	for label, value := range p.Probabilities {
		if value < 0 || value > 1 {
			return Prediction{}, errors.Wrapf(ErrClassification, "вероятность %q вне диапазона [0,1]: %v", label, value)
		}
	}
	p.Probabilities = Reindex(labels, p.Probabilities)
	return p, nil
}

type VideoFeatures struct {
	RawLabel   string
	Posture    string
	GazeX      float64
	GazeY      float64
	EAR        float64
	BlinkCount int
	HeadPose   [3]float64
}

// Record одна запись анализа эмоции (ответ на вопрос или кадр видео)
type Record struct {
	Source        Modality
	Timestamp     time.Time
	Label         string
	Confidence    float64
	Probabilities map[string]float64

	// audio
	QuestionIndex int
	Question      string
	Answer        string

	// video
	Video *VideoFeatures
}
