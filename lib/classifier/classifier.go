// Package classifier adapts external emotion models to the emotion.Prediction contract.
package classifier

import (
	"context"
	"strings"

	"interview-coach-backend/lib/emotion"
)

type AudioClassifier interface {
	Classify(ctx context.Context, wav []byte) (emotion.Prediction, error)
}

// Frame кадр видео вместе с признаками, посчитанными на клиенте
type Frame struct {
	Image    []byte
	Features emotion.VideoFeatures
}

type VideoClassifier interface {
	Classify(ctx context.Context, frame Frame) (emotion.Prediction, error)
}

// modelReply ответ сервера модели. Поддерживается собственный формат
// (label, confidence, probabilities в долях) и формат DeepFace (dominant_emotion, emotion в процентах).
type modelReply struct {
	Label           string             `json:"label"`
	RawLabel        string             `json:"raw_label"`
	Confidence      *float64           `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities"`
	DominantEmotion string             `json:"dominant_emotion"`
	Emotion         map[string]float64 `json:"emotion"`
}

func (r modelReply) toPrediction() emotion.Prediction {
	p := emotion.Prediction{
		Label:         normalizeLabel(r.Label),
		RawLabel:      normalizeLabel(r.RawLabel),
		Probabilities: normalizeVector(r.Probabilities, 1),
	}
	if p.Label == "" && r.DominantEmotion != "" {
		p.Label = normalizeLabel(r.DominantEmotion)
		p.Probabilities = normalizeVector(r.Emotion, 100)
	}
	if p.RawLabel == "" {
		p.RawLabel = p.Label
	}
	if r.Confidence != nil {
		p.Confidence = *r.Confidence
	} else {
		p.Confidence = p.Probabilities[p.Label]
	}
	return p
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func normalizeVector(vector map[string]float64, scale float64) map[string]float64 {
	result := make(map[string]float64, len(vector))
	for label, value := range vector {
		result[normalizeLabel(label)] = value / scale
	}
	return result
}
