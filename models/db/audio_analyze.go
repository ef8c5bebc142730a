package dbmodels

import (
	"interview-coach-backend/lib/emotion"

	"gorm.io/datatypes"
)

// InterviewAudioAnalyze результат анализа одного ответа кандидата
type InterviewAudioAnalyze struct {
	Record
	Interview     *Interview `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE"`
	UserID        string     `gorm:"type:uuid;index;not null"`
	QuestionIndex int
	Question      string                                 `gorm:"type:text;not null"`
	Answer        string                                 `gorm:"type:text"`
	Emotion       string                                 `gorm:"type:varchar(50);not null"`
	Confidence    float64                                `gorm:"not null"`
	Probabilities datatypes.JSONType[map[string]float64] `gorm:"type:jsonb"`
	ObjectKey     string                                 `gorm:"type:varchar(255)"` // ключ архива аудио в S3
}

func (InterviewAudioAnalyze) TableName() string {
	return "interview_audio_analyze"
}

func (r InterviewAudioAnalyze) ToRecord() emotion.Record {
	return emotion.Record{
		Source:        emotion.Audio,
		Timestamp:     r.Timestamp,
		Label:         r.Emotion,
		Confidence:    r.Confidence,
		Probabilities: r.Probabilities.Data(),
		QuestionIndex: r.QuestionIndex,
		Question:      r.Question,
		Answer:        r.Answer,
	}
}
