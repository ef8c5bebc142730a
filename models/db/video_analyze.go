package dbmodels

import (
	"interview-coach-backend/lib/emotion"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// InterviewVideoAnalyze результат анализа кадра видео, сохраняется не чаще интервала троттлинга
type InterviewVideoAnalyze struct {
	Record
	Interview     *Interview                             `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE"`
	Emotion       string                                 `gorm:"type:varchar(50);not null"`
	RawEmotion    string                                 `gorm:"type:varchar(50)"`
	Confidence    float64                                `gorm:"not null"`
	Probabilities datatypes.JSONType[map[string]float64] `gorm:"type:jsonb"`
	BlinkCount    int
	Posture       string `gorm:"type:varchar(50)"`
	GazeX         float64
	GazeY         float64
	EAR           float64         `gorm:"column:ear"`
	HeadPose      pq.Float64Array `gorm:"type:double precision[]"`
}

func (InterviewVideoAnalyze) TableName() string {
	return "interview_video_analyze"
}

func (r InterviewVideoAnalyze) ToRecord() emotion.Record {
	features := &emotion.VideoFeatures{
		RawLabel:   r.RawEmotion,
		Posture:    r.Posture,
		GazeX:      r.GazeX,
		GazeY:      r.GazeY,
		EAR:        r.EAR,
		BlinkCount: r.BlinkCount,
	}
	copy(features.HeadPose[:], r.HeadPose)
	return emotion.Record{
		Source:        emotion.Video,
		Timestamp:     r.Timestamp,
		Label:         r.Emotion,
		Confidence:    r.Confidence,
		Probabilities: r.Probabilities.Data(),
		Video:         features,
	}
}
