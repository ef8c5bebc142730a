package audioanalyzestore

import (
	dbmodels "interview-coach-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewAudioAnalyze) (string, error)
	// GetList записи сессии в порядке поступления
	GetList(interviewID string) ([]dbmodels.InterviewAudioAnalyze, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewAudioAnalyze) (string, error) {
	err := i.db.Omit("Interview").Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetList(interviewID string) (list []dbmodels.InterviewAudioAnalyze, err error) {
	err = i.db.Model(dbmodels.InterviewAudioAnalyze{}).
		Where("interview_id = ?", interviewID).
		Order("timestamp, question_index").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
