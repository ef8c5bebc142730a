package videoanalyzestore

import (
	dbmodels "interview-coach-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewVideoAnalyze) (string, error)
	// GetList записи сессии в порядке времени кадра
	GetList(interviewID string) ([]dbmodels.InterviewVideoAnalyze, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewVideoAnalyze) (string, error) {
	err := i.db.Omit("Interview").Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetList(interviewID string) (list []dbmodels.InterviewVideoAnalyze, err error) {
	err = i.db.Model(dbmodels.InterviewVideoAnalyze{}).
		Where("interview_id = ?", interviewID).
		Order("timestamp").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
