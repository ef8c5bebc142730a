package interviewstore

import (
	dbmodels "interview-coach-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Interview) (string, error)
	// GetByID сессия пользователя; чужая сессия не находится
	GetByID(userID, interviewID string) (rec *dbmodels.Interview, err error)
	GetList(userID string, page, limit int) (list []dbmodels.Interview, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Interview) (string, error) {
	err := i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(userID, interviewID string) (rec *dbmodels.Interview, err error) {
	err = i.db.Model(dbmodels.Interview{}).
		Where("id = ?", interviewID).
		Where("user_id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetList(userID string, page, limit int) (list []dbmodels.Interview, rowCount int64, err error) {
	tx := i.db.Model(dbmodels.Interview{}).
		Where("user_id = ?", userID)
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	err = tx.
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}
