package usersstore

import (
	"strings"
	"time"

	dbmodels "interview-coach-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	GetByID(userID string) (rec *dbmodels.User, err error)
	// FindByLogin поиск по имени пользователя или почте
	FindByLogin(login string) (rec *dbmodels.User, err error)
	Exist(username, email string) (bool, error)
	UpdateLastLogin(userID string, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	rec.Email = strings.ToLower(rec.Email)
	err := i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("id = ?", userID).
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

func (i impl) FindByLogin(login string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("username = ?", login).
		Or("email = ?", strings.ToLower(login)).
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

func (i impl) Exist(username, email string) (bool, error) {
	var count int64
	err := i.db.Model(dbmodels.User{}).
		Where("username = ?", username).
		Or("email = ?", strings.ToLower(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (i impl) UpdateLastLogin(userID string, at time.Time) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Update("last_login", at).
		Error
}
