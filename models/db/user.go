package dbmodels

import (
	"time"

	authapimodels "interview-coach-backend/models/api/auth"
)

type User struct {
	BaseModel
	Username  string `gorm:"type:varchar(100);uniqueIndex"`
	Name      string `gorm:"type:varchar(150)"`
	Email     string `gorm:"type:varchar(255);uniqueIndex"`
	Password  string `gorm:"type:varchar(128)"`
	LastLogin *time.Time
}

func (r User) ToModel() authapimodels.User {
	return authapimodels.User{
		ID:       r.ID,
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
	}
}
