package dbmodels

import (
	interviewapimodels "interview-coach-backend/models/api/interview"

	"github.com/lib/pq"
)

// Interview сессия тренировочного собеседования
type Interview struct {
	BaseModel
	UserID      string         `gorm:"type:uuid;index;not null"`
	User        *User          `gorm:"foreignKey:UserID"`
	JobPosition string         `gorm:"type:varchar(100);not null"`
	JobURL      string         `gorm:"type:text"`
	Questions   pq.StringArray `gorm:"type:text[]"`
}

func (r Interview) ToModel() interviewapimodels.Session {
	return interviewapimodels.Session{
		ID:          r.ID,
		JobPosition: r.JobPosition,
		JobURL:      r.JobURL,
		Questions:   r.Questions,
		CreatedAt:   r.CreatedAt,
	}
}
