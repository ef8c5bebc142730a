package dbmodels

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record записи анализа неизменяемы, поэтому без UpdatedAt
type Record struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	InterviewID string    `gorm:"type:uuid;index;not null"`
	Timestamp   time.Time `gorm:"index;not null"`
}
