package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Availability is a recurring weekly window declared by a tutor.
// DayOfWeek counts from Sunday (0) to Saturday (6); times are 24h HH:MM.
type Availability struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	TutorID   uuid.UUID `json:"tutorId" gorm:"type:char(36);not null;index"`
	DayOfWeek int       `json:"dayOfWeek" gorm:"not null"`
	StartTime string    `json:"startTime" gorm:"type:varchar(5);not null"`
	EndTime   string    `json:"endTime" gorm:"type:varchar(5);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the table name singular like the resource path.
func (Availability) TableName() string {
	return "availability"
}

// BeforeCreate sets UUID before creating the record.
func (a *Availability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
