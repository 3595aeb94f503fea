package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a student's rating of a completed booking. BookingID is unique,
// which keeps one review per booking even under concurrent inserts.
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	BookingID uuid.UUID `json:"bookingId" gorm:"type:char(36);not null;uniqueIndex"`
	StudentID uuid.UUID `json:"studentId" gorm:"type:char(36);not null;index"`
	TutorID   uuid.UUID `json:"tutorId" gorm:"type:char(36);not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
