package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TutorProfile is the tutor-specific extension of a TUTOR user.
// Rating and TotalReviews are derived from the tutor's reviews and are
// only written by the rating recomputation.
type TutorProfile struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:char(36);primaryKey"`
	UserID         uuid.UUID                   `json:"userId" gorm:"type:char(36);not null;uniqueIndex"`
	Bio            string                      `json:"bio" gorm:"type:text"`
	HourlyRate     decimal.Decimal             `json:"hourlyRate" gorm:"type:decimal(10,2);not null;default:0"`
	Subjects       datatypes.JSONSlice[string] `json:"subjects"`
	Qualifications string                      `json:"qualifications" gorm:"type:text"`
	Experience     int                         `json:"experience" gorm:"not null;default:0"`
	Rating         decimal.Decimal             `json:"rating" gorm:"type:decimal(3,2);not null;default:0;index"`
	TotalReviews   int                         `json:"totalReviews" gorm:"not null;default:0"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`

	// Relations
	User         *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Availability []Availability `json:"availability,omitempty" gorm:"foreignKey:TutorID;constraint:OnDelete:CASCADE"`
	Reviews      []Review       `json:"reviews,omitempty" gorm:"foreignKey:TutorID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *TutorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Subjects == nil {
		p.Subjects = datatypes.JSONSlice[string]{}
	}
	return nil
}
