package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a scheduled session between a student and a tutor.
type Booking struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	StudentID   uuid.UUID       `json:"studentId" gorm:"type:char(36);not null;index"`
	TutorID     uuid.UUID       `json:"tutorId" gorm:"type:char(36);not null;index"`
	CategoryID  uuid.UUID       `json:"categoryId" gorm:"type:char(36);not null;index"`
	Subject     string          `json:"subject" gorm:"size:100;not null"`
	SessionDate time.Time       `json:"sessionDate" gorm:"not null;index"`
	Duration    int             `json:"duration" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Status      BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'CONFIRMED';index"`
	Notes       *string         `json:"notes,omitempty" gorm:"size:500"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	// Relations
	Student  *User         `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Tutor    *TutorProfile `json:"tutor,omitempty" gorm:"foreignKey:TutorID;constraint:OnDelete:CASCADE"`
	Category *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Review   *Review       `json:"review,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
