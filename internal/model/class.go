package model

import (
	"time"

	"github.com/google/uuid"
)

// Category enumerates the dance styles on offer.
type Category string

const (
	CategoryBallet       Category = "ballet"
	CategoryHipHop       Category = "hiphop"
	CategorySalsa        Category = "salsa"
	CategoryContemporary Category = "contemporary"
	CategoryJazz         Category = "jazz"
)

// Level enumerates class difficulty.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Class represents a bookable class offering.
// Invariant: 0 <= BookedSpots <= MaxSpots at all times. BookedSpots is
// mutated only through the booking flow's guarded update.
type Class struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	PriceCents      int       `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	MaxSpots        int       `json:"max_spots"`
	BookedSpots     int       `json:"booked_spots"`
	Category        Category  `json:"category"`
	Level           Level     `json:"level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SpotsLeft returns the remaining bookable spots.
func (c *Class) SpotsLeft() int {
	return c.MaxSpots - c.BookedSpots
}

// CreateClassRequest is the payload for creating a class offering.
type CreateClassRequest struct {
	Title           string    `json:"title" binding:"required,min=3,max=255"`
	Description     string    `json:"description" binding:"omitempty,max=2000"`
	Instructor      string    `json:"instructor" binding:"required,min=2,max=100"`
	PriceCents      int       `json:"price_cents" binding:"required,min=0"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=480"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	MaxSpots        int       `json:"max_spots" binding:"required,min=1,max=500"`
	Category        Category  `json:"category" binding:"required,oneof=ballet hiphop salsa contemporary jazz"`
	Level           Level     `json:"level" binding:"required,oneof=beginner intermediate advanced"`
}

// UpdateClassRequest is the payload for updating a class offering.
// BookedSpots is deliberately absent: occupancy changes only through bookings.
type UpdateClassRequest struct {
	Title           string     `json:"title" binding:"omitempty,min=3,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	Instructor      string     `json:"instructor" binding:"omitempty,min=2,max=100"`
	PriceCents      *int       `json:"price_cents" binding:"omitempty,min=0"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=15,max=480"`
	ScheduledAt     *time.Time `json:"scheduled_at" binding:"omitempty"`
	MaxSpots        int        `json:"max_spots" binding:"omitempty,min=1,max=500"`
	Category        Category   `json:"category" binding:"omitempty,oneof=ballet hiphop salsa contemporary jazz"`
	Level           Level      `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}
