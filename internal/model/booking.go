package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus enumerates booking lifecycle states.
// Transitions are forward-only:
//
//	pending   → confirmed (payment received)
//	pending   → cancelled (by owner, admin, or hold expiry)
//	confirmed → cancelled (by owner or admin; spot is released)
//	cancelled is terminal.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus enumerates booking payment states.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Booking represents a held spot in a class. PriceCents is a snapshot of
// the class price at booking time; later price changes do not affect it.
type Booking struct {
	ID            uuid.UUID     `json:"id"`
	AccountID     uuid.UUID     `json:"account_id"`
	ClassID       uuid.UUID     `json:"class_id"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PriceCents    int           `json:"price_cents"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BookingWithClass joins a booking with display fields of its class.
type BookingWithClass struct {
	Booking
	ClassTitle  string    `json:"class_title"`
	Instructor  string    `json:"instructor"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
