// Package repository implements PostgreSQL data access. Sentinel errors
// defined here let services and handlers branch on failure causes without
// inspecting driver errors directly.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned on a unique-constraint violation, such as
// registering an email or username that is already taken.
var ErrDuplicate = errors.New("record already exists")

// ErrClassFull is returned when booking a class whose booked_spots has
// reached max_spots. The guarded update reports this without a separate
// read-then-write pair.
var ErrClassFull = errors.New("class is fully booked")

// ErrAlreadyBooked is returned when an account already holds a
// non-cancelled booking for the class.
var ErrAlreadyBooked = errors.New("account already holds a booking for this class")

// ErrInvalidTransition is returned when a booking status change is not
// allowed by the transition table (e.g. confirming a cancelled booking).
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ErrCapacityBelowBooked is returned when an update would lower a class's
// max_spots below its current booked_spots.
var ErrCapacityBelowBooked = errors.New("max_spots below booked_spots")

// ErrDependencyExists is returned when a delete is blocked by dependent
// rows, such as a class with non-cancelled bookings.
var ErrDependencyExists = errors.New("dependent records exist")
