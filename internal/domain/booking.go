package domain

import (
	"encoding/json"
	"fmt"
)

// BookingStatus is the lifecycle state of a booking. Every booking starts as
// pending; admins may move a booking between any two states (all six directed
// transitions are allowed, there is no terminal state).
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s BookingStatus) String() string { return string(s) }

// ParseStatus converts a raw string into a BookingStatus, rejecting anything
// outside the three known states.
func ParseStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Room is owned and mutated by the remote room-management API; this service
// only reads it.
type Room struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Type        string  `json:"type"`
	Image       string  `json:"image,omitempty"`
}

// Booking as stored by the remote API. User and Room arrive either as bare
// identifiers or as populated sub-objects depending on the endpoint; they are
// kept raw so a status merge can never degrade a populated object back to an
// id.
type Booking struct {
	ID           string          `json:"_id"`
	User         json.RawMessage `json:"user,omitempty"`
	Room         json.RawMessage `json:"room,omitempty"`
	CheckInDate  Date            `json:"checkInDate"`
	CheckOutDate Date            `json:"checkOutDate"`
	TotalPrice   float64         `json:"totalPrice"`
	Status       BookingStatus   `json:"status"`
}

// Stay returns the booking's date range.
func (b Booking) Stay() StayRange {
	return StayRange{CheckIn: b.CheckInDate, CheckOut: b.CheckOutDate}
}
