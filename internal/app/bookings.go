package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stayfront/internal/domain"
)

// BookingService drives the booking-creation workflow: validate inputs
// locally, derive nights and total price, then make exactly one remote write.
// Validation failures never reach the network.
type BookingService struct {
	api   domain.BookingAPI
	rooms domain.RoomAPI
}

func NewBookingService(api domain.BookingAPI, rooms domain.RoomAPI) *BookingService {
	return &BookingService{api: api, rooms: rooms}
}

// Validate checks a booking request without touching the network. The caller
// must redirect to authentication on ErrMissingUser.
func (s *BookingService) Validate(sess domain.Session, roomID string, stay domain.StayRange) error {
	if !sess.Authenticated() {
		return domain.ErrMissingUser
	}
	if stay.CheckIn.IsZero() || stay.CheckOut.IsZero() {
		return domain.ErrMissingDateRange
	}
	if stay.Nights() <= 0 {
		return domain.ErrInvalidRange
	}
	return nil
}

// Create books a room for the session's user. totalPrice = nights * rate is
// computed here, persisted by the remote API, and never recomputed later. The
// remote call is attempted once; callers are expected to disable re-submission
// while a request is in flight. Each call carries a fresh idempotency key so a
// backend that honors it can drop an accidental double submit.
func (s *BookingService) Create(ctx context.Context, sess domain.Session, roomID string, stay domain.StayRange, nightlyRate float64) (domain.Booking, error) {
	if err := s.Validate(sess, roomID, stay); err != nil {
		return domain.Booking{}, err
	}

	total := domain.Price(stay.Nights(), nightlyRate)
	b, err := s.api.CreateBooking(ctx, domain.CreateBookingRequest{
		User:           sess.UserID,
		Room:           roomID,
		CheckIn:        stay.CheckIn,
		CheckOut:       stay.CheckOut,
		TotalPrice:     total,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrRemoteBooking, err.Error())
	}
	if b.Status == "" {
		b.Status = domain.StatusPending
	}
	return b, nil
}

// CreateForRoom looks up the room to get its nightly rate, then books it.
// Validation runs first so invalid input causes no remote traffic at all.
func (s *BookingService) CreateForRoom(ctx context.Context, sess domain.Session, roomID string, stay domain.StayRange) (domain.Booking, error) {
	if err := s.Validate(sess, roomID, stay); err != nil {
		return domain.Booking{}, err
	}
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	return s.Create(ctx, sess, roomID, stay, room.Price)
}

// Receipt fetches a single booking for display.
func (s *BookingService) Receipt(ctx context.Context, id string) (domain.Booking, error) {
	return s.api.GetBooking(ctx, id)
}

// History lists the session user's own bookings.
func (s *BookingService) History(ctx context.Context, sess domain.Session, userID string) ([]domain.Booking, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrMissingUser
	}
	return s.api.ListBookingsByUser(ctx, userID, sess.Token)
}

// OccupiedRanges returns the stay ranges currently blocking a room, i.e. the
// date ranges of its non-cancelled bookings. Used to disable taken dates in a
// date picker.
func (s *BookingService) OccupiedRanges(ctx context.Context, roomID string) ([]domain.StayRange, error) {
	bs, err := s.api.ListBookingsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StayRange, 0, len(bs))
	for _, b := range bs {
		if b.Status == domain.StatusCancelled {
			continue
		}
		out = append(out, b.Stay())
	}
	return out, nil
}
