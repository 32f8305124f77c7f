package domain

import "context"

// BookingAPI is the remote booking collaborator. Write operations issue
// exactly one attempt per call; retry policy for reads belongs to the
// adapter.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (Booking, error)
	ListBookings(ctx context.Context, token string) ([]Booking, error)
	ListBookingsByUser(ctx context.Context, userID, token string) ([]Booking, error)
	ListBookingsByRoom(ctx context.Context, roomID string) ([]Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus, token string) (Booking, error)
	DeleteBooking(ctx context.Context, id, token string) error
}

// CreateBookingRequest mirrors the collaborator's create payload: dates cross
// the boundary as YYYY-MM-DD strings, totalPrice is computed by the caller at
// creation time and persisted as-is.
type CreateBookingRequest struct {
	User           string
	Room           string
	CheckIn        Date
	CheckOut       Date
	TotalPrice     float64
	IdempotencyKey string
}

type ReviewAPI interface {
	CreateReview(ctx context.Context, roomID string, rating int, comment, token string) (Review, error)
	ListReviewsByRoom(ctx context.Context, roomID string) ([]Review, error)
	DeleteReview(ctx context.Context, id, token string) error
}

type RoomAPI interface {
	ListRooms(ctx context.Context, roomType string, page int) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
