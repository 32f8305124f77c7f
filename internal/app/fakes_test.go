package app_test

import (
	"context"
	"encoding/json"
	"errors"

	"stayfront/internal/domain"
)

// fakeAPI implements the BookingAPI, ReviewAPI and RoomAPI ports with
// scripted responses and call counters.
type fakeAPI struct {
	createCalls int
	lastCreate  domain.CreateBookingRequest
	created     domain.Booking
	createErr   error

	bookings    []domain.Booking
	listErr     error
	updateCalls int
	updated     domain.Booking
	updateErr   error
	deleteCalls int
	deleteErr   error

	reviewCalls     int
	review          domain.Review
	createReviewErr error
	reviews         []domain.Review

	rooms map[string]domain.Room
}

func (f *fakeAPI) CreateBooking(_ context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return domain.Booking{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeAPI) ListBookings(context.Context, string) ([]domain.Booking, error) {
	return f.bookings, f.listErr
}

func (f *fakeAPI) ListBookingsByUser(context.Context, string, string) ([]domain.Booking, error) {
	return f.bookings, f.listErr
}

func (f *fakeAPI) ListBookingsByRoom(context.Context, string) ([]domain.Booking, error) {
	return f.bookings, f.listErr
}

func (f *fakeAPI) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Booking{}, f.listErr
}

func (f *fakeAPI) UpdateBookingStatus(_ context.Context, id string, status domain.BookingStatus, _ string) (domain.Booking, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return domain.Booking{}, f.updateErr
	}
	if f.updated.ID == "" {
		return domain.Booking{ID: id, Status: status}, nil
	}
	return f.updated, nil
}

func (f *fakeAPI) DeleteBooking(context.Context, string, string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeAPI) CreateReview(_ context.Context, roomID string, rating int, comment, _ string) (domain.Review, error) {
	f.reviewCalls++
	if f.createReviewErr != nil {
		return domain.Review{}, f.createReviewErr
	}
	if f.review.ID == "" {
		return domain.Review{ID: "r1", Rating: rating, Comment: comment}, nil
	}
	return f.review, nil
}

func (f *fakeAPI) ListReviewsByRoom(context.Context, string) ([]domain.Review, error) {
	return f.reviews, nil
}

func (f *fakeAPI) DeleteReview(context.Context, string, string) error { return nil }

func (f *fakeAPI) ListRooms(context.Context, string, int) ([]domain.Room, error) {
	out := make([]domain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAPI) GetRoom(_ context.Context, id string) (domain.Room, error) {
	if r, ok := f.rooms[id]; ok {
		return r, nil
	}
	return domain.Room{}, errNotFound
}

var errNotFound = errors.New("room not found")

// fakeCache stores marshalled JSON, mirroring the Redis adapter's behavior.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}
