package app

import (
	"context"
	"fmt"

	"stayfront/internal/domain"
)

// StatusManager stages admin edits against a fetched booking list. Edits are
// optimistic: SetStatus only mutates the local list, Save pushes one record's
// status to the remote API. A failed Save leaves the optimistic local value in
// place rather than rolling back, matching the admin console this replaces.
//
// The manager assumes a single writer; it is built per request/page view and
// not shared across goroutines.
type StatusManager struct {
	api      domain.BookingAPI
	bookings []domain.Booking
}

func NewStatusManager(api domain.BookingAPI) *StatusManager {
	return &StatusManager{api: api}
}

// Load fetches the full booking list (privileged endpoint).
func (m *StatusManager) Load(ctx context.Context, sess domain.Session) error {
	if !sess.Authenticated() {
		return domain.ErrMissingUser
	}
	bs, err := m.api.ListBookings(ctx, sess.Token)
	if err != nil {
		return err
	}
	m.bookings = bs
	return nil
}

// Bookings returns the current local list, staged edits included.
func (m *StatusManager) Bookings() []domain.Booking { return m.bookings }

// Booking returns the local record for id, if present.
func (m *StatusManager) Booking(id string) (domain.Booking, bool) {
	for _, b := range m.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// SetStatus stages a status edit locally. Any transition between the three
// states is allowed, including no-ops; an unknown id leaves the list
// untouched. Nothing is sent to the remote API until Save.
func (m *StatusManager) SetStatus(id string, status string) error {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return err
	}
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = st
		}
	}
	return nil
}

// Save pushes one booking's status to the remote API. On success only the
// status field is merged into the local record, so a populated user/room
// sub-object is never clobbered by the bare ids the update endpoint returns.
// On failure the optimistic local state stays as-is and the error surfaces.
func (m *StatusManager) Save(ctx context.Context, id string, status domain.BookingStatus, sess domain.Session) (domain.Booking, error) {
	updated, err := m.api.UpdateBookingStatus(ctx, id, status, sess.Token)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrRemoteUpdate, err.Error())
	}

	st := updated.Status
	if st == "" {
		st = status
	}
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = st
			return m.bookings[i], nil
		}
	}
	// Not in the local list (direct save without a prior Load): hand back the
	// remote record.
	updated.Status = st
	return updated, nil
}

// Remove deletes a booking remotely, then drops it from the local list. A
// failed delete leaves the list unchanged.
func (m *StatusManager) Remove(ctx context.Context, id string, sess domain.Session) error {
	if err := m.api.DeleteBooking(ctx, id, sess.Token); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrRemoteDelete, err.Error())
	}
	kept := m.bookings[:0]
	for _, b := range m.bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	m.bookings = kept
	return nil
}
