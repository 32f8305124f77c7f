package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfront/internal/app"
	"stayfront/internal/domain"
)

func loadedManager(t *testing.T, api *fakeAPI) *app.StatusManager {
	t.Helper()
	mgr := app.NewStatusManager(api)
	require.NoError(t, mgr.Load(context.Background(), domain.Session{UserID: "admin", Token: "tok"}))
	return mgr
}

func TestStatusManager_SetStatus(t *testing.T) {
	api := &fakeAPI{bookings: []domain.Booking{{ID: "b1", Status: domain.StatusPending}}}
	mgr := loadedManager(t, api)

	require.NoError(t, mgr.SetStatus("b1", "confirmed"))
	b, ok := mgr.Booking("b1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, b.Status)

	// staging is purely local
	assert.Zero(t, api.updateCalls)
}

func TestStatusManager_SetStatus_Invalid(t *testing.T) {
	api := &fakeAPI{bookings: []domain.Booking{{ID: "b1", Status: domain.StatusPending}}}
	mgr := loadedManager(t, api)

	err := mgr.SetStatus("b1", "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	b, _ := mgr.Booking("b1")
	assert.Equal(t, domain.StatusPending, b.Status)
}

func TestStatusManager_SetStatus_UnknownID(t *testing.T) {
	api := &fakeAPI{bookings: []domain.Booking{{ID: "b1", Status: domain.StatusPending}}}
	mgr := loadedManager(t, api)

	require.NoError(t, mgr.SetStatus("nope", "confirmed"))
	assert.Len(t, mgr.Bookings(), 1)
	b, _ := mgr.Booking("b1")
	assert.Equal(t, domain.StatusPending, b.Status)
}

func TestStatusManager_AnyTransitionAllowed(t *testing.T) {
	// all six directed transitions between distinct states, plus a no-op
	pairs := [][2]string{
		{"pending", "confirmed"}, {"pending", "cancelled"},
		{"confirmed", "pending"}, {"confirmed", "cancelled"},
		{"cancelled", "pending"}, {"cancelled", "confirmed"},
		{"confirmed", "confirmed"},
	}
	for _, p := range pairs {
		api := &fakeAPI{bookings: []domain.Booking{{ID: "b1", Status: domain.BookingStatus(p[0])}}}
		mgr := loadedManager(t, api)
		require.NoError(t, mgr.SetStatus("b1", p[1]), "%s -> %s", p[0], p[1])
		b, _ := mgr.Booking("b1")
		assert.Equal(t, domain.BookingStatus(p[1]), b.Status)
	}
}

func TestStatusManager_SaveFailure_KeepsOptimisticValue(t *testing.T) {
	api := &fakeAPI{
		bookings:  []domain.Booking{{ID: "b1", Status: domain.StatusPending}},
		updateErr: errors.New("backend down"),
	}
	mgr := loadedManager(t, api)

	require.NoError(t, mgr.SetStatus("b1", "confirmed"))
	_, err := mgr.Save(context.Background(), "b1", domain.StatusConfirmed, domain.Session{Token: "tok"})
	assert.ErrorIs(t, err, domain.ErrRemoteUpdate)
	assert.Contains(t, err.Error(), "backend down")

	// no rollback: the staged value stays
	b, _ := mgr.Booking("b1")
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, 1, api.updateCalls)
}

func TestStatusManager_Save_MergesOnlyStatus(t *testing.T) {
	populatedUser := json.RawMessage(`{"_id":"u1","name":"Ann"}`)
	api := &fakeAPI{
		bookings: []domain.Booking{{ID: "b1", Status: domain.StatusPending, User: populatedUser}},
		// update endpoint answers with a bare id for user
		updated: domain.Booking{ID: "b1", Status: domain.StatusConfirmed, User: json.RawMessage(`"u1"`)},
	}
	mgr := loadedManager(t, api)

	require.NoError(t, mgr.SetStatus("b1", "confirmed"))
	merged, err := mgr.Save(context.Background(), "b1", domain.StatusConfirmed, domain.Session{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, merged.Status)
	assert.JSONEq(t, `{"_id":"u1","name":"Ann"}`, string(merged.User),
		"populated user must not be clobbered by the bare id")
}

func TestStatusManager_Save_EmptyRemoteStatusFallsBack(t *testing.T) {
	api := &fakeAPI{
		bookings: []domain.Booking{{ID: "b1", Status: domain.StatusPending}},
		updated:  domain.Booking{ID: "b1"}, // no status in response
	}
	mgr := loadedManager(t, api)

	merged, err := mgr.Save(context.Background(), "b1", domain.StatusCancelled, domain.Session{Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, merged.Status)
}

func TestStatusManager_Remove(t *testing.T) {
	api := &fakeAPI{bookings: []domain.Booking{
		{ID: "b1", Status: domain.StatusPending},
		{ID: "b2", Status: domain.StatusConfirmed},
	}}
	mgr := loadedManager(t, api)

	require.NoError(t, mgr.Remove(context.Background(), "b1", domain.Session{Token: "tok"}))
	assert.Len(t, mgr.Bookings(), 1)
	_, ok := mgr.Booking("b1")
	assert.False(t, ok)
}

func TestStatusManager_RemoveFailure_ListUnchanged(t *testing.T) {
	api := &fakeAPI{
		bookings:  []domain.Booking{{ID: "b1", Status: domain.StatusPending}},
		deleteErr: errors.New("forbidden"),
	}
	mgr := loadedManager(t, api)

	err := mgr.Remove(context.Background(), "b1", domain.Session{Token: "tok"})
	assert.ErrorIs(t, err, domain.ErrRemoteDelete)
	assert.Len(t, mgr.Bookings(), 1)
}

func TestStatusManager_Load_RequiresSession(t *testing.T) {
	mgr := app.NewStatusManager(&fakeAPI{})
	err := mgr.Load(context.Background(), domain.Session{})
	assert.ErrorIs(t, err, domain.ErrMissingUser)
}
