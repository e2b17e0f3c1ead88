package database

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manzil/internal/booking"
	"manzil/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := zerolog.New(io.Discard)
	store, err := NewStore(filepath.Join(t.TempDir(), "manzil_test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newUnit(t *testing.T, store *Store, name string) *models.Unit {
	t.Helper()
	u := &models.Unit{OwnerID: 1, Name: name, Type: models.UnitChalet}
	require.NoError(t, store.CreateUnit(context.Background(), u))
	return u
}

func preparedBooking(t *testing.T, unitID int64, start time.Time, nights int) *models.Booking {
	t.Helper()
	b := &models.Booking{
		UnitID:     unitID,
		OwnerID:    1,
		TenantName: "Ahmed Hassan",
		StartDate:  start,
		Nights:     nights,
		DailyRate:  100,
		Status:     models.StatusConfirmed,
	}
	require.NoError(t, booking.Prepare(b))
	return b
}

func TestUnitCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := newUnit(t, store, "Palm Villa")
	require.NotZero(t, u.ID)

	got, err := store.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Palm Villa", got.Name)
	assert.Equal(t, models.UnitChalet, got.Type)

	u.Name = "Palm Villa II"
	u.Type = models.UnitVilla
	require.NoError(t, store.UpdateUnit(ctx, u))

	got, err = store.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Palm Villa II", got.Name)
	assert.Equal(t, models.UnitVilla, got.Type)

	units, err := store.ListUnits(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, units, 1)

	require.NoError(t, store.DeleteUnit(ctx, u.ID))
	_, err = store.GetUnit(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	b := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
	b.Phone = "+20 100 000 0000"
	b.Notes = "late arrival"
	require.NoError(t, store.CreateBooking(ctx, b))
	require.NotZero(t, b.ID)

	got, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.TenantName, got.TenantName)
	assert.Equal(t, "late arrival", got.Notes)
	assert.True(t, got.EndDate.Equal(day(2025, 1, 9)))
	assert.Equal(t, int64(400), got.TotalAmount)
	assert.Equal(t, b.ReceiptNo, got.ReceiptNo)
}

func TestBookingConflictOnCreate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	first := preparedBooking(t, u.ID, day(2025, 1, 5), 4) // Jan 5 – Jan 9
	require.NoError(t, store.CreateBooking(ctx, first))

	t.Run("overlapping window rejected", func(t *testing.T) {
		second := preparedBooking(t, u.ID, day(2025, 1, 8), 3)
		err := store.CreateBooking(ctx, second)
		var conflict *booking.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, u.ID, conflict.UnitID)
		assert.Equal(t, first.ID, conflict.BookingID)

		// No partial write
		bookings, lerr := store.ListBookings(ctx, BookingFilter{UnitID: u.ID})
		require.NoError(t, lerr)
		assert.Len(t, bookings, 1)
	})

	t.Run("same-day turnover accepted", func(t *testing.T) {
		turnover := preparedBooking(t, u.ID, day(2025, 1, 9), 3)
		assert.NoError(t, store.CreateBooking(ctx, turnover))
	})

	t.Run("other unit unaffected", func(t *testing.T) {
		other := newUnit(t, store, "Palm Villa")
		b := preparedBooking(t, other.ID, day(2025, 1, 5), 4)
		assert.NoError(t, store.CreateBooking(ctx, b))
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		require.NoError(t, store.UpdateBookingStatus(ctx, first.ID, models.StatusCancelled))
		replacement := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
		assert.NoError(t, store.CreateBooking(ctx, replacement))
	})
}

func TestBookingUpdateExcludesSelf(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	b := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
	require.NoError(t, store.CreateBooking(ctx, b))

	// Saving unchanged dates must not conflict with the booking itself.
	require.NoError(t, booking.Prepare(b))
	assert.NoError(t, store.UpdateBooking(ctx, b))

	// Moving onto a different active booking must still conflict.
	blocker := preparedBooking(t, u.ID, day(2025, 2, 1), 5)
	require.NoError(t, store.CreateBooking(ctx, blocker))

	b.StartDate = day(2025, 2, 3)
	require.NoError(t, booking.Prepare(b))
	err := store.UpdateBooking(ctx, b)
	var conflict *booking.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, blocker.ID, conflict.BookingID)
}

func TestBookingDerivedFieldsRecomputed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	b := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
	require.NoError(t, store.CreateBooking(ctx, b))

	b.Nights = 6
	b.DailyRate = 150
	b.HousekeepingRequired = true
	b.HousekeepingAmount = 75
	require.NoError(t, booking.Prepare(b))
	require.NoError(t, store.UpdateBooking(ctx, b))

	got, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.EndDate.Equal(day(2025, 1, 11)))
	assert.Equal(t, int64(975), got.TotalAmount) // 900 rent + 75 housekeeping
}

func TestBookingRating(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	b := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
	require.NoError(t, store.CreateBooking(ctx, b))

	require.NoError(t, store.UpdateBookingRating(ctx, b.ID, models.RatingWelcomeBack))
	got, err := store.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RatingWelcomeBack, got.Rating)

	err = store.UpdateBookingRating(ctx, b.ID, "bad value")
	assert.ErrorIs(t, err, booking.ErrInvalidInput)
}

func TestDeleteUnitCascadesBookings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	b := preparedBooking(t, u.ID, day(2025, 1, 5), 4)
	require.NoError(t, store.CreateBooking(ctx, b))

	require.NoError(t, store.DeleteUnit(ctx, u.ID))
	_, err := store.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	e := &models.Expense{OwnerID: 1, UnitID: u.ID, Description: "plumbing", Amount: 80, Category: "maintenance", Date: day(2025, 1, 20)}
	require.NoError(t, store.CreateExpense(ctx, e))

	general := &models.Expense{OwnerID: 1, Description: "accountant", Amount: 25, Date: day(2025, 1, 11)}
	require.NoError(t, store.CreateExpense(ctx, general))

	t.Run("negative amount rejected", func(t *testing.T) {
		bad := &models.Expense{OwnerID: 1, Description: "oops", Amount: -5, Date: day(2025, 1, 1)}
		assert.ErrorIs(t, store.CreateExpense(ctx, bad), booking.ErrInvalidInput)
	})

	t.Run("filter by unit", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, ExpenseFilter{UnitID: u.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "plumbing", got[0].Description)
	})

	t.Run("general only", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, ExpenseFilter{UnitID: 0})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "accountant", got[0].Description)
	})

	t.Run("any unit", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, ExpenseFilter{UnitID: AnyUnit})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	require.NoError(t, store.DeleteExpense(ctx, e.ID))
	_, err := store.GetExpense(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Two conflicting submissions racing past the in-memory pre-flight check
// must be serialized by the store: exactly one insert wins.
func TestConcurrentDoubleBooking(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := newUnit(t, store, "Sea Breeze")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &models.Booking{
				UnitID:     u.ID,
				OwnerID:    1,
				TenantName: "Racing Tenant",
				StartDate:  day(2025, 3, 1),
				Nights:     5,
				DailyRate:  100,
				Status:     models.StatusConfirmed,
			}
			if err := booking.Prepare(b); err != nil {
				errs[i] = err
				return
			}
			errs[i] = store.CreateBooking(ctx, b)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *booking.ConflictError
		assert.ErrorAs(t, err, &conflict)
	}
	assert.Equal(t, 1, succeeded, "exactly one of the racing submissions may win")

	bookings, err := store.ListBookings(ctx, BookingFilter{UnitID: u.ID})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}
