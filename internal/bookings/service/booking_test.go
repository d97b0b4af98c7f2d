package service

import (
	"context"
	"sync"
	"testing"
	"time"
	bookingserrors "villa/internal/bookings/errors"
	"villa/internal/notifications"
	apperrors "villa/pkg/errors"
	"villa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr, "expected an AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
}

func floatPtr(f float64) *float64 { return &f }

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_StandardBookingIsPendingWithServerPrice(t *testing.T) {
	f := newFixture(t)
	req := standardRequest("2024-06-01", "2024-06-04", 2)
	req.MealPlan = "Half Board"
	req.TotalPrice = floatPtr(1)

	booking, err := f.bookings.Create(context.Background(), alice, req)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.RecordKindBooking, booking.RecordKind)
	assert.Equal(t, roomTypeID, booking.RoomTypeID)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, 10.0, booking.MealPlanPrice)
	assert.Equal(t, 150.0, booking.TotalPrice, "client total must not be trusted")
	assert.Empty(t, booking.RoomID)

	stored := f.repo.get(booking.ID)
	require.NotNil(t, stored)
	assert.Equal(t, 150.0, stored.TotalPrice)

	require.Len(t, f.emitter.events, 1)
	event := f.emitter.events[0]
	assert.Equal(t, notifications.EventBookingReceived, event.Type)
	assert.Equal(t, "alice@example.com", event.RecipientEmail)
	assert.Equal(t, booking.ID, event.Booking.ID)
}

func TestCreate_DefaultMealPlan(t *testing.T) {
	f := newFixture(t)

	booking, err := f.bookings.Create(context.Background(), alice, standardRequest("2024-06-01", "2024-06-04", 1))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMealPlanName, booking.MealPlan)
	assert.Equal(t, 120.0, booking.TotalPrice)
}

func TestCreate_RoomOnlyWithoutCatalogEntry(t *testing.T) {
	f := newFixture(t)
	f.catalog.mealPlans = nil

	booking, err := f.bookings.Create(context.Background(), alice, standardRequest("2024-06-01", "2024-06-03", 1))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMealPlanName, booking.MealPlan)
	assert.Equal(t, 80.0, booking.TotalPrice)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *model.BookingRequest)
		code   string
	}{
		{
			name:   "check-in in the past",
			mutate: func(req *model.BookingRequest) { req.CheckIn, req.CheckOut = "2024-04-30", "2024-05-03" },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "check-out before check-in",
			mutate: func(req *model.BookingRequest) { req.CheckIn, req.CheckOut = "2024-06-05", "2024-06-01" },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "same day",
			mutate: func(req *model.BookingRequest) { req.CheckOut = req.CheckIn },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "missing dates",
			mutate: func(req *model.BookingRequest) { req.CheckIn, req.CheckOut = "", "" },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "too many guests",
			mutate: func(req *model.BookingRequest) { req.Guests = 5 },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "zero guests",
			mutate: func(req *model.BookingRequest) { req.Guests = 0 },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "unknown meal plan",
			mutate: func(req *model.BookingRequest) { req.MealPlan = "All Inclusive" },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "inactive meal plan",
			mutate: func(req *model.BookingRequest) { req.MealPlan = "Full Board" },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "other room type",
			mutate: func(req *model.BookingRequest) { req.RoomTypeID = primitive.NewObjectID().Hex() },
			code:   apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := standardRequest("2024-06-01", "2024-06-04", 2)
			tt.mutate(req)

			_, err := f.bookings.Create(context.Background(), alice, req)
			assertCode(t, err, tt.code)
			assert.Empty(t, f.repo.records)
			assert.Empty(t, f.emitter.events)
		})
	}
}

func TestCreate_UnknownUserIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	ghost := *alice
	ghost.UserID = primitive.NewObjectID().Hex()

	_, err := f.bookings.Create(context.Background(), &ghost, standardRequest("2024-06-01", "2024-06-04", 2))
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestCreate_OverlapWithConfirmedIsConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(bobID, model.StatusConfirmed, "2024-06-01", "2024-06-05")

	_, err := f.bookings.Create(context.Background(), alice, standardRequest("2024-06-03", "2024-06-07", 2))
	assertCode(t, err, apperrors.CodeConflict)
	assert.Len(t, f.repo.records, 1)
	assert.Empty(t, f.emitter.events)
	assert.Empty(t, f.locks.locks, "lock must be released after a conflict")
}

func TestCreate_PendingDoesNotBlockNewRequests(t *testing.T) {
	f := newFixture(t)
	f.seed(bobID, model.StatusPending, "2024-06-01", "2024-06-05")

	booking, err := f.bookings.Create(context.Background(), alice, standardRequest("2024-06-01", "2024-06-05", 2))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, booking.Status)
}

func TestCreate_LongStayInquiry(t *testing.T) {
	f := newFixture(t)
	req := &model.BookingRequest{
		Type:         model.BookingTypeLongStayInquiry,
		Guests:       2,
		ContactEmail: "  Alice.Work@Example.com ",
		Duration:     "3 months",
		Message:      "Looking for a quiet place to write",
	}

	booking, err := f.bookings.Create(context.Background(), alice, req)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInquiry, booking.Status)
	assert.Equal(t, model.BookingTypeLongStayInquiry, booking.Type)
	assert.Nil(t, booking.CheckIn)
	assert.Nil(t, booking.CheckOut)
	assert.Equal(t, "3 months", booking.Duration)

	require.Len(t, f.emitter.events, 1)
	assert.Equal(t, notifications.EventInquiryReceived, f.emitter.events[0].Type)
	assert.Equal(t, booking.ContactEmail, f.emitter.events[0].RecipientEmail)
}

func TestCreate_InquiryRequiresContactAndDuration(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.Create(context.Background(), alice, &model.BookingRequest{
		Type:   model.BookingTypeLongStayInquiry,
		Guests: 2,
	})
	assertCode(t, err, apperrors.CodeValidation)

	details := apperrors.AsAppError(err).Details
	assert.Contains(t, details, "contact_email")
	assert.Contains(t, details, "duration")
}

// ────────────────────────────────────────────────
// Tests for UpdateStatus()
// ────────────────────────────────────────────────

func TestUpdateStatus_ConfirmAssignsRoom(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")

	updated, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, updated.Status)
	assert.Equal(t, "room-b", updated.RoomID)
	assert.Equal(t, "room-b", f.repo.get(b.ID).RoomID)
	assert.Equal(t, model.StatusConfirmed, f.repo.get(b.ID).Status)

	require.Len(t, f.emitter.events, 1)
	event := f.emitter.events[0]
	assert.Equal(t, notifications.EventStatusChanged, event.Type)
	assert.Equal(t, model.StatusPending, event.PreviousStatus)
	assert.Equal(t, "alice@example.com", event.RecipientEmail)
}

func TestUpdateStatus_ConfirmWithoutActiveRoom(t *testing.T) {
	f := newFixture(t)
	f.catalog.rooms = []*model.Room{
		{ID: "room-m", Name: "Room M", RoomTypeID: roomTypeID, Status: model.RoomStatusMaintenance},
	}
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")

	updated, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	assert.Empty(t, f.repo.get(b.ID).RoomID)
}

func TestUpdateStatus_ConfirmOverlappingIsConflict(t *testing.T) {
	f := newFixture(t)
	f.seed(bobID, model.StatusConfirmed, "2024-06-01", "2024-06-05")
	b := f.seed(aliceID, model.StatusPending, "2024-06-03", "2024-06-07")

	_, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assertCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, model.StatusPending, f.repo.get(b.ID).Status)
	assert.Empty(t, f.emitter.events)
}

func TestUpdateStatus_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from model.BookingStatus
		to   model.BookingStatus
	}{
		{model.StatusRejected, model.StatusConfirmed},
		{model.StatusRejected, model.StatusPending},
		{model.StatusCancelled, model.StatusConfirmed},
		{model.StatusCompleted, model.StatusCancelled},
		{model.StatusPending, model.StatusPending},
		{model.StatusPending, model.StatusCompleted},
		{model.StatusConfirmed, model.StatusPending},
		{model.StatusInquiry, model.StatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(aliceID, tt.from, "2024-06-01", "2024-06-05")

			_, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: tt.to})
			assertCode(t, err, apperrors.CodeIllegalTransition)
			assert.Equal(t, tt.from, f.repo.get(b.ID).Status)
		})
	}
}

func TestUpdateStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		from model.BookingStatus
		to   model.BookingStatus
	}{
		{model.StatusPending, model.StatusRejected},
		{model.StatusPending, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusCancelled},
		{model.StatusConfirmed, model.StatusCompleted},
		{model.StatusInquiry, model.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(aliceID, tt.from, "2024-06-01", "2024-06-05")

			updated, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: tt.to})
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			assert.Equal(t, tt.to, f.repo.get(b.ID).Status)
		})
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")

	_, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: "approved"})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestUpdateStatus_BlocksAreRefused(t *testing.T) {
	f := newFixture(t)
	block, err := f.blocks.CreateBlock(context.Background(), admin, &model.BlockRequest{CheckIn: "2024-08-01", CheckOut: "2024-08-03"})
	require.NoError(t, err)

	_, err = f.bookings.UpdateStatus(context.Background(), admin, block.ID, &model.StatusUpdateRequest{Status: model.StatusCancelled})
	assertCode(t, err, apperrors.CodeIllegalTransition)
	assert.Contains(t, apperrors.AsAppError(err).Details, "reason")
	assert.Equal(t, model.StatusConfirmed, f.repo.get(block.ID).Status)
}

func TestUpdateStatus_MissingBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.UpdateStatus(context.Background(), admin, primitive.NewObjectID().Hex(), &model.StatusUpdateRequest{Status: model.StatusRejected})
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.bookings.UpdateStatus(context.Background(), admin, "not-an-id", &model.StatusUpdateRequest{Status: model.StatusRejected})
	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")
	f.repo.updateStatusFunc = func(id string, from, to model.BookingStatus) error {
		return bookingserrors.ErrStatusChanged
	}

	_, err := f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: model.StatusRejected})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = f.bookings.UpdateStatus(context.Background(), admin, b.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	assertCode(t, err, apperrors.CodeConflict)
	assert.Empty(t, f.emitter.events)
}

func TestUpdateStatus_ConcurrentConfirmationsNeverOverlap(t *testing.T) {
	f := newFixture(t)

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05").ID
	}

	var wg sync.WaitGroup
	results := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, results[i] = f.bookings.UpdateStatus(context.Background(), admin, id, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
		}(i, id)
	}
	wg.Wait()

	confirmed := 0
	for _, err := range results {
		if err == nil {
			confirmed++
			continue
		}
		assertCode(t, err, apperrors.CodeConflict)
	}
	assert.Equal(t, 1, confirmed)

	occupying, err := f.repo.FindConfirmed(context.Background())
	require.NoError(t, err)
	assert.Len(t, occupying, 1)
}

// ────────────────────────────────────────────────
// Tests for Cancel()
// ────────────────────────────────────────────────

func TestCancel_ByOwner(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusConfirmed, "2024-06-01", "2024-06-05")

	cancelled, err := f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, []notifications.EventType{notifications.EventCancelledByUser}, f.emitter.types())

	ok, err := f.oracle.IsAvailable(context.Background(), stay("2024-06-01", "2024-06-05"), "")
	require.NoError(t, err)
	assert.True(t, ok, "cancelling frees the dates")
}

func TestCancel_ByAdminNotifiesAsStatusChange(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")

	_, err := f.bookings.Cancel(context.Background(), admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []notifications.EventType{notifications.EventStatusChanged}, f.emitter.types())
}

func TestCancel_NonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusCancelled, "2024-06-01", "2024-06-05")

	_, err := f.bookings.Cancel(context.Background(), bob, b.ID)
	assertCode(t, err, apperrors.CodeForbidden)
	assert.Equal(t, model.StatusCancelled, f.repo.get(b.ID).Status)
}

func TestCancel_TerminalStatesAreIllegal(t *testing.T) {
	for _, status := range []model.BookingStatus{model.StatusCancelled, model.StatusCompleted, model.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			b := f.seed(aliceID, status, "2024-06-01", "2024-06-05")

			_, err := f.bookings.Cancel(context.Background(), alice, b.ID)
			assertCode(t, err, apperrors.CodeIllegalTransition)
			assert.Equal(t, status, f.repo.get(b.ID).Status)
			assert.Empty(t, f.emitter.events)
		})
	}
}

func TestCancel_Inquiry(t *testing.T) {
	f := newFixture(t)
	b := f.repo.put(&model.Booking{
		UserID:     aliceID,
		RoomTypeID: roomTypeID,
		Guests:     2,
		Type:       model.BookingTypeLongStayInquiry,
		Status:     model.StatusInquiry,
	})

	cancelled, err := f.bookings.Cancel(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

// ────────────────────────────────────────────────
// Reads
// ────────────────────────────────────────────────

func TestGetByID_Ownership(t *testing.T) {
	f := newFixture(t)
	b := f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")

	got, err := f.bookings.GetByID(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.bookings.GetByID(context.Background(), admin, b.ID)
	require.NoError(t, err)

	_, err = f.bookings.GetByID(context.Background(), bob, b.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.bookings.GetByID(context.Background(), alice, "")
	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestListMine_OnlyOwnBookings(t *testing.T) {
	f := newFixture(t)
	f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")
	f.seed(aliceID, model.StatusCancelled, "2024-06-10", "2024-06-12")
	f.seed(bobID, model.StatusPending, "2024-06-20", "2024-06-22")

	mine, err := f.bookings.ListMine(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, b := range mine {
		assert.Equal(t, aliceID, b.UserID)
	}
}

func TestListAll_Paginates(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.seed(aliceID, model.StatusPending, "2024-06-01", "2024-06-05")
	}

	page, count, err := f.bookings.ListAll(context.Background(), 2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Len(t, page, 1)
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	f.seed(bobID, model.StatusConfirmed, "2024-06-02", "2024-06-03")

	quote, err := f.bookings.Quote(context.Background(), "2024-06-01", "2024-06-04", "Half Board", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, 1, quote.Guests)
	assert.Equal(t, 40.0, quote.PricePerNight)
	assert.Equal(t, 150.0, quote.TotalPrice)
	assert.False(t, quote.Available)

	_, err = f.bookings.Quote(context.Background(), "2024-06-04", "2024-06-01", "", 1)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCheckAvailability_InvalidDates(t *testing.T) {
	f := newFixture(t)

	_, err := f.bookings.CheckAvailability(context.Background(), "tomorrow", "2024-06-04")
	assertCode(t, err, apperrors.CodeValidation)

	ok, err := f.bookings.CheckAvailability(context.Background(), "2024-06-01", "2024-06-04")
	require.NoError(t, err)
	assert.True(t, ok)
}

// ────────────────────────────────────────────────
// Tests for CompleteFinishedStays()
// ────────────────────────────────────────────────

func TestCompleteFinishedStays(t *testing.T) {
	f := newFixture(t)
	past := f.seed(aliceID, model.StatusConfirmed, "2024-04-20", "2024-04-25")
	today := f.seed(bobID, model.StatusConfirmed, "2024-04-28", "2024-05-01")
	future := f.seed(aliceID, model.StatusConfirmed, "2024-05-01", "2024-05-03")
	pending := f.seed(aliceID, model.StatusPending, "2024-04-10", "2024-04-12")

	n, err := f.bookings.CompleteFinishedStays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, model.StatusCompleted, f.repo.get(past.ID).Status)
	assert.Equal(t, model.StatusCompleted, f.repo.get(today.ID).Status)
	assert.Equal(t, model.StatusConfirmed, f.repo.get(future.ID).Status)
	assert.Equal(t, model.StatusPending, f.repo.get(pending.ID).Status)
	assert.Len(t, f.emitter.events, 2)
}

func TestToday_IsTheUTCCalendarDay(t *testing.T) {
	f := newFixture(t)
	// 2024-05-02 08:00 at UTC+14 is still 2024-05-01 in UTC.
	aheadOfUTC := time.FixedZone("UTC+14", 14*60*60)
	f.bookings.now = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, aheadOfUTC) }

	_, err := f.bookings.Create(context.Background(), alice, standardRequest("2024-05-01", "2024-05-03", 2))
	require.NoError(t, err, "a check-in on the current UTC day is not in the past")

	checkingOutTomorrow := f.seed(bobID, model.StatusConfirmed, "2024-04-28", "2024-05-02")
	n, err := f.bookings.CompleteFinishedStays(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, model.StatusConfirmed, f.repo.get(checkingOutTomorrow.ID).Status)
}

// ────────────────────────────────────────────────
// Full lifecycle
// ────────────────────────────────────────────────

func TestBookingLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := standardRequest("2024-09-01", "2024-09-05", 2)
	req.TotalPrice = floatPtr(200)
	first, err := f.bookings.Create(ctx, alice, req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, first.Status)

	confirmed, err := f.bookings.UpdateStatus(ctx, admin, first.ID, &model.StatusUpdateRequest{Status: model.StatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)
	assert.NotEmpty(t, confirmed.RoomID)

	ok, err := f.bookings.CheckAvailability(ctx, "2024-09-03", "2024-09-06")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.bookings.Create(ctx, bob, standardRequest("2024-09-03", "2024-09-06", 2))
	assertCode(t, err, apperrors.CodeConflict)

	cancelled, err := f.bookings.Cancel(ctx, alice, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	second, err := f.bookings.Create(ctx, bob, standardRequest("2024-09-03", "2024-09-06", 2))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, second.Status)

	assert.Equal(t, []notifications.EventType{
		notifications.EventBookingReceived,
		notifications.EventStatusChanged,
		notifications.EventCancelledByUser,
		notifications.EventBookingReceived,
	}, f.emitter.types())
}
