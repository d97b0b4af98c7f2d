package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"villa/pkg/auth"
	"villa/pkg/config"
	apperrors "villa/pkg/errors"
	httputil "villa/pkg/http"
	"villa/pkg/logger"
	"villa/pkg/model"

	"github.com/go-redis/redismock/v9"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// ────────────────────────────────────────────────
// Mock services
// ────────────────────────────────────────────────

type mockBookingService struct {
	createFunc            func(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error)
	quoteFunc             func(ctx context.Context, checkIn, checkOut, mealPlan string, guests int) (*model.Quote, error)
	checkAvailabilityFunc func(ctx context.Context, checkIn, checkOut string) (bool, error)
	getByIDFunc           func(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error)
	listAllFunc           func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	updateStatusFunc      func(ctx context.Context, caller *auth.Identity, id string, req *model.StatusUpdateRequest) (*model.Booking, error)
	cancelFunc            func(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, caller, req)
	}
	return &model.Booking{}, nil
}

func (m *mockBookingService) Quote(ctx context.Context, checkIn, checkOut, mealPlan string, guests int) (*model.Quote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, checkIn, checkOut, mealPlan, guests)
	}
	return &model.Quote{}, nil
}

func (m *mockBookingService) CheckAvailability(ctx context.Context, checkIn, checkOut string) (bool, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, checkIn, checkOut)
	}
	return true, nil
}

func (m *mockBookingService) UnavailableDates(ctx context.Context) ([]model.DateInterval, error) {
	return []model.DateInterval{}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, caller, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) ListMine(ctx context.Context, caller *auth.Identity) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, caller *auth.Identity, id string, req *model.StatusUpdateRequest) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, caller, id, req)
	}
	return &model.Booking{ID: id, Status: req.Status}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, caller, id)
	}
	return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
}

func (m *mockBookingService) CompleteFinishedStays(ctx context.Context) (int, error) {
	return 0, nil
}

type mockBlockService struct {
	createFunc func(ctx context.Context, caller *auth.Identity, req *model.BlockRequest) (*model.Block, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockBlockService) ListBlocks(ctx context.Context) ([]*model.Block, error) {
	return []*model.Block{}, nil
}

func (m *mockBlockService) CreateBlock(ctx context.Context, caller *auth.Identity, req *model.BlockRequest) (*model.Block, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, caller, req)
	}
	return &model.Block{}, nil
}

func (m *mockBlockService) UpdateBlock(ctx context.Context, id string, req *model.BlockRequest) (*model.Block, error) {
	return &model.Block{ID: id}, nil
}

func (m *mockBlockService) DeleteBlock(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockCatalogService struct{}

func (m *mockCatalogService) RoomType(ctx context.Context) (*model.RoomType, error) {
	return &model.RoomType{ID: "rt", Title: "Garden Villa", PricePerNight: 40}, nil
}

func (m *mockCatalogService) MealPlans(ctx context.Context) ([]*model.MealPlan, error) {
	return []*model.MealPlan{{Name: "Room Only"}}, nil
}

func (m *mockCatalogService) MealPlan(ctx context.Context, name string) (*model.MealPlan, error) {
	return &model.MealPlan{Name: name}, nil
}

// ────────────────────────────────────────────────
// Harness
// ────────────────────────────────────────────────

type harness struct {
	router   *httprouter.Router
	verifier *auth.Verifier
	bookings *mockBookingService
	blocks   *mockBlockService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
	cfg := &config.Config{Log: log, PaginationLimit: 20}

	verifier := auth.NewVerifier(testSecret, "villa-test")
	h := &harness{
		router:   httprouter.New(),
		verifier: verifier,
		bookings: &mockBookingService{},
		blocks:   &mockBlockService{},
	}
	NewBookingHandler(h.bookings, h.blocks, &mockCatalogService{}, auth.NewMiddleware(verifier, log), cfg).RegisterRoutes(h.router)
	return h
}

func (h *harness) token(t *testing.T, role model.UserRole) string {
	t.Helper()
	token, err := h.verifier.Sign(auth.Identity{UserID: "u-" + string(role), Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	h := newHarness(t)
	h.bookings.checkAvailabilityFunc = func(ctx context.Context, checkIn, checkOut string) (bool, error) {
		assert.Equal(t, "2024-06-03", checkIn)
		assert.Equal(t, "2024-06-07", checkOut)
		return false, nil
	}

	w := h.do(http.MethodGet, "/api/v1/bookings/check-availability?checkIn=2024-06-03&checkOut=2024-06-07", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"available":false}}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/v1/bookings/check-availability?check_in=2024-06-03&check_out=2024-06-07", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/bookings/check-availability?checkIn=2024-06-03", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w).Code)
}

func TestQuote_ParsesGuests(t *testing.T) {
	h := newHarness(t)
	h.bookings.quoteFunc = func(ctx context.Context, checkIn, checkOut, mealPlan string, guests int) (*model.Quote, error) {
		assert.Equal(t, "Half Board", mealPlan)
		assert.Equal(t, 3, guests)
		return &model.Quote{Nights: 3, TotalPrice: 150}, nil
	}

	w := h.do(http.MethodGet, "/api/v1/bookings/quote?checkIn=2024-06-01&checkOut=2024-06-04&mealPlan=Half+Board&guests=3", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/v1/bookings/quote?checkIn=2024-06-01&checkOut=2024-06-04&guests=two", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicCatalogRoutes(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/v1/room-type", "/api/v1/meal-plans", "/api/v1/bookings/unavailable-dates"} {
		w := h.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	h := newHarness(t)
	body := `{"type":"standard","check_in":"2024-06-01","check_out":"2024-06-05","guests":2}`

	w := h.do(http.MethodPost, "/api/v1/bookings", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.CodeUnauthorized, decodeError(t, w).Code)

	w = h.do(http.MethodPost, "/api/v1/bookings", "not-a-jwt", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreate_PassesCallerAndBody(t *testing.T) {
	h := newHarness(t)
	h.bookings.createFunc = func(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
		require.NotNil(t, caller)
		assert.Equal(t, "u-user", caller.UserID)
		assert.Equal(t, "2024-06-01", req.CheckIn)
		assert.Equal(t, 2, req.Guests)
		return &model.Booking{ID: "b1", Status: model.StatusPending}, nil
	}

	w := h.do(http.MethodPost, "/api/v1/bookings", h.token(t, model.RoleUser),
		`{"type":"standard","check_in":"2024-06-01","check_out":"2024-06-05","guests":2,"total_price":200}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
}

func TestCreate_RejectsUnknownFields(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/v1/bookings", h.token(t, model.RoleUser), `{"guests":2,"status":"confirmed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	h := newHarness(t)
	h.bookings.createFunc = func(ctx context.Context, caller *auth.Identity, req *model.BookingRequest) (*model.Booking, error) {
		return nil, apperrors.Conflict("Selected dates are not available")
	}

	w := h.do(http.MethodPost, "/api/v1/bookings", h.token(t, model.RoleUser), `{"check_in":"2024-06-01","check_out":"2024-06-05","guests":2}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeConflict, decodeError(t, w).Code)
}

func TestCancel_IllegalTransition(t *testing.T) {
	h := newHarness(t)
	h.bookings.cancelFunc = func(ctx context.Context, caller *auth.Identity, id string) (*model.Booking, error) {
		assert.Equal(t, "abc", id)
		return nil, apperrors.IllegalTransition("cancelled", "cancelled")
	}

	w := h.do(http.MethodPut, "/api/v1/bookings/id/abc/cancel", h.token(t, model.RoleUser), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.CodeIllegalTransition, decodeError(t, w).Code)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	h := newHarness(t)
	userToken := h.token(t, model.RoleUser)

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/bookings/all", ""},
		{http.MethodPut, "/api/v1/bookings/id/abc/status", `{"status":"confirmed"}`},
		{http.MethodGet, "/api/v1/bookings/admin/blocks", ""},
		{http.MethodPost, "/api/v1/bookings/admin/block", `{"check_in":"2024-08-01","check_out":"2024-08-03"}`},
		{http.MethodPut, "/api/v1/bookings/admin/block/abc", `{"check_in":"2024-08-01","check_out":"2024-08-03"}`},
		{http.MethodDelete, "/api/v1/bookings/admin/block/abc", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := h.do(rt.method, rt.path, userToken, rt.body)
			assert.Equal(t, http.StatusForbidden, w.Code)

			w = h.do(rt.method, rt.path, "", rt.body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestListAll_Pagination(t *testing.T) {
	h := newHarness(t)
	h.bookings.listAllFunc = func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
		assert.Equal(t, 20, limit)
		assert.Equal(t, int64(40), offset)
		return []*model.Booking{{ID: "b1"}}, 41, nil
	}

	w := h.do(http.MethodGet, "/api/v1/bookings/all?offset=40", h.token(t, model.RoleAdmin), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp httputil.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(41), resp.TotalCount)
	assert.Equal(t, 40, resp.Offset)

	w = h.do(http.MethodGet, "/api/v1/bookings/all?limit=abc", h.token(t, model.RoleAdmin), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_AsAdmin(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPut, "/api/v1/bookings/id/abc/status", h.token(t, model.RoleAdmin), `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestBlocks_AsAdmin(t *testing.T) {
	h := newHarness(t)
	adminToken := h.token(t, model.RoleAdmin)
	h.blocks.createFunc = func(ctx context.Context, caller *auth.Identity, req *model.BlockRequest) (*model.Block, error) {
		assert.Equal(t, "Maintenance", req.Reason)
		assert.True(t, caller.IsAdmin())
		return &model.Block{ID: "blk", Reason: req.Reason}, nil
	}

	w := h.do(http.MethodPost, "/api/v1/bookings/admin/block", adminToken, `{"check_in":"2024-08-01","check_out":"2024-08-03","reason":"Maintenance"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodDelete, "/api/v1/bookings/admin/block/blk", adminToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	h.blocks.deleteFunc = func(ctx context.Context, id string) error {
		return apperrors.NotFoundWithID("Block", id)
	}
	w = h.do(http.MethodDelete, "/api/v1/bookings/admin/block/blk", adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	redisClient, mock := redismock.NewClientMock()
	router := httprouter.New()
	NewHealthHandler(nil, redisClient, log).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectPing().SetVal("PONG")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","cache":"ok"}`, w.Body.String())

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","cache":"error"}`, w.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}
