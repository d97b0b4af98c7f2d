package handler

import (
	"net/http"
	"strconv"
	"villa/internal/bookings/service"
	"villa/pkg/auth"
	"villa/pkg/config"
	apperrors "villa/pkg/errors"
	httputil "villa/pkg/http"
	"villa/pkg/logger"
	"villa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	bookings service.BookingService
	blocks   service.BlockService
	catalog  service.CatalogService
	auth     *auth.Middleware
	cfg      *config.Config
	log      *logger.Logger
}

func NewBookingHandler(
	bookings service.BookingService,
	blocks service.BlockService,
	catalog service.CatalogService,
	authMiddleware *auth.Middleware,
	cfg *config.Config,
) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		blocks:   blocks,
		catalog:  catalog,
		auth:     authMiddleware,
		cfg:      cfg,
		log:      cfg.Log,
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, checkOut := stayParams(r)
	if checkIn == "" || checkOut == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Both 'checkIn' and 'checkOut' query parameters are required"))
		return
	}

	available, err := h.bookings.CheckAvailability(r.Context(), checkIn, checkOut)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, model.AvailabilityResponse{Available: available})
}

func (h *BookingHandler) UnavailableDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	intervals, err := h.bookings.UnavailableDates(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, intervals)
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	checkIn, checkOut := stayParams(r)
	if checkIn == "" || checkOut == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Both 'checkIn' and 'checkOut' query parameters are required"))
		return
	}

	query := r.URL.Query()
	guests := 0
	if s := query.Get("guests"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("invalid guests parameter: "+s))
			return
		}
		guests = v
	}

	quote, err := h.bookings.Quote(r.Context(), checkIn, checkOut, firstParam(query.Get("mealPlan"), query.Get("meal_plan")), guests)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, quote)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.bookings.Create(r.Context(), caller(r), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.bookings.ListMine(r.Context(), caller(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.GetByID(r.Context(), caller(r), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.bookings.Cancel(r.Context(), caller(r), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r, h.cfg.PaginationLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.bookings.ListAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, int(offset))
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.StatusUpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), caller(r), ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

// caller is only nil on routes registered without Authenticate.
func caller(r *http.Request) *auth.Identity {
	identity, _ := auth.FromContext(r.Context())
	return identity
}

// stayParams accepts both the camelCase names the booking widget sends and
// snake_case.
func stayParams(r *http.Request) (string, string) {
	query := r.URL.Query()
	return firstParam(query.Get("checkIn"), query.Get("check_in")),
		firstParam(query.Get("checkOut"), query.Get("check_out"))
}

func firstParam(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
