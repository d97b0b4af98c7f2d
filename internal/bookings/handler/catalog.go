package handler

import (
	"net/http"
	httputil "villa/pkg/http"

	"github.com/julienschmidt/httprouter"
)

func (h *BookingHandler) RoomType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	roomType, err := h.catalog.RoomType(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, roomType)
}

func (h *BookingHandler) MealPlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	plans, err := h.catalog.MealPlans(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, plans)
}
