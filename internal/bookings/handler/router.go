package handler

import "github.com/julienschmidt/httprouter"

const apiPrefix = "/api/v1"

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(apiPrefix+"/bookings/check-availability", h.CheckAvailability)
	router.GET(apiPrefix+"/bookings/unavailable-dates", h.UnavailableDates)
	router.GET(apiPrefix+"/bookings/quote", h.Quote)
	router.GET(apiPrefix+"/room-type", h.RoomType)
	router.GET(apiPrefix+"/meal-plans", h.MealPlans)

	router.POST(apiPrefix+"/bookings", h.auth.Authenticate(h.Create))
	router.GET(apiPrefix+"/bookings/my", h.auth.Authenticate(h.ListMine))
	router.GET(apiPrefix+"/bookings/id/:id", h.auth.Authenticate(h.GetByID))
	router.PUT(apiPrefix+"/bookings/id/:id/cancel", h.auth.Authenticate(h.Cancel))

	router.GET(apiPrefix+"/bookings/all", h.auth.RequireAdmin(h.ListAll))
	router.PUT(apiPrefix+"/bookings/id/:id/status", h.auth.RequireAdmin(h.UpdateStatus))
	router.GET(apiPrefix+"/bookings/admin/blocks", h.auth.RequireAdmin(h.ListBlocks))
	router.POST(apiPrefix+"/bookings/admin/block", h.auth.RequireAdmin(h.CreateBlock))
	router.PUT(apiPrefix+"/bookings/admin/block/:id", h.auth.RequireAdmin(h.UpdateBlock))
	router.DELETE(apiPrefix+"/bookings/admin/block/:id", h.auth.RequireAdmin(h.DeleteBlock))
}
