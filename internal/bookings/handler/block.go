package handler

import (
	"net/http"
	httputil "villa/pkg/http"
	"villa/pkg/model"

	"github.com/julienschmidt/httprouter"
)

func (h *BookingHandler) ListBlocks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blocks, err := h.blocks.ListBlocks(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, blocks)
}

func (h *BookingHandler) CreateBlock(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BlockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	block, err := h.blocks.CreateBlock(r.Context(), caller(r), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, block)
}

func (h *BookingHandler) UpdateBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.BlockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	block, err := h.blocks.UpdateBlock(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, block)
}

func (h *BookingHandler) DeleteBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.blocks.DeleteBlock(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}
