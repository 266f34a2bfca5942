package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/salesledger/internal/service"
	"github.com/abgdnv/salesledger/pkg/web"
)

func (h *Handler) FindSaleByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	found, err := h.sales.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to retrieve sale with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) FindAllSales(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	offset, limit, ok := h.parsePage(w, r, mLogger)
	if !ok {
		return
	}
	list, err := h.sales.FindAll(r.Context(), offset, limit)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to fetch sales")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.SaleCreateDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create sale", "sale", dto)
	created, err := h.sales.Create(r.Context(), dto)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to create sale")
		return
	}
	mLogger.InfoContext(r.Context(), "Sale created successfully", "ID", created.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

func (h *Handler) AmendSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.SaleAmendDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to amend sale", "ID", id, "sale", dto)
	amended, err := h.sales.Amend(r.Context(), id, dto)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to amend sale with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Sale amended successfully", "ID", amended.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, amended)
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.sales.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to delete sale with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Sale deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}
