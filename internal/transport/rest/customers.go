package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/salesledger/internal/service"
	"github.com/abgdnv/salesledger/pkg/web"
)

func (h *Handler) FindCustomerByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	found, err := h.customers.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to retrieve customer with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindCustomerByName handles GET /search?first_name=&last_name=.
func (h *Handler) FindCustomerByName(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := r.URL.Query()
	found, err := h.customers.FindByName(r.Context(), query.Get("first_name"), query.Get("last_name"))
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to search customers")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *Handler) FindAllCustomers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	offset, limit, ok := h.parsePage(w, r, mLogger)
	if !ok {
		return
	}
	list, err := h.customers.FindAll(r.Context(), offset, limit)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to fetch customers")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.CustomerCreateDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	created, err := h.customers.Create(r.Context(), dto)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to create customer")
		return
	}
	mLogger.InfoContext(r.Context(), "Customer created successfully", "ID", created.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.CustomerUpdateDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	updated, err := h.customers.Update(r.Context(), id, dto)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to update customer with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to delete customer with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Customer deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}
