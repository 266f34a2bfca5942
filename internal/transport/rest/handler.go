// Package rest provides the HTTP handlers of the sales service.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/service"
	"github.com/abgdnv/salesledger/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

type Handler struct {
	products  service.ProductService
	customers service.CustomerService
	sales     service.SaleService
	logger    *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided services.
func NewHandler(products service.ProductService, customers service.CustomerService, sales service.SaleService, logger *slog.Logger) *Handler {
	return &Handler{
		products:  products,
		customers: customers,
		sales:     sales,
		logger:    logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the sales service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAllProducts)
		r.Post("/", h.CreateProduct)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/", h.FindAllCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/search", h.FindCustomerByName)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindCustomerByID)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/", h.FindAllSales)
		r.Post("/", h.CreateSale)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindSaleByID)
			r.Put("/", h.AmendSale)
			r.Delete("/", h.DeleteSale)
		})
	})
	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondError maps a service error to a status code. Client errors echo the error text;
// server errors are logged and answered with failMessage.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, failMessage string) {
	if web.RespondValidationErrors(w, logger, err) {
		return
	}
	status := http.StatusInternalServerError
	switch serrors.KindOf(err) {
	case serrors.KindNotFound:
		status = http.StatusNotFound
	case serrors.KindInsufficientStock:
		status = http.StatusConflict
	case serrors.KindValidation:
		status = http.StatusBadRequest
		if isConflict(err) {
			status = http.StatusConflict
		}
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), failMessage, "error", err)
		web.RespondError(w, logger, status, failMessage)
		return
	}
	logger.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	web.RespondError(w, logger, status, err.Error())
}

func isConflict(err error) bool {
	return errors.Is(err, serrors.ErrDuplicateProductName) ||
		errors.Is(err, serrors.ErrDuplicateEmail) ||
		errors.Is(err, serrors.ErrProductInUse) ||
		errors.Is(err, serrors.ErrCustomerInUse)
}

func (h *Handler) parsePage(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (offset, limit int32, ok bool) {
	if offset, ok = web.ParseOffset(r, w, logger); !ok {
		return 0, 0, false
	}
	if limit, ok = web.ParseLimit(r, w, logger, defaultPageSize, maxPageSize); !ok {
		return 0, 0, false
	}
	return offset, limit, true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
