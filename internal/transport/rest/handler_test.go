package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSaleService is a mock implementation of the SaleService interface
type mockSaleService struct {
	sale   *service.SaleDto
	sales  []service.SaleDto
	error  error
	gotID  int32
	gotDto any
}

func (m *mockSaleService) FindByID(_ context.Context, id int32) (*service.SaleDto, error) {
	m.gotID = id
	return m.sale, m.error
}

func (m *mockSaleService) FindAll(_ context.Context, _, _ int32) ([]service.SaleDto, error) {
	return m.sales, m.error
}

func (m *mockSaleService) Create(_ context.Context, dto service.SaleCreateDto) (*service.SaleDto, error) {
	m.gotDto = dto
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func (m *mockSaleService) Amend(_ context.Context, id int32, dto service.SaleAmendDto) (*service.SaleDto, error) {
	m.gotID, m.gotDto = id, dto
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func (m *mockSaleService) Delete(_ context.Context, id int32) error {
	m.gotID = id
	return m.error
}

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  *service.ProductDto
	products []service.ProductDto
	error    error
	offset   int32
	limit    int32
}

func (m *mockProductService) FindByID(_ context.Context, _ int32) (*service.ProductDto, error) {
	return m.product, m.error
}

func (m *mockProductService) FindAll(_ context.Context, offset, limit int32) ([]service.ProductDto, error) {
	m.offset, m.limit = offset, limit
	return m.products, m.error
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) Update(_ context.Context, _ int32, _ service.ProductUpdateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) Delete(_ context.Context, _ int32) error {
	return m.error
}

// mockCustomerService is a mock implementation of the CustomerService interface
type mockCustomerService struct {
	customer  *service.CustomerDto
	customers []service.CustomerDto
	error     error
	firstName string
	lastName  string
}

func (m *mockCustomerService) FindByID(_ context.Context, _ int32) (*service.CustomerDto, error) {
	return m.customer, m.error
}

func (m *mockCustomerService) FindAll(_ context.Context, _, _ int32) ([]service.CustomerDto, error) {
	return m.customers, m.error
}

func (m *mockCustomerService) FindByName(_ context.Context, firstName, lastName string) (*service.CustomerDto, error) {
	m.firstName, m.lastName = firstName, lastName
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) Create(_ context.Context, _ service.CustomerCreateDto) (*service.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) Update(_ context.Context, _ int32, _ service.CustomerUpdateDto) (*service.CustomerDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockCustomerService) Delete(_ context.Context, _ int32) error {
	return m.error
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func newTestRouter(products service.ProductService, customers service.CustomerService, sales service.SaleService) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(products, customers, sales, logger).RegisterRoutes(mux)
	return mux
}

var sampleSale = &service.SaleDto{
	ID:              7,
	ProductID:       1,
	CustomerID:      2,
	Quantity:        3,
	UnitPriceAtSale: "5.00",
	TotalSalePrice:  "15.00",
	SaleDate:        "2025-03-14",
}

func validationError(t *testing.T, dto any) error {
	t.Helper()
	err := validator.New().Struct(dto)
	require.Error(t, err)
	return fmt.Errorf("%w: %w", serrors.ErrValidation, err)
}

func Test_SaleAPI_Create(t *testing.T) {
	validBody := `{"product_id":1,"customer_id":2,"quantity":3,"sale_date":"2025-03-14"}`
	testCases := []struct {
		name         string
		mockService  mockSaleService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success",
			mockService:  mockSaleService{sale: sampleSale},
			body:         validBody,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, sampleSale),
		},
		{
			name:         "Error - insufficient stock",
			mockService:  mockSaleService{error: fmt.Errorf("product 1 cannot supply 3 units: %w", serrors.ErrInsufficientStock)},
			body:         validBody,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "product 1 cannot supply 3 units: insufficient stock"}),
		},
		{
			name:         "Error - total too large",
			mockService:  mockSaleService{error: fmt.Errorf("50000000.00 x 2: %w", serrors.ErrTotalTooLarge)},
			body:         validBody,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "50000000.00 x 2: " + serrors.ErrTotalTooLarge.Error()}),
		},
		{
			name:         "Error - customer not found",
			mockService:  mockSaleService{error: serrors.ErrCustomerNotFound},
			body:         validBody,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "customer not found"}),
		},
		{
			name:         "Error - field validation",
			mockService:  mockSaleService{error: validationError(t, service.SaleCreateDto{ProductID: 1, CustomerID: 2, SaleDate: "2025-03-14"})},
			body:         `{"product_id":1,"customer_id":2,"sale_date":"2025-03-14"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{"Quantity": "failed on rule: required"}}),
		},
		{
			name:         "Error - persistence failure",
			mockService:  mockSaleService{error: fmt.Errorf("consume stock: %w: %w", serrors.ErrPersistence, errors.New("connection reset"))},
			body:         validBody,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to create sale"}),
		},
		{
			name:         "Error - commit failure",
			mockService:  mockSaleService{error: serrors.ErrTransactionCommit},
			body:         validBody,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to create sale"}),
		},
		{
			name:         "Error - malformed body",
			mockService:  mockSaleService{sale: sampleSale},
			body:         `{"product_id":"one"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Error - unknown field",
			mockService:  mockSaleService{sale: sampleSale},
			body:         `{"product_id":1,"customer_id":2,"quantity":3,"sale_date":"2025-03-14","discount":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&mockProductService{}, &mockCustomerService{}, &tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_SaleAPI_Amend(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockSaleService
		saleID       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success",
			mockService:  mockSaleService{sale: sampleSale},
			saleID:       "7",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, sampleSale),
		},
		{
			name:         "Error - sale not found",
			mockService:  mockSaleService{error: serrors.ErrSaleNotFound},
			saleID:       "7",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "sale not found"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockSaleService{sale: sampleSale},
			saleID:       "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
		{
			name:         "Error - non positive id",
			mockService:  mockSaleService{sale: sampleSale},
			saleID:       "0",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: 0"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&mockProductService{}, &mockCustomerService{}, &tc.mockService)
			body := `{"product_id":1,"customer_id":2,"quantity":5,"sale_date":"2025-03-15"}`
			req := httptest.NewRequest(http.MethodPut, "/api/v1/sales/"+tc.saleID, strings.NewReader(body))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			if tc.expectedCode == http.StatusOK {
				assert.Equal(t, int32(7), tc.mockService.gotID)
				assert.Equal(t, service.SaleAmendDto{ProductID: 1, CustomerID: 2, Quantity: 5, SaleDate: "2025-03-15"}, tc.mockService.gotDto)
			}
		})
	}
}

func Test_SaleAPI_Delete(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockSaleService
		expectedCode int
	}{
		{name: "Success", mockService: mockSaleService{}, expectedCode: http.StatusNoContent},
		{name: "Error - sale not found", mockService: mockSaleService{error: serrors.ErrSaleNotFound}, expectedCode: http.StatusNotFound},
		{name: "Error - rollback failed", mockService: mockSaleService{error: serrors.ErrTransactionRollback}, expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&mockProductService{}, &mockCustomerService{}, &tc.mockService)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/sales/12", nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, int32(12), tc.mockService.gotID)
		})
	}
}

func Test_SaleAPI_FindAll(t *testing.T) {
	mockService := &mockSaleService{sales: []service.SaleDto{*sampleSale}}
	router := newTestRouter(&mockProductService{}, &mockCustomerService{}, mockService)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sales?offset=0&limit=10", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, toJSON(t, []service.SaleDto{*sampleSale}), rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/sales?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, toJSON(t, ErrorResponse{Error: "Invalid limit number: 0"}), rr.Body.String())
}

func Test_ProductAPI(t *testing.T) {
	product := &service.ProductDto{ID: 1, Name: "Widget", Price: "5.00", Stock: 10}
	testCases := []struct {
		name         string
		mockService  mockProductService
		method       string
		target       string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Create - success",
			mockService:  mockProductService{product: product},
			method:       http.MethodPost,
			target:       "/api/v1/products",
			body:         `{"name":"Widget","price":"5.00","stock":10}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, product),
		},
		{
			name:         "Create - duplicate name",
			mockService:  mockProductService{error: serrors.ErrDuplicateProductName},
			method:       http.MethodPost,
			target:       "/api/v1/products",
			body:         `{"name":"Widget","price":5,"stock":10}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: serrors.ErrDuplicateProductName.Error()}),
		},
		{
			name:         "Create - invalid price",
			mockService:  mockProductService{error: serrors.ErrInvalidPrice},
			method:       http.MethodPost,
			target:       "/api/v1/products",
			body:         `{"name":"Widget","price":"-1","stock":10}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: serrors.ErrInvalidPrice.Error()}),
		},
		{
			name:         "Get - not found",
			mockService:  mockProductService{error: serrors.ErrProductNotFound},
			method:       http.MethodGet,
			target:       "/api/v1/products/3",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "product not found"}),
		},
		{
			name:         "Update - success",
			mockService:  mockProductService{product: product},
			method:       http.MethodPut,
			target:       "/api/v1/products/1",
			body:         `{"name":"Widget","price":"5.00","stock":10}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, product),
		},
		{
			name:         "Delete - in use",
			mockService:  mockProductService{error: serrors.ErrProductInUse},
			method:       http.MethodDelete,
			target:       "/api/v1/products/1",
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: serrors.ErrProductInUse.Error()}),
		},
		{
			name:         "List - service error",
			mockService:  mockProductService{error: serrors.ErrNoRowsAffected},
			method:       http.MethodGet,
			target:       "/api/v1/products",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to fetch products"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&tc.mockService, &mockCustomerService{}, &mockSaleService{})
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.target, body))

			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_ProductAPI_Paging(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		expectedCode int
		expectedBody string
		offset       int32
		limit        int32
	}{
		{name: "defaults", query: "", expectedCode: http.StatusOK, expectedBody: `[]`, offset: 0, limit: defaultPageSize},
		{name: "explicit page", query: "?offset=100&limit=25", expectedCode: http.StatusOK, expectedBody: `[]`, offset: 100, limit: 25},
		{name: "largest page", query: "?limit=1000", expectedCode: http.StatusOK, expectedBody: `[]`, offset: 0, limit: maxPageSize},
		{
			name:         "page too large",
			query:        "?limit=1001",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid limit number: 1001"}),
		},
		{
			name:         "negative offset",
			query:        "?offset=-1",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid offset number: -1"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &mockProductService{products: []service.ProductDto{}}
			router := newTestRouter(mockService, &mockCustomerService{}, &mockSaleService{})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products"+tc.query, nil))

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			assert.Equal(t, tc.offset, mockService.offset)
			assert.Equal(t, tc.limit, mockService.limit)
		})
	}
}

func Test_CustomerAPI(t *testing.T) {
	email := "ada@example.com"
	customer := &service.CustomerDto{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: &email}

	t.Run("Search - found", func(t *testing.T) {
		mockService := &mockCustomerService{customer: customer}
		router := newTestRouter(&mockProductService{}, mockService, &mockSaleService{})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/customers/search?first_name=Ada&last_name=Lovelace", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, toJSON(t, customer), rr.Body.String())
		assert.Equal(t, "Ada", mockService.firstName)
		assert.Equal(t, "Lovelace", mockService.lastName)
	})

	t.Run("Search - not found", func(t *testing.T) {
		mockService := &mockCustomerService{error: serrors.ErrCustomerNotFound}
		router := newTestRouter(&mockProductService{}, mockService, &mockSaleService{})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/customers/search?first_name=No&last_name=One", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Create - duplicate email", func(t *testing.T) {
		mockService := &mockCustomerService{error: serrors.ErrDuplicateEmail}
		router := newTestRouter(&mockProductService{}, mockService, &mockSaleService{})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/customers",
			strings.NewReader(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Delete - in use", func(t *testing.T) {
		mockService := &mockCustomerService{error: serrors.ErrCustomerInUse}
		router := newTestRouter(&mockProductService{}, mockService, &mockSaleService{})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/customers/1", nil))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Get - success", func(t *testing.T) {
		mockService := &mockCustomerService{customer: customer}
		router := newTestRouter(&mockProductService{}, mockService, &mockSaleService{})
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/customers/1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, toJSON(t, customer), rr.Body.String())
	})
}

func Test_HealthCheck(t *testing.T) {
	router := newTestRouter(&mockProductService{}, &mockCustomerService{}, &mockSaleService{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
