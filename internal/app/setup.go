// Package app contains the application setup for the sales service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/salesledger/internal/config"
	"github.com/abgdnv/salesledger/internal/service"
	"github.com/abgdnv/salesledger/internal/store"
	grpcImpl "github.com/abgdnv/salesledger/internal/transport/grpc"
	"github.com/abgdnv/salesledger/internal/transport/rest"
	"github.com/abgdnv/salesledger/pkg/messaging"
	"github.com/abgdnv/salesledger/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

const httpOperationName = "sales-http"

type Dependencies struct {
	ProductService  service.ProductService
	CustomerService service.CustomerService
	SaleService     service.SaleService
	Health          *grpcImpl.HealthReporter
	Logger          *slog.Logger
}

// SetupDependencies builds the services on top of s. pinger drives the gRPC health status.
func SetupDependencies(s store.Store, pinger grpcImpl.Pinger, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService:  service.NewProductCatalog(s),
		CustomerService: service.NewCustomerDirectory(s),
		SaleService:     service.NewSaleCoordinator(s, publisher, logger),
		Health:          grpcImpl.NewHealthReporter(pinger, cfg.GRPC.HealthInterval, logger),
		Logger:          logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the HTTP server.
// Used by tests to run the full HTTP stack without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, httpOperationName)
}

// wireRoutes sets up the HTTP routes for the sales service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.ProductService, deps.CustomerService, deps.SaleService, deps.Logger)
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the sales service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := SetupHttpHandler(deps)
	return server.NewHTTPServer(cfg.HTTPServer, handler)
}

// SetupGrpcServer initializes the gRPC server with the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, deps.Health.Register)
}
