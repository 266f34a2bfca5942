package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/ledger"
	"github.com/abgdnv/salesledger/internal/store"
	"github.com/abgdnv/salesledger/internal/store/db"
	plog "github.com/abgdnv/salesledger/pkg/logger"
	"github.com/abgdnv/salesledger/pkg/messaging"
	"github.com/abgdnv/salesledger/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// SaleService records, amends and deletes sales. Every write changes the sale row and the
// product stock in one transaction, so either both happen or neither does.
type SaleService interface {
	// FindByID returns ErrSaleNotFound if no sale exists with the given ID.
	FindByID(ctx context.Context, id int32) (*SaleDto, error)
	FindAll(ctx context.Context, offset, limit int32) ([]SaleDto, error)

	// Create records a sale at the product's current price and consumes its quantity from stock.
	// Returns ErrInsufficientStock when the product is missing or short,
	// ErrCustomerNotFound when the customer is missing.
	Create(ctx context.Context, sale SaleCreateDto) (*SaleDto, error)

	// Amend replaces the sale's details and moves stock by the difference.
	// Moving a sale to another product returns the old quantity and consumes the new one.
	Amend(ctx context.Context, id int32, sale SaleAmendDto) (*SaleDto, error)

	// Delete removes the sale and returns its quantity to stock.
	Delete(ctx context.Context, id int32) error
}

type SaleDto struct {
	ID              int32  `json:"id"`
	ProductID       int32  `json:"product_id"`
	CustomerID      int32  `json:"customer_id"`
	Quantity        int32  `json:"quantity"`
	UnitPriceAtSale string `json:"unit_price_at_sale"`
	TotalSalePrice  string `json:"total_sale_price"`
	SaleDate        string `json:"sale_date"`
}

type SaleCreateDto struct {
	ProductID  int32  `json:"product_id" validate:"required,min=1"`
	CustomerID int32  `json:"customer_id" validate:"required,min=1"`
	Quantity   int32  `json:"quantity" validate:"required,min=1"`
	SaleDate   string `json:"sale_date" validate:"required,datetime=2006-01-02"`
}

type SaleAmendDto struct {
	ProductID  int32  `json:"product_id" validate:"required,min=1"`
	CustomerID int32  `json:"customer_id" validate:"required,min=1"`
	Quantity   int32  `json:"quantity" validate:"required,min=1"`
	SaleDate   string `json:"sale_date" validate:"required,datetime=2006-01-02"`
}

// Operation names used in logs, spans and metrics.
const (
	opCreate = "create"
	opAmend  = "amend"
	opDelete = "delete"
)

// SaleCoordinator implements SaleService on top of a transactional store and the inventory ledger.
type SaleCoordinator struct {
	store      store.Store
	publisher  messaging.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
	operations metric.Int64Counter
	now        func() time.Time
}

// NewSaleCoordinator creates a new SaleCoordinator. Events are published only after a commit.
func NewSaleCoordinator(s store.Store, publisher messaging.Publisher, logger *slog.Logger) *SaleCoordinator {
	meter := otel.Meter(instrumentationName)
	operations, err := meter.Int64Counter("sales_operations",
		metric.WithDescription("Sale transactions by operation and outcome"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_operations counter: %v", err))
	}
	return &SaleCoordinator{
		store:      s,
		publisher:  publisher,
		logger:     logger.With("component", "sale_coordinator"),
		tracer:     otel.Tracer(instrumentationName),
		operations: operations,
		now:        time.Now,
	}
}

func (c *SaleCoordinator) FindByID(ctx context.Context, id int32) (*SaleDto, error) {
	sale, err := c.store.Sales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleDto(sale), nil
}

func (c *SaleCoordinator) FindAll(ctx context.Context, offset, limit int32) ([]SaleDto, error) {
	sales, err := c.store.Sales().FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]SaleDto, len(sales))
	for i := range sales {
		dtos[i] = *toSaleDto(&sales[i])
	}
	return dtos, nil
}

func (c *SaleCoordinator) Create(ctx context.Context, sale SaleCreateDto) (dto *SaleDto, err error) {
	ctx, span := c.tracer.Start(ctx, "SaleCoordinator.Create")
	ctx = plog.AppendCtx(ctx, slog.String("operation", opCreate))
	defer func() { c.finish(ctx, span, opCreate, err) }()

	if err := validateStruct(sale); err != nil {
		return nil, err
	}
	saleDate, err := parseSaleDate(sale.SaleDate)
	if err != nil {
		return nil, err
	}

	var created *db.Sale
	err = c.store.WithinTx(ctx, func(uow store.UnitOfWork) error {
		l := ledger.New(uow.Products())
		available, err := l.CheckAvailability(ctx, sale.ProductID, sale.Quantity)
		if err != nil {
			return err
		}
		if !available {
			return fmt.Errorf("product %d cannot supply %d units: %w", sale.ProductID, sale.Quantity, serrors.ErrInsufficientStock)
		}
		product, err := uow.Products().FindByID(ctx, sale.ProductID)
		if err != nil {
			return err
		}
		if _, err := uow.Customers().FindByID(ctx, sale.CustomerID); err != nil {
			return err
		}
		totalPrice, err := total(product.Price, sale.Quantity)
		if err != nil {
			return err
		}

		created, err = uow.Sales().Create(ctx, &db.CreateSaleParams{
			ProductID:       sale.ProductID,
			CustomerID:      sale.CustomerID,
			Quantity:        sale.Quantity,
			UnitPriceAtSale: product.Price,
			TotalSalePrice:  totalPrice,
			SaleDate:        saleDate,
		})
		if err != nil {
			return asPersistence("record sale", err)
		}
		if err := l.ApplyDelta(ctx, sale.ProductID, -sale.Quantity); err != nil {
			return asPersistence("consume stock", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.SaleCreatedEvent{
		EventID:    uuid.New(),
		SaleID:     created.ID,
		ProductID:  created.ProductID,
		CustomerID: created.CustomerID,
		Quantity:   created.Quantity,
		TotalPrice: money(created.TotalSalePrice),
		Stock:      []events.StockChange{{ProductID: created.ProductID, Delta: -created.Quantity}},
		OccurredAt: c.now().UTC(),
	})
	return toSaleDto(created), nil
}

func (c *SaleCoordinator) Amend(ctx context.Context, id int32, sale SaleAmendDto) (dto *SaleDto, err error) {
	ctx, span := c.tracer.Start(ctx, "SaleCoordinator.Amend", trace.WithAttributes(attribute.Int("sale.id", int(id))))
	ctx = plog.AppendCtx(ctx, slog.String("operation", opAmend), slog.Int("sale_id", int(id)))
	defer func() { c.finish(ctx, span, opAmend, err) }()

	if err := validateStruct(sale); err != nil {
		return nil, err
	}
	saleDate, err := parseSaleDate(sale.SaleDate)
	if err != nil {
		return nil, err
	}

	var (
		existing *db.Sale
		updated  *db.Sale
		changes  []events.StockChange
	)
	err = c.store.WithinTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		existing, err = uow.Sales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := uow.Customers().FindByID(ctx, sale.CustomerID); err != nil {
			return err
		}

		l := ledger.New(uow.Products())
		unitPrice := existing.UnitPriceAtSale
		if sale.ProductID == existing.ProductID {
			delta := sale.Quantity - existing.Quantity
			if delta > 0 {
				available, err := l.CheckAvailability(ctx, sale.ProductID, delta)
				if err != nil {
					return err
				}
				if !available {
					return fmt.Errorf("product %d cannot supply %d more units: %w", sale.ProductID, delta, serrors.ErrInsufficientStock)
				}
			}
			if delta != 0 {
				changes = []events.StockChange{{ProductID: sale.ProductID, Delta: -delta}}
			}
		} else {
			available, err := l.CheckAvailability(ctx, sale.ProductID, sale.Quantity)
			if err != nil {
				return err
			}
			if !available {
				return fmt.Errorf("product %d cannot supply %d units: %w", sale.ProductID, sale.Quantity, serrors.ErrInsufficientStock)
			}
			product, err := uow.Products().FindByID(ctx, sale.ProductID)
			if err != nil {
				return err
			}
			unitPrice = product.Price
			changes = []events.StockChange{
				{ProductID: existing.ProductID, Delta: existing.Quantity},
				{ProductID: sale.ProductID, Delta: -sale.Quantity},
			}
		}

		totalPrice, err := total(unitPrice, sale.Quantity)
		if err != nil {
			return err
		}

		updated, err = uow.Sales().Update(ctx, &db.UpdateSaleParams{
			ID:              id,
			ProductID:       sale.ProductID,
			CustomerID:      sale.CustomerID,
			Quantity:        sale.Quantity,
			UnitPriceAtSale: unitPrice,
			TotalSalePrice:  totalPrice,
			SaleDate:        saleDate,
		})
		if err != nil {
			return asPersistence("update sale", err)
		}
		for _, change := range changes {
			if err := l.ApplyDelta(ctx, change.ProductID, change.Delta); err != nil {
				return asPersistence("adjust stock", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.SaleAmendedEvent{
		EventID:     uuid.New(),
		SaleID:      updated.ID,
		ProductID:   updated.ProductID,
		CustomerID:  updated.CustomerID,
		OldQuantity: existing.Quantity,
		NewQuantity: updated.Quantity,
		TotalPrice:  money(updated.TotalSalePrice),
		Stock:       changes,
		OccurredAt:  c.now().UTC(),
	})
	return toSaleDto(updated), nil
}

func (c *SaleCoordinator) Delete(ctx context.Context, id int32) (err error) {
	ctx, span := c.tracer.Start(ctx, "SaleCoordinator.Delete", trace.WithAttributes(attribute.Int("sale.id", int(id))))
	ctx = plog.AppendCtx(ctx, slog.String("operation", opDelete), slog.Int("sale_id", int(id)))
	defer func() { c.finish(ctx, span, opDelete, err) }()

	var existing *db.Sale
	err = c.store.WithinTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		existing, err = uow.Sales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := uow.Sales().Delete(ctx, id); err != nil {
			return asPersistence("delete sale", err)
		}
		if err := ledger.New(uow.Products()).ApplyDelta(ctx, existing.ProductID, existing.Quantity); err != nil {
			return asPersistence("return stock", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.publish(ctx, events.SaleDeletedEvent{
		EventID:    uuid.New(),
		SaleID:     existing.ID,
		ProductID:  existing.ProductID,
		Quantity:   existing.Quantity,
		Stock:      []events.StockChange{{ProductID: existing.ProductID, Delta: existing.Quantity}},
		OccurredAt: c.now().UTC(),
	})
	return nil
}

// finish records the terminal state of a sale transaction.
func (c *SaleCoordinator) finish(ctx context.Context, span trace.Span, op string, err error) {
	defer span.End()
	outcome := "committed"
	kind := serrors.KindOf(err)
	if err != nil {
		outcome = "rolled_back"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "Sale transaction rolled back", "kind", kind, "error", err)
	} else {
		c.logger.InfoContext(ctx, "Sale transaction committed")
	}
	c.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
		attribute.String("kind", string(kind)),
	))
}

// publish is best effort: the transaction is already committed.
func (c *SaleCoordinator) publish(ctx context.Context, event messaging.Event) {
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "Failed to publish sale event", "subject", event.Subject(), "error", err)
	}
}

func parseSaleDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: sale date %q: %w", serrors.ErrValidation, s, err)
	}
	return d, nil
}

// total must fit the NUMERIC(10,2) total_sale_price column.
func total(unitPrice decimal.Decimal, quantity int32) (decimal.Decimal, error) {
	t := unitPrice.Mul(decimal.NewFromInt32(quantity))
	if t.GreaterThanOrEqual(maxPrice) {
		return decimal.Decimal{}, fmt.Errorf("%s x %d: %w", money(unitPrice), quantity, serrors.ErrTotalTooLarge)
	}
	return t, nil
}

func toSaleDto(s *db.Sale) *SaleDto {
	return &SaleDto{
		ID:              s.ID,
		ProductID:       s.ProductID,
		CustomerID:      s.CustomerID,
		Quantity:        s.Quantity,
		UnitPriceAtSale: money(s.UnitPriceAtSale),
		TotalSalePrice:  money(s.TotalSalePrice),
		SaleDate:        s.SaleDate.Format(DateLayout),
	}
}
