package store

import (
	"context"
	"errors"
	"fmt"

	serrors "github.com/abgdnv/salesledger/internal/errors"
	"github.com/abgdnv/salesledger/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements UnitOfWork and Transactor on PostgreSQL.
// Stores obtained from PgStore directly run each statement in its own implicit transaction.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of PgStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

func (p *PgStore) Products() ProductStore {
	return &pgProductStore{q: p.q}
}

func (p *PgStore) Customers() CustomerStore {
	return &pgCustomerStore{q: p.q}
}

func (p *PgStore) Sales() SaleStore {
	return &pgSaleStore{q: p.q}
}

// WithinTx begins a transaction, runs fn with stores bound to it, and commits.
// Any error from fn rolls the transaction back and is returned unchanged.
func (p *PgStore) WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return p.withTransaction(ctx, func(qtx *db.Queries) error {
		return fn(&pgUnitOfWork{q: qtx})
	})
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrTransactionBegin, err)
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", serrors.ErrTransactionRollback, errors.Join(err, rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrTransactionCommit, err)
	}

	return nil
}

type pgUnitOfWork struct {
	q *db.Queries
}

func (u *pgUnitOfWork) Products() ProductStore {
	return &pgProductStore{q: u.q}
}

func (u *pgUnitOfWork) Customers() CustomerStore {
	return &pgCustomerStore{q: u.q}
}

func (u *pgUnitOfWork) Sales() SaleStore {
	return &pgSaleStore{q: u.q}
}
