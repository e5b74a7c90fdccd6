package persistence

import (
	"context"

	appprod "github.com/atelier/backend/internal/application/production"
	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormTransactionScope implements the production TransactionScope using
// GORM transactions. All repository operations inside Execute share one
// database transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appprod.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() production.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// StockRepo returns the stock ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() production.StockEntryRepository {
	return NewGormStockEntryRepository(r.tx)
}

// SettlementRepo returns the settlement repository scoped to the current transaction
func (r *gormTransactionalRepositories) SettlementRepo() production.SettlementRepository {
	return NewGormSettlementRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() production.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// WorkshopRepo returns the workshop repository scoped to the current transaction
func (r *gormTransactionalRepositories) WorkshopRepo() partner.WorkshopRepository {
	return NewGormWorkshopRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appprod.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appprod.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
