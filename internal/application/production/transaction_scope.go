package production

import (
	"context"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the production repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories a production
// command touches within a transaction. All repositories returned share the
// same underlying database transaction.
//
// Aggregate boundary notes:
//   - OrderRepo: the Order aggregate root; line items are persisted via
//     association handling when the root is saved.
//   - StockRepo: the shared ledger. FindForUpdate must be used for any
//     mutation so entries are row-locked for the duration of the command.
//   - MovementRepo: append-only audit records.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() production.OrderRepository
	// StockRepo returns the stock ledger repository scoped to the current transaction
	StockRepo() production.StockEntryRepository
	// SettlementRepo returns the settlement repository scoped to the current transaction
	SettlementRepo() production.SettlementRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() production.StockMovementRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// WorkshopRepo returns the workshop repository scoped to the current transaction
	WorkshopRepo() partner.WorkshopRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	orderRepo      production.OrderRepository
	stockRepo      production.StockEntryRepository
	settlementRepo production.SettlementRepository
	movementRepo   production.StockMovementRepository
	productRepo    catalog.ProductRepository
	workshopRepo   partner.WorkshopRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo production.OrderRepository,
	stockRepo production.StockEntryRepository,
	settlementRepo production.SettlementRepository,
	movementRepo production.StockMovementRepository,
	productRepo catalog.ProductRepository,
	workshopRepo partner.WorkshopRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:      orderRepo,
		stockRepo:      stockRepo,
		settlementRepo: settlementRepo,
		movementRepo:   movementRepo,
		productRepo:    productRepo,
		workshopRepo:   workshopRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() production.OrderRepository {
	return s.orderRepo
}

// StockRepo returns the stock ledger repository.
func (s *NoOpTransactionScope) StockRepo() production.StockEntryRepository {
	return s.stockRepo
}

// SettlementRepo returns the settlement repository.
func (s *NoOpTransactionScope) SettlementRepo() production.SettlementRepository {
	return s.settlementRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() production.StockMovementRepository {
	return s.movementRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// WorkshopRepo returns the workshop repository.
func (s *NoOpTransactionScope) WorkshopRepo() partner.WorkshopRepository {
	return s.workshopRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
