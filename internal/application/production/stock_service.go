package production

import (
	"context"

	"github.com/atelier/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockSummaryCache is a cache-aside store for the ledger summary.
// Misses are reported as (nil, nil).
type StockSummaryCache interface {
	StockSummaryInvalidator
	Get(ctx context.Context) (*StockSummaryDTO, error)
	Set(ctx context.Context, summary *StockSummaryDTO) error
}

// StockService exposes read access to the stock ledger
type StockService struct {
	scope  TransactionScope
	cache  StockSummaryCache
	logger *zap.Logger
}

// NewStockService creates a new StockService. The cache is optional.
func NewStockService(scope TransactionScope, cache StockSummaryCache, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{scope: scope, cache: cache, logger: logger}
}

// ListEntries returns ledger entries matching the filter
func (s *StockService) ListEntries(ctx context.Context, filter shared.Filter) (*shared.Paginated[StockEntryDTO], error) {
	var page shared.Paginated[StockEntryDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, err := repos.StockRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.StockRepo().Count(ctx, filter)
		if err != nil {
			return err
		}

		dtos := make([]StockEntryDTO, 0, len(entries))
		for i := range entries {
			dtos = append(dtos, toStockEntryDTO(&entries[i]))
		}
		page = shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Summary returns the ledger-wide open/finished totals, served from the
// cache when possible. Cache failures degrade to a database read.
func (s *StockService) Summary(ctx context.Context) (*StockSummaryDTO, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stock summary cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	var summary *StockSummaryDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		totals, err := repos.StockRepo().Totals(ctx)
		if err != nil {
			return err
		}
		summary = &StockSummaryDTO{
			OpenQuantity:     totals.OpenQuantity,
			FinishedQuantity: totals.FinishedQuantity,
			TotalQuantity:    totals.OpenQuantity + totals.FinishedQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("stock summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}
