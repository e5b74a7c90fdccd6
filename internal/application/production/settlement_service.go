package production

import (
	"context"
	"time"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementService exposes the financial settlement records
type SettlementService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(scope TransactionScope, logger *zap.Logger) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{scope: scope, logger: logger}
}

// ListByPeriod returns settlement records with entry date in [from, to]
func (s *SettlementService) ListByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[SettlementDTO], error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period end cannot precede period start")
	}

	var page shared.Paginated[SettlementDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.SettlementRepo().FindByPeriod(ctx, from, to, filter)
		if err != nil {
			return err
		}
		total, err := repos.SettlementRepo().CountByPeriod(ctx, from, to, filter)
		if err != nil {
			return err
		}

		dtos := make([]SettlementDTO, 0, len(records))
		for i := range records {
			dtos = append(dtos, toSettlementDTO(&records[i]))
		}
		page = shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListByOrder returns all settlement records of an order
func (s *SettlementService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]SettlementDTO, error) {
	var dtos []SettlementDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err := repos.SettlementRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		dtos = make([]SettlementDTO, 0, len(records))
		for i := range records {
			dtos = append(dtos, toSettlementDTO(&records[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dtos, nil
}

// Pay marks one settlement record as paid
func (s *SettlementService) Pay(ctx context.Context, id uuid.UUID) (*SettlementDTO, error) {
	var dto *SettlementDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.SettlementRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := record.MarkPaid(time.Now()); err != nil {
			return err
		}
		if err := repos.SettlementRepo().Save(ctx, record); err != nil {
			return err
		}
		d := toSettlementDTO(record)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("settlement paid", zap.String("settlement_id", id.String()))
	return dto, nil
}
