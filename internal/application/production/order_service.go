package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles the production order lifecycle: creation, return
// reconciliation, reopening and deletion. Every command runs inside a
// single transaction scope; ledger entries touched by a command are
// row-locked before mutation.
type OrderService struct {
	scope  TransactionScope
	cache  StockSummaryInvalidator
	logger *zap.Logger
}

// StockSummaryInvalidator drops the cached stock summary after a ledger
// mutation. A nil implementation is allowed.
type StockSummaryInvalidator interface {
	Invalidate(ctx context.Context) error
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, cache StockSummaryInvalidator, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{scope: scope, cache: cache, logger: logger}
}

// CreateOrder dispatches a new order to a workshop. Items that cannot be
// resolved or carry non-positive quantities are skipped and reported in
// the per-item result list; the order is rejected only when no item
// survives. Each accepted item reserves its expected pieces in the open
// stock bucket.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if req.WorkshopID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Workshop is required")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order must have at least one item")
	}

	var result *CreateOrderResult
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		workshop, err := repos.WorkshopRepo().FindByID(ctx, req.WorkshopID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("VALIDATION_ERROR", "Workshop not found")
			}
			return err
		}
		if !workshop.CanReceiveOrders() {
			return shared.NewDomainError("INVALID_STATE", "Workshop cannot receive orders")
		}

		order, err := production.NewOrder(req.WorkshopID, req.StartDate)
		if err != nil {
			return err
		}

		itemResults := make([]ItemResult, 0, len(req.Items))
		productBySize := make(map[uuid.UUID]uuid.UUID)
		for i, itemReq := range req.Items {
			product, size, reason := s.resolveItem(ctx, repos, itemReq)
			if reason != "" {
				itemResults = append(itemResults, ItemResult{Index: i, Status: ItemResultSkipped, Reason: reason})
				continue
			}

			item, err := order.AddItem(product.ID, size.ID, size.Label, itemReq.CutReference, itemReq.Volumes, itemReq.PiecesPerVolume)
			if err != nil {
				itemResults = append(itemResults, ItemResult{Index: i, Status: ItemResultSkipped, Reason: err.Error()})
				continue
			}

			productBySize[size.ID] = product.ID
			itemResults = append(itemResults, ItemResult{Index: i, Status: ItemResultAccepted, LineItemID: &item.ID})
		}

		if !order.HasItems() {
			return shared.NewDomainError("VALIDATION_ERROR", "No valid items in order")
		}

		entries, err := s.lockEntries(ctx, repos, productBySize)
		if err != nil {
			return err
		}

		movements := make([]*production.StockMovement, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			entry := entries[item.ProductSizeID]
			if err := entry.Reserve(item.ExpectedPieces); err != nil {
				return err
			}
			movements = append(movements, production.NewStockMovement(
				item.ProductSizeID, order.ID, production.MovementTypeReserve, item.ExpectedPieces, 0))
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := repos.StockRepo().Save(ctx, entry); err != nil {
				return err
			}
		}
		if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
			return err
		}

		result = &CreateOrderResult{Order: toOrderDTO(order), ItemResults: itemResults}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("order created",
		zap.String("order_id", result.Order.ID.String()),
		zap.String("workshop_id", req.WorkshopID.String()),
		zap.Int("expected_pieces", result.Order.ExpectedPieces))
	return result, nil
}

// resolveItem resolves product and size for one requested item, returning
// a skip reason instead of an error so creation stays best-effort.
func (s *OrderService) resolveItem(ctx context.Context, repos TransactionalRepositories, req CreateOrderItemRequest) (*catalog.Product, *catalog.ProductSize, string) {
	var product *catalog.Product
	var err error

	switch {
	case req.ProductID != nil && *req.ProductID != uuid.Nil:
		product, err = repos.ProductRepo().FindByID(ctx, *req.ProductID)
	case req.ProductCode != "":
		product, err = repos.ProductRepo().FindByCode(ctx, req.ProductCode)
	default:
		return nil, nil, "product reference missing"
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, "product not found"
		}
		return nil, nil, fmt.Sprintf("product lookup failed: %v", err)
	}

	var size *catalog.ProductSize
	switch {
	case req.ProductSizeID != nil && *req.ProductSizeID != uuid.Nil:
		for i := range product.Sizes {
			if product.Sizes[i].ID == *req.ProductSizeID {
				size = &product.Sizes[i]
				break
			}
		}
	case req.SizeLabel != "":
		size = product.FindSize(req.SizeLabel)
	}
	if size == nil {
		return nil, nil, "size not found for product"
	}

	if req.Volumes <= 0 || req.PiecesPerVolume <= 0 {
		return nil, nil, "volumes and pieces per volume must be positive"
	}

	return product, size, ""
}

// ReturnOrder reconciles a delivery from the workshop against the order.
// Callable repeatedly while pieces remain outstanding.
func (s *OrderService) ReturnOrder(ctx context.Context, orderID uuid.UUID, req ReturnOrderRequest) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		deliveries := make([]production.Delivery, 0, len(req.Deliveries))
		for _, d := range req.Deliveries {
			deliveries = append(deliveries, production.Delivery{
				LineItemID:    d.LineItemID,
				ProductID:     d.ProductID,
				ProductSizeID: d.ProductSizeID,
				Quantity:      d.Quantity,
			})
		}

		plan, err := production.PlanReturn(order, deliveries, req.TotalDefective, req.Mode)
		if err != nil {
			return err
		}

		productBySize := make(map[uuid.UUID]uuid.UUID, len(plan.Steps))
		productIDs := make([]uuid.UUID, 0, len(plan.Steps))
		for _, step := range plan.Steps {
			if _, seen := productBySize[step.Item.ProductSizeID]; !seen {
				productIDs = append(productIDs, step.Item.ProductID)
			}
			productBySize[step.Item.ProductSizeID] = step.Item.ProductID
		}

		rates, err := s.loadLaborRates(ctx, repos, productIDs)
		if err != nil {
			return err
		}
		entries, err := s.lockEntries(ctx, repos, productBySize)
		if err != nil {
			return err
		}

		now := time.Now()
		movements := make([]*production.StockMovement, 0, len(plan.Steps))
		settlements := make([]*production.SettlementRecord, 0, len(plan.Steps))
		for _, step := range plan.Steps {
			entry := entries[step.Item.ProductSizeID]
			if err := entry.CommitDelivery(step.GoodPieces, step.ConsumedOpen); err != nil {
				return err
			}

			item := step.Item
			item.ActualGoodPieces += step.GoodPieces
			item.DefectivePieces += step.Defects
			remaining := step.ExpectedBefore - step.ConsumedOpen
			if remaining < 0 {
				remaining = 0
			}
			item.ExpectedPieces = remaining
			item.UpdatedAt = now

			movements = append(movements, production.NewStockMovement(
				item.ProductSizeID, order.ID, production.MovementTypeDelivery,
				-step.ConsumedOpen, step.GoodPieces))

			rate := rates[item.ProductID]
			amount := production.CalculateLaborAmount(step.ExpectedBefore, step.Delivered, rate.dozen, rate.piece)
			record, err := production.NewSettlementRecord(
				order.ID, item.ID, order.WorkshopID,
				step.Delivered, step.Delivered-step.ExpectedBefore, amount)
			if err != nil {
				return err
			}
			settlements = append(settlements, record)
		}

		order.RefreshStatus(now)

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := repos.StockRepo().Save(ctx, entry); err != nil {
				return err
			}
		}
		if err := repos.SettlementRepo().SaveBatch(ctx, settlements); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
			return err
		}

		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("order return processed",
		zap.String("order_id", orderID.String()),
		zap.String("mode", string(req.Mode)),
		zap.String("status", dto.Status))
	return dto, nil
}

// ReopenOrder reverts a returned or in-production order to CREATED:
// delivered good pieces move back from finished to open stock, the items'
// outstanding counts are restored, and all settlement records of the
// order are removed.
func (s *OrderService) ReopenOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		adjustments, err := order.Reopen(time.Now())
		if err != nil {
			return err
		}

		productBySize := make(map[uuid.UUID]uuid.UUID, len(order.Items))
		for i := range order.Items {
			productBySize[order.Items[i].ProductSizeID] = order.Items[i].ProductID
		}
		entries, err := s.lockEntries(ctx, repos, productBySize)
		if err != nil {
			return err
		}

		movements := make([]*production.StockMovement, 0, len(adjustments))
		for _, adj := range adjustments {
			entry := entries[adj.ProductSizeID]
			if err := entry.ReverseDelivery(adj.RestoredPieces, adj.RestoredPieces); err != nil {
				return err
			}
			movements = append(movements, production.NewStockMovement(
				adj.ProductSizeID, order.ID, production.MovementTypeReversal,
				adj.RestoredPieces, -adj.RestoredPieces))
		}

		if err := repos.SettlementRepo().DeleteByOrder(ctx, order.ID); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := repos.StockRepo().Save(ctx, entry); err != nil {
				return err
			}
		}
		if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
			return err
		}

		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("order reopened", zap.String("order_id", orderID.String()))
	return dto, nil
}

// DeleteOrder removes an order in any state, reversing its footprint on
// the ledger: outstanding pieces leave the open bucket, delivered good
// pieces leave the finished bucket, and all settlement records go with it.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		adjustments := order.DeleteAdjustments()
		productBySize := make(map[uuid.UUID]uuid.UUID, len(adjustments))
		for _, adj := range adjustments {
			if item := order.FindItem(adj.ItemID); item != nil {
				productBySize[adj.ProductSizeID] = item.ProductID
			}
		}
		entries, err := s.lockEntries(ctx, repos, productBySize)
		if err != nil {
			return err
		}

		movements := make([]*production.StockMovement, 0, len(adjustments))
		for _, adj := range adjustments {
			entry := entries[adj.ProductSizeID]
			if err := entry.Release(adj.OpenReversal); err != nil {
				return err
			}
			if err := entry.ReverseFinished(adj.FinishedReversal); err != nil {
				return err
			}
			movements = append(movements, production.NewStockMovement(
				adj.ProductSizeID, order.ID, production.MovementTypeRelease,
				-adj.OpenReversal, -adj.FinishedReversal))
		}

		if err := repos.SettlementRepo().DeleteByOrder(ctx, order.ID); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := repos.StockRepo().Save(ctx, entry); err != nil {
				return err
			}
		}
		if err := repos.MovementRepo().Append(ctx, movements...); err != nil {
			return err
		}
		return repos.OrderRepo().Delete(ctx, order.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	s.logger.Info("order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// GetOrder returns one order with its items
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		dto = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListOrders returns orders matching the filter
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderDTO], error) {
	var page shared.Paginated[OrderDTO]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.OrderRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.OrderRepo().Count(ctx, filter)
		if err != nil {
			return err
		}

		dtos := make([]OrderDTO, 0, len(orders))
		for i := range orders {
			dtos = append(dtos, *toOrderDTO(&orders[i]))
		}
		page = shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

type laborRates struct {
	dozen decimal.Decimal
	piece decimal.Decimal
}

// loadLaborRates loads the per-product labor rates needed by a return call
func (s *OrderService) loadLaborRates(ctx context.Context, repos TransactionalRepositories, productIDs []uuid.UUID) (map[uuid.UUID]laborRates, error) {
	products, err := repos.ProductRepo().FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	rates := make(map[uuid.UUID]laborRates, len(products))
	for i := range products {
		rates[products[i].ID] = laborRates{
			dozen: products[i].LaborRate,
			piece: products[i].LaborRateUnit,
		}
	}
	for _, id := range productIDs {
		if _, ok := rates[id]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Product referenced by order item not found")
		}
	}
	return rates, nil
}

// lockEntries ensures a ledger entry exists for every product size and
// loads them with row locks. FindForUpdate acquires locks in sorted order
// so concurrent commands on overlapping sets cannot deadlock.
func (s *OrderService) lockEntries(ctx context.Context, repos TransactionalRepositories, productBySize map[uuid.UUID]uuid.UUID) (map[uuid.UUID]*production.StockEntry, error) {
	sizeIDs := make([]uuid.UUID, 0, len(productBySize))
	for sizeID, productID := range productBySize {
		if _, err := repos.StockRepo().GetOrCreate(ctx, productID, sizeID); err != nil {
			return nil, err
		}
		sizeIDs = append(sizeIDs, sizeID)
	}
	return repos.StockRepo().FindForUpdate(ctx, sizeIDs)
}

func (s *OrderService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("stock summary cache invalidation failed", zap.Error(err))
	}
}
