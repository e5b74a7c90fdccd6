package production

import (
	"context"
	"time"

	"github.com/atelier/backend/internal/domain/catalog"
	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/production"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories for service tests, wired through NoOpTransactionScope.

type fakeWorkshopRepo struct {
	workshops map[uuid.UUID]*partner.Workshop
}

func newFakeWorkshopRepo() *fakeWorkshopRepo {
	return &fakeWorkshopRepo{workshops: make(map[uuid.UUID]*partner.Workshop)}
}

func (r *fakeWorkshopRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Workshop, error) {
	if w, ok := r.workshops[id]; ok {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWorkshopRepo) FindByName(_ context.Context, name string) (*partner.Workshop, error) {
	for _, w := range r.workshops {
		if w.Name == name {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWorkshopRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Workshop, error) {
	out := make([]partner.Workshop, 0, len(r.workshops))
	for _, w := range r.workshops {
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWorkshopRepo) Save(_ context.Context, w *partner.Workshop) error {
	r.workshops[w.ID] = w
	return nil
}

func (r *fakeWorkshopRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.workshops, id)
	return nil
}

func (r *fakeWorkshopRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.workshops)), nil
}

func (r *fakeWorkshopRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	_, err := r.FindByName(context.Background(), name)
	return err == nil, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindSizeByID(_ context.Context, id uuid.UUID) (*catalog.ProductSize, error) {
	for _, p := range r.products {
		for i := range p.Sizes {
			if p.Sizes[i].ID == id {
				return &p.Sizes[i], nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	return err == nil, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*production.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*production.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*production.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]production.Order, error) {
	out := make([]production.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByWorkshop(_ context.Context, workshopID uuid.UUID, _ shared.Filter) ([]production.Order, error) {
	out := make([]production.Order, 0)
	for _, o := range r.orders {
		if o.WorkshopID == workshopID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *production.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

type fakeStockRepo struct {
	entries map[uuid.UUID]*production.StockEntry // by product size id
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{entries: make(map[uuid.UUID]*production.StockEntry)}
}

func (r *fakeStockRepo) FindByProductSize(_ context.Context, productSizeID uuid.UUID) (*production.StockEntry, error) {
	if e, ok := r.entries[productSizeID]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) GetOrCreate(_ context.Context, productID, productSizeID uuid.UUID) (*production.StockEntry, error) {
	if e, ok := r.entries[productSizeID]; ok {
		return e, nil
	}
	entry, err := production.NewStockEntry(productID, productSizeID)
	if err != nil {
		return nil, err
	}
	r.entries[productSizeID] = entry
	return entry, nil
}

func (r *fakeStockRepo) FindForUpdate(_ context.Context, productSizeIDs []uuid.UUID) (map[uuid.UUID]*production.StockEntry, error) {
	out := make(map[uuid.UUID]*production.StockEntry, len(productSizeIDs))
	for _, id := range productSizeIDs {
		e, ok := r.entries[id]
		if !ok {
			return nil, shared.ErrNotFound
		}
		out[id] = e
	}
	return out, nil
}

func (r *fakeStockRepo) FindAll(_ context.Context, _ shared.Filter) ([]production.StockEntry, error) {
	out := make([]production.StockEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeStockRepo) Save(_ context.Context, entry *production.StockEntry) error {
	r.entries[entry.ProductSizeID] = entry
	return nil
}

func (r *fakeStockRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *fakeStockRepo) Totals(_ context.Context) (production.StockTotals, error) {
	var totals production.StockTotals
	for _, e := range r.entries {
		totals.OpenQuantity += int64(e.OpenQuantity)
		totals.FinishedQuantity += int64(e.FinishedQuantity)
	}
	return totals, nil
}

type fakeSettlementRepo struct {
	records map[uuid.UUID]*production.SettlementRecord
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{records: make(map[uuid.UUID]*production.SettlementRecord)}
}

func (r *fakeSettlementRepo) FindByID(_ context.Context, id uuid.UUID) (*production.SettlementRecord, error) {
	if rec, ok := r.records[id]; ok {
		return rec, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSettlementRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]production.SettlementRecord, error) {
	out := make([]production.SettlementRecord, 0)
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) FindByPeriod(_ context.Context, from, to time.Time, _ shared.Filter) ([]production.SettlementRecord, error) {
	out := make([]production.SettlementRecord, 0)
	for _, rec := range r.records {
		if !rec.EntryDate.Before(from) && !rec.EntryDate.After(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) Save(_ context.Context, record *production.SettlementRecord) error {
	r.records[record.ID] = record
	return nil
}

func (r *fakeSettlementRepo) SaveBatch(_ context.Context, records []*production.SettlementRecord) error {
	for _, rec := range records {
		r.records[rec.ID] = rec
	}
	return nil
}

func (r *fakeSettlementRepo) DeleteByOrder(_ context.Context, orderID uuid.UUID) error {
	for id, rec := range r.records {
		if rec.OrderID == orderID {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *fakeSettlementRepo) CountByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (int64, error) {
	records, err := r.FindByPeriod(ctx, from, to, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

type fakeMovementRepo struct {
	movements []production.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Append(_ context.Context, movements ...*production.StockMovement) error {
	for _, m := range movements {
		r.movements = append(r.movements, *m)
	}
	return nil
}

func (r *fakeMovementRepo) FindByProductSize(_ context.Context, productSizeID uuid.UUID, _ shared.Filter) ([]production.StockMovement, error) {
	out := make([]production.StockMovement, 0)
	for _, m := range r.movements {
		if m.ProductSizeID == productSizeID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]production.StockMovement, error) {
	out := make([]production.StockMovement, 0)
	for _, m := range r.movements {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

// testEnv bundles the fakes behind a NoOpTransactionScope
type testEnv struct {
	scope       *NoOpTransactionScope
	orders      *fakeOrderRepo
	stock       *fakeStockRepo
	settlements *fakeSettlementRepo
	movements   *fakeMovementRepo
	products    *fakeProductRepo
	workshops   *fakeWorkshopRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		orders:      newFakeOrderRepo(),
		stock:       newFakeStockRepo(),
		settlements: newFakeSettlementRepo(),
		movements:   newFakeMovementRepo(),
		products:    newFakeProductRepo(),
		workshops:   newFakeWorkshopRepo(),
	}
	env.scope = NewNoOpTransactionScope(
		env.orders, env.stock, env.settlements, env.movements, env.products, env.workshops)
	return env
}
