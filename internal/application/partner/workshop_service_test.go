package partner

import (
	"context"
	"strings"
	"testing"

	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
		if w.Name == strings.TrimSpace(name) {
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

func (r *fakeWorkshopRepo) Save(_ context.Context, workshop *partner.Workshop) error {
	r.workshops[workshop.ID] = workshop
	return nil
}

func (r *fakeWorkshopRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.workshops[id]; !ok {
		return shared.ErrNotFound
	}
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

func TestWorkshopService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates workshop with contact", func(t *testing.T) {
		service := NewWorkshopService(newFakeWorkshopRepo())

		resp, err := service.Create(ctx, CreateWorkshopRequest{
			Name:        "Confecção Santa Rita",
			ContactName: "Rita Almeida",
			Phone:       "(37) 99999-0001",
			City:        "Divinópolis",
		})
		require.NoError(t, err)

		assert.Equal(t, "Confecção Santa Rita", resp.Name)
		assert.Equal(t, "Rita Almeida", resp.ContactName)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		service := NewWorkshopService(newFakeWorkshopRepo())
		_, err := service.Create(ctx, CreateWorkshopRequest{Name: "Oficina Central"})
		require.NoError(t, err)

		_, err = service.Create(ctx, CreateWorkshopRequest{Name: "Oficina Central"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		service := NewWorkshopService(newFakeWorkshopRepo())
		_, err := service.Create(ctx, CreateWorkshopRequest{
			Name:  "Oficina Norte",
			Email: "not-an-email",
		})
		assert.Error(t, err)
	})
}

func TestWorkshopService_StatusChanges(t *testing.T) {
	ctx := context.Background()
	service := NewWorkshopService(newFakeWorkshopRepo())

	created, err := service.Create(ctx, CreateWorkshopRequest{Name: "Oficina Sul"})
	require.NoError(t, err)

	resp, err := service.Block(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "blocked", resp.Status)

	resp, err = service.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	resp, err = service.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)

	_, err = service.Block(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
