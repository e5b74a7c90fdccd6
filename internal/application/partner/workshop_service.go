package partner

import (
	"context"

	"github.com/atelier/backend/internal/domain/partner"
	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkshopService handles workshop business operations
type WorkshopService struct {
	workshopRepo partner.WorkshopRepository
}

// NewWorkshopService creates a new WorkshopService
func NewWorkshopService(workshopRepo partner.WorkshopRepository) *WorkshopService {
	return &WorkshopService{workshopRepo: workshopRepo}
}

// Create registers a new workshop
func (s *WorkshopService) Create(ctx context.Context, req CreateWorkshopRequest) (*WorkshopResponse, error) {
	exists, err := s.workshopRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Workshop with this name already exists")
	}

	workshop, err := partner.NewWorkshop(req.Name)
	if err != nil {
		return nil, err
	}

	if req.Notes != "" {
		if err := workshop.Update(req.Name, req.Notes); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := workshop.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" {
		if err := workshop.SetAddress(req.Address, req.City); err != nil {
			return nil, err
		}
	}

	if err := s.workshopRepo.Save(ctx, workshop); err != nil {
		return nil, err
	}
	return toWorkshopResponse(workshop), nil
}

// Update modifies an existing workshop
func (s *WorkshopService) Update(ctx context.Context, id uuid.UUID, req UpdateWorkshopRequest) (*WorkshopResponse, error) {
	workshop, err := s.workshopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workshop.Update(req.Name, req.Notes); err != nil {
		return nil, err
	}
	if err := workshop.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := workshop.SetAddress(req.Address, req.City); err != nil {
		return nil, err
	}

	if err := s.workshopRepo.Save(ctx, workshop); err != nil {
		return nil, err
	}
	return toWorkshopResponse(workshop), nil
}

// Activate makes the workshop eligible for new orders
func (s *WorkshopService) Activate(ctx context.Context, id uuid.UUID) (*WorkshopResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Workshop).Activate)
}

// Deactivate marks the workshop as inactive
func (s *WorkshopService) Deactivate(ctx context.Context, id uuid.UUID) (*WorkshopResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Workshop).Deactivate)
}

// Block bars the workshop from receiving new orders
func (s *WorkshopService) Block(ctx context.Context, id uuid.UUID) (*WorkshopResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Workshop).Block)
}

// GetByID retrieves a workshop by its ID
func (s *WorkshopService) GetByID(ctx context.Context, id uuid.UUID) (*WorkshopResponse, error) {
	workshop, err := s.workshopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkshopResponse(workshop), nil
}

// List retrieves workshops matching the filter
func (s *WorkshopService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[WorkshopResponse], error) {
	workshops, err := s.workshopRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.workshopRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		responses = append(responses, *toWorkshopResponse(&workshops[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a workshop
func (s *WorkshopService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.workshopRepo.Delete(ctx, id)
}

func (s *WorkshopService) changeStatus(ctx context.Context, id uuid.UUID, change func(*partner.Workshop) error) (*WorkshopResponse, error) {
	workshop, err := s.workshopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(workshop); err != nil {
		return nil, err
	}
	if err := s.workshopRepo.Save(ctx, workshop); err != nil {
		return nil, err
	}
	return toWorkshopResponse(workshop), nil
}
