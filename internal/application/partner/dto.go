package partner

import (
	"time"

	"github.com/atelier/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateWorkshopRequest is the input for registering a workshop
type CreateWorkshopRequest struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	City        string
	Notes       string
}

// UpdateWorkshopRequest is the input for updating a workshop
type UpdateWorkshopRequest struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	City        string
	Notes       string
}

// WorkshopResponse is the read model of a workshop
type WorkshopResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toWorkshopResponse(workshop *partner.Workshop) *WorkshopResponse {
	return &WorkshopResponse{
		ID:          workshop.ID,
		Name:        workshop.Name,
		ContactName: workshop.ContactName,
		Phone:       workshop.Phone,
		Email:       workshop.Email,
		Address:     workshop.Address,
		City:        workshop.City,
		Status:      string(workshop.Status),
		Notes:       workshop.Notes,
		CreatedAt:   workshop.CreatedAt,
		UpdatedAt:   workshop.UpdatedAt,
	}
}
