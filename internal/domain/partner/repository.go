package partner

import (
	"context"

	"github.com/atelier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WorkshopRepository defines the interface for workshop persistence
type WorkshopRepository interface {
	// FindByID finds a workshop by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Workshop, error)

	// FindByName finds a workshop by its exact name
	FindByName(ctx context.Context, name string) (*Workshop, error)

	// FindAll finds all workshops matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Workshop, error)

	// Save creates or updates a workshop
	Save(ctx context.Context, workshop *Workshop) error

	// Delete deletes a workshop
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts workshops matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a workshop with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}
