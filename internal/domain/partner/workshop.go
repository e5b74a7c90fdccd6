package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/atelier/backend/internal/domain/shared"
)

// WorkshopStatus represents the status of a workshop
type WorkshopStatus string

const (
	WorkshopStatusActive   WorkshopStatus = "active"
	WorkshopStatusInactive WorkshopStatus = "inactive"
	WorkshopStatusBlocked  WorkshopStatus = "blocked" // Blocked due to quality or settlement issues
)

// Workshop represents an external sewing workshop (confecção) that
// receives cut fabric and returns finished garments.
type Workshop struct {
	shared.BaseAggregateRoot
	Name        string         `gorm:"type:varchar(200);not null;uniqueIndex"`
	ContactName string         `gorm:"type:varchar(100)"`
	Phone       string         `gorm:"type:varchar(50);index"`
	Email       string         `gorm:"type:varchar(200)"`
	Address     string         `gorm:"type:text"`
	City        string         `gorm:"type:varchar(100)"`
	Status      WorkshopStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Workshop) TableName() string {
	return "workshops"
}

// NewWorkshop creates a new workshop
func NewWorkshop(name string) (*Workshop, error) {
	if err := validateWorkshopName(name); err != nil {
		return nil, err
	}

	return &Workshop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Status:            WorkshopStatusActive,
	}, nil
}

// Update updates the workshop's basic information
func (w *Workshop) Update(name, notes string) error {
	if err := validateWorkshopName(name); err != nil {
		return err
	}

	w.Name = strings.TrimSpace(name)
	w.Notes = notes
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetContact sets the workshop's contact information
func (w *Workshop) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	w.ContactName = contactName
	w.Phone = phone
	w.Email = email
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetAddress sets the workshop's address
func (w *Workshop) SetAddress(address, city string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}

	w.Address = address
	w.City = city
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Activate activates the workshop
func (w *Workshop) Activate() error {
	if w.Status == WorkshopStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Workshop is already active")
	}

	w.Status = WorkshopStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Deactivate deactivates the workshop
func (w *Workshop) Deactivate() error {
	if w.Status == WorkshopStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Workshop is already inactive")
	}

	w.Status = WorkshopStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Block blocks the workshop so no new orders can be dispatched to it
func (w *Workshop) Block() error {
	if w.Status == WorkshopStatusBlocked {
		return shared.NewDomainError("ALREADY_BLOCKED", "Workshop is already blocked")
	}

	w.Status = WorkshopStatusBlocked
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// IsActive returns true if the workshop is active
func (w *Workshop) IsActive() bool {
	return w.Status == WorkshopStatusActive
}

// CanReceiveOrders returns true if new orders can be dispatched to the workshop
func (w *Workshop) CanReceiveOrders() bool {
	return w.Status == WorkshopStatusActive
}

func validateWorkshopName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Workshop name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Workshop name cannot exceed 200 characters")
	}
	return nil
}

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]{5,50}$`)

func validatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
