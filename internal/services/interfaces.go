package services

import (
	"context"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/summary"
)

// AuthResult is returned by registration and login.
type AuthResult struct {
	User  *models.User
	Token string
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}

// AuthServicer defines the contract for registration, login and session lookup.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// PersonServicer defines the contract for person-related business logic.
type PersonServicer interface {
	List(ctx context.Context, userID string) ([]models.Person, error)
	Create(ctx context.Context, userID, name string) (*models.Person, error)
	Delete(ctx context.Context, userID, personID string) error
}

// EntryInput carries the writable fields of a finance entry. Value is a
// pointer so that an absent value is distinguishable from zero.
type EntryInput struct {
	Type        models.EntryType `json:"type" validate:"required,entry_type"`
	Person      string           `json:"person" validate:"required"`
	Date        string           `json:"date" validate:"required,iso_date"`
	Value       *float64         `json:"value" validate:"required,gt=0"`
	Description string           `json:"description" validate:"required,notblank"`
}

// EntryServicer defines the contract for finance-entry business logic.
type EntryServicer interface {
	List(ctx context.Context, userID string) ([]models.EntryWithPerson, error)
	Create(ctx context.Context, userID string, input EntryInput) (*models.EntryWithPerson, error)
	Update(ctx context.Context, userID, entryID string, input EntryInput) (*models.EntryWithPerson, error)
	Delete(ctx context.Context, userID, entryID string) error
}

// SummaryServicer defines the contract for monthly reporting.
type SummaryServicer interface {
	Monthly(ctx context.Context, userID string, year int, month time.Month) (*summary.Summary, error)
}
