// Package repository defines the per-entity persistence contracts and the
// JSON document store that backs them by default.
package repository

import (
	"context"
	"errors"

	"fintrack/internal/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// UserRepository persists users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// PersonRepository persists people.
type PersonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
	// FindByUserID returns the user's people sorted case-insensitively by name.
	FindByUserID(ctx context.Context, userID string) ([]models.Person, error)
	// FindByName matches trimmed, case-insensitive names within one user.
	FindByName(ctx context.Context, name, userID string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) (bool, error)
}

// EntryUpdate carries the fields an entry update may replace.
type EntryUpdate struct {
	Type        models.EntryType
	Person      string
	Date        string
	Value       float64
	Description string
}

// EntryRepository persists finance entries.
type EntryRepository interface {
	FindByID(ctx context.Context, id string) (*models.FinanceEntry, error)
	// FindByUserID returns the user's entries, newest first.
	FindByUserID(ctx context.Context, userID string) ([]models.FinanceEntry, error)
	FindByPersonID(ctx context.Context, personID string) ([]models.FinanceEntry, error)
	Create(ctx context.Context, entry *models.FinanceEntry) error
	Update(ctx context.Context, id string, update EntryUpdate) (*models.FinanceEntry, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repositories groups the three repositories built by a storage backend.
type Repositories struct {
	Users   UserRepository
	People  PersonRepository
	Entries EntryRepository
}
