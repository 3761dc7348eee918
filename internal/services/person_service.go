package services

import (
	"context"
	"errors"
	"strings"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/repository"
)

// personService handles person-related business logic.
type personService struct {
	people  repository.PersonRepository
	entries repository.EntryRepository
}

// NewPersonService creates a new PersonServicer.
func NewPersonService(people repository.PersonRepository, entries repository.EntryRepository) PersonServicer {
	return &personService{people: people, entries: entries}
}

// List returns the user's people ordered by name.
func (s *personService) List(ctx context.Context, userID string) ([]models.Person, error) {
	people, err := s.people.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return people, nil
}

// Create adds a person. Names are unique per user ignoring case and
// surrounding whitespace.
func (s *personService) Create(ctx context.Context, userID, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrBlankName
	}

	if _, err := s.people.FindByName(ctx, name, userID); err == nil {
		return nil, apperrors.ErrDuplicatePerson
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	person := &models.Person{Name: name, UserID: userID}
	if err := s.people.Create(ctx, person); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return person, nil
}

// Delete removes a person the user owns, refusing while entries still
// reference it.
func (s *personService) Delete(ctx context.Context, userID, personID string) error {
	person, err := s.people.FindByID(ctx, personID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && person.UserID != userID) {
		return apperrors.ErrPersonNotFound
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dependents, err := s.entries.FindByPersonID(ctx, personID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(dependents) > 0 {
		return apperrors.ErrPersonHasEntries
	}

	deleted, err := s.people.Delete(ctx, personID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !deleted {
		return apperrors.ErrPersonNotFound
	}
	return nil
}
