package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	appvalidator "fintrack/internal/validator"
)

// entryRules maps a failed validation tag to the error reported for it.
// Lower rank wins when several fields fail at once, so a request missing a
// field is reported as such even if another field is also malformed.
var entryRules = map[string]struct {
	rank int
	err  *apperrors.AppError
}{
	"required":   {0, apperrors.ErrMissingFields},
	"entry_type": {1, apperrors.ErrInvalidEntryType},
	"gt":         {2, apperrors.ErrInvalidValue},
	"notblank":   {3, apperrors.ErrBlankDescription},
	"iso_date":   {4, apperrors.ErrInvalidDate},
}

// entryService handles finance-entry business logic.
type entryService struct {
	entries  repository.EntryRepository
	people   repository.PersonRepository
	validate *validator.Validate
}

// NewEntryService creates a new EntryServicer.
func NewEntryService(entries repository.EntryRepository, people repository.PersonRepository) EntryServicer {
	return &entryService{entries: entries, people: people, validate: appvalidator.New()}
}

// List returns the user's entries, newest first, each with a reference to
// its person. The reference is nil when the person is gone.
func (s *entryService) List(ctx context.Context, userID string) ([]models.EntryWithPerson, error) {
	entries, err := s.entries.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	people, err := s.people.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	refs := make(map[string]*models.PersonRef, len(people))
	for i := range people {
		refs[people[i].ID] = people[i].Ref()
	}

	out := make([]models.EntryWithPerson, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.EntryWithPerson{FinanceEntry: e, PersonRef: refs[e.Person]})
	}
	return out, nil
}

// Create validates input and stores a new entry for the user.
func (s *entryService) Create(ctx context.Context, userID string, input EntryInput) (*models.EntryWithPerson, error) {
	date, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}
	person, err := s.ownedPerson(ctx, userID, input.Person)
	if err != nil {
		return nil, err
	}

	entry := &models.FinanceEntry{
		Type:        input.Type,
		Person:      person.ID,
		Date:        date,
		Value:       *input.Value,
		Description: strings.TrimSpace(input.Description),
		UserID:      userID,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.EntryWithPerson{FinanceEntry: *entry, PersonRef: person.Ref()}, nil
}

// Update replaces the writable fields of an entry the user owns. Ownership
// is checked before the payload so that foreign ids always look absent.
func (s *entryService) Update(ctx context.Context, userID, entryID string, input EntryInput) (*models.EntryWithPerson, error) {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return nil, err
	}
	date, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}
	person, err := s.ownedPerson(ctx, userID, input.Person)
	if err != nil {
		return nil, err
	}

	updated, err := s.entries.Update(ctx, entryID, repository.EntryUpdate{
		Type:        input.Type,
		Person:      person.ID,
		Date:        date,
		Value:       *input.Value,
		Description: strings.TrimSpace(input.Description),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.EntryWithPerson{FinanceEntry: *updated, PersonRef: person.Ref()}, nil
}

// Delete removes an entry the user owns.
func (s *entryService) Delete(ctx context.Context, userID, entryID string) error {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return err
	}
	deleted, err := s.entries.Delete(ctx, entryID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !deleted {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

// validateInput checks the payload and returns its normalized date.
func (s *entryService) validateInput(input EntryInput) (string, error) {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return "", apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
		return "", firstEntryError(verrs)
	}

	date, err := models.NormalizeDate(input.Date)
	if err != nil {
		return "", apperrors.ErrInvalidDate
	}
	return date, nil
}

func firstEntryError(verrs validator.ValidationErrors) error {
	best := apperrors.ErrInvalidInput
	bestRank := len(entryRules)
	for _, fe := range verrs {
		rule, ok := entryRules[fe.Tag()]
		if ok && rule.rank < bestRank {
			best, bestRank = rule.err, rule.rank
		}
	}
	return best
}

func (s *entryService) ownedEntry(ctx context.Context, userID, entryID string) (*models.FinanceEntry, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if entry.UserID != userID {
		return nil, apperrors.ErrEntryNotFound
	}
	return entry, nil
}

func (s *entryService) ownedPerson(ctx context.Context, userID, personID string) (*models.Person, error) {
	person, err := s.people.FindByID(ctx, personID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUnknownPerson
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if person.UserID != userID {
		return nil, apperrors.ErrUnknownPerson
	}
	return person, nil
}
