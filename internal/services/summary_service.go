package services

import (
	"context"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/repository"
	"fintrack/internal/summary"
)

// summaryService computes monthly reports from the user's entries.
type summaryService struct {
	entries repository.EntryRepository
	people  repository.PersonRepository
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(entries repository.EntryRepository, people repository.PersonRepository) SummaryServicer {
	return &summaryService{entries: entries, people: people}
}

// Monthly totals the user's entries dated within year/month.
func (s *summaryService) Monthly(ctx context.Context, userID string, year int, month time.Month) (*summary.Summary, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, apperrors.ErrInvalidSummaryArg
	}

	entries, err := s.entries.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	people, err := s.people.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := summary.Monthly(entries, people, year, month)
	return &result, nil
}
