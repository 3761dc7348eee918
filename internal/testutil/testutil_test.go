package testutil_test

import (
	"context"
	"testing"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "people", "entries"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	repos := testutil.SetupTestRepos(t)

	user := testutil.CreateTestUser(t, repos)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	person := testutil.CreateTestPerson(t, repos, user.ID)
	if person.UserID != user.ID {
		t.Errorf("expected person owned by %s, got %s", user.ID, person.UserID)
	}

	entry := testutil.CreateTestEntry(t, repos, user.ID, person.ID, models.EntryTypeIncome, 1000)
	if entry.Value != 1000 {
		t.Errorf("expected value 1000, got %f", entry.Value)
	}

	stored, err := repos.Entries.FindByID(context.Background(), entry.ID)
	testutil.AssertNoError(t, err)
	if stored.Person != person.ID {
		t.Errorf("expected stored entry to reference %s, got %s", person.ID, stored.Person)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrEntryNotFound, "custom message")
	testutil.AssertAppError(t, err, "ENTRY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
