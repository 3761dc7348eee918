package repository_test

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/testutil"
)

// backends runs fn against every repository implementation.
func backends(t *testing.T, fn func(t *testing.T, repos repository.Repositories)) {
	t.Run("json", func(t *testing.T) { fn(t, testutil.SetupTestRepos(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, testutil.SetupTestDBRepos(t)) })
}

func TestUsers(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Repositories) {
		ctx := context.Background()
		user := testutil.CreateTestUserWithEmail(t, repos, "ana@x.com")
		if user.ID == "" || user.CreatedAt.IsZero() {
			t.Fatalf("expected id and createdAt to be assigned, got %+v", user)
		}

		found, err := repos.Users.FindByEmail(ctx, "  ANA@x.com ")
		testutil.AssertNoError(t, err)
		if found.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, found.ID)
		}

		byID, err := repos.Users.FindByID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if byID.Password == "" {
			t.Error("expected password hash to be persisted")
		}

		if _, err := repos.Users.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPeople(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Repositories) {
		ctx := context.Background()
		user := testutil.CreateTestUser(t, repos)
		other := testutil.CreateTestUser(t, repos)

		testutil.CreateTestPersonNamed(t, repos, user.ID, "  carla ")
		bruno := testutil.CreateTestPersonNamed(t, repos, user.ID, "Bruno")
		testutil.CreateTestPersonNamed(t, repos, user.ID, "alice")
		testutil.CreateTestPersonNamed(t, repos, other.ID, "Bruno")

		people, err := repos.People.FindByUserID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(people) != 3 {
			t.Fatalf("expected 3 people, got %d", len(people))
		}
		want := []string{"alice", "Bruno", "carla"}
		for i, p := range people {
			if p.Name != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], p.Name)
			}
		}

		found, err := repos.People.FindByName(ctx, " bRuNo ", user.ID)
		testutil.AssertNoError(t, err)
		if found.ID != bruno.ID {
			t.Errorf("expected %s, got %s", bruno.ID, found.ID)
		}

		deleted, err := repos.People.Delete(ctx, bruno.ID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Error("expected delete to report true")
		}
		deleted, err = repos.People.Delete(ctx, bruno.ID)
		testutil.AssertNoError(t, err)
		if deleted {
			t.Error("expected second delete to report false")
		}
		if _, err := repos.People.FindByID(ctx, bruno.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEntries(t *testing.T) {
	backends(t, func(t *testing.T, repos repository.Repositories) {
		ctx := context.Background()
		user := testutil.CreateTestUser(t, repos)
		person := testutil.CreateTestPerson(t, repos, user.ID)
		other := testutil.CreateTestPerson(t, repos, user.ID)

		first := testutil.CreateTestEntry(t, repos, user.ID, person.ID, models.EntryTypeIncome, 100)
		second := testutil.CreateTestEntry(t, repos, user.ID, other.ID, models.EntryTypeFixedExpense, 40)

		entries, err := repos.Entries.FindByUserID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].ID != second.ID {
			t.Errorf("expected newest entry first")
		}

		byPerson, err := repos.Entries.FindByPersonID(ctx, person.ID)
		testutil.AssertNoError(t, err)
		if len(byPerson) != 1 || byPerson[0].ID != first.ID {
			t.Errorf("expected only the first entry for person, got %+v", byPerson)
		}

		updated, err := repos.Entries.Update(ctx, first.ID, repository.EntryUpdate{
			Value:       250.5,
			Description: "  salary ",
		})
		testutil.AssertNoError(t, err)
		if updated.Value != 250.5 || updated.Description != "salary" {
			t.Errorf("unexpected update result: %+v", updated)
		}
		if updated.Type != models.EntryTypeIncome || updated.Person != person.ID {
			t.Errorf("update must keep fields that were not provided: %+v", updated)
		}
		if updated.UpdatedAt == nil {
			t.Error("expected updatedAt to be set")
		}

		if _, err := repos.Entries.Update(ctx, "missing", repository.EntryUpdate{Value: 1}); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		deleted, err := repos.Entries.Delete(ctx, second.ID)
		testutil.AssertNoError(t, err)
		if !deleted {
			t.Error("expected delete to report true")
		}
		entries, _ = repos.Entries.FindByUserID(ctx, user.ID)
		if len(entries) != 1 {
			t.Errorf("expected 1 entry after delete, got %d", len(entries))
		}
	})
}
