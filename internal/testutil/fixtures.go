package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of users created by CreateTestUser.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, repos repository.Repositories) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, repos, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, repos repository.Repositories, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
	}
	if err := repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPerson creates a uniquely named person owned by userID.
func CreateTestPerson(t *testing.T, repos repository.Repositories, userID string) *models.Person {
	t.Helper()
	return CreateTestPersonNamed(t, repos, userID, fmt.Sprintf("Person %d", nextID()))
}

// CreateTestPersonNamed creates a person with the given name.
func CreateTestPersonNamed(t *testing.T, repos repository.Repositories, userID, name string) *models.Person {
	t.Helper()

	person := &models.Person{Name: name, UserID: userID}
	if err := repos.People.Create(context.Background(), person); err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}
	return person
}

// CreateTestEntry creates an entry of the given type and value dated 2024-03-10.
func CreateTestEntry(t *testing.T, repos repository.Repositories, userID, personID string, entryType models.EntryType, value float64) *models.FinanceEntry {
	t.Helper()
	return CreateTestEntryOn(t, repos, userID, personID, entryType, value, "2024-03-10")
}

// CreateTestEntryOn creates an entry on the given date.
func CreateTestEntryOn(t *testing.T, repos repository.Repositories, userID, personID string, entryType models.EntryType, value float64, date string) *models.FinanceEntry {
	t.Helper()

	entry := &models.FinanceEntry{
		Type:        entryType,
		Person:      personID,
		Date:        date,
		Value:       value,
		Description: fmt.Sprintf("Test entry %d", nextID()),
		UserID:      userID,
	}
	if err := repos.Entries.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}
