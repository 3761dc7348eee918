package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/testutil"
)

type stubTokens struct {
	err error
}

func (s stubTokens) Generate(user *models.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + user.ID, nil
}

func newTestAuthService(repos repository.Repositories, tokens TokenIssuer) AuthServicer {
	return &authService{users: repos.Users, tokens: tokens, cost: bcrypt.MinCost}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		res, err := svc.Register(ctx, "Ana", "  Ana@X.com ", "secret1")
		testutil.AssertNoError(t, err)

		if res.User.ID == "" {
			t.Fatal("expected user id")
		}
		if res.User.Email != "ana@x.com" {
			t.Errorf("expected normalized email, got %s", res.User.Email)
		}
		if res.User.Password == "secret1" {
			t.Error("expected password to be hashed")
		}
		if res.Token != "token-"+res.User.ID {
			t.Errorf("unexpected token %q", res.Token)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		_, err := svc.Register(ctx, "  ", "ana@x.com", "secret1")
		testutil.AssertAppError(t, err, "MISSING_FIELDS")
		_, err = svc.Register(ctx, "Ana", "", "secret1")
		testutil.AssertAppError(t, err, "MISSING_FIELDS")
		_, err = svc.Register(ctx, "Ana", "ana@x.com", "")
		testutil.AssertAppError(t, err, "MISSING_FIELDS")
	})

	t.Run("email_in_use_case_insensitive", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
		testutil.AssertNoError(t, err)

		_, err = svc.Register(ctx, "Other", "ANA@x.com", "secret2")
		testutil.AssertAppError(t, err, "EMAIL_IN_USE")
	})

	t.Run("token_failure", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{err: errors.New("boom")})

		_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})
		user := testutil.CreateTestUserWithEmail(t, repos, "bob@x.com")

		res, err := svc.Login(ctx, "BOB@x.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if res.User.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, res.User.ID)
		}
		if res.Token == "" {
			t.Error("expected token")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})
		testutil.CreateTestUserWithEmail(t, repos, "bob@x.com")

		_, err := svc.Login(ctx, "bob@x.com", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		_, err := svc.Login(ctx, "ghost@x.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("missing_fields", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		_, err := svc.Login(ctx, "bob@x.com", "")
		testutil.AssertAppError(t, err, "MISSING_FIELDS")
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})
		user := testutil.CreateTestUser(t, repos)

		got, err := svc.CurrentUser(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if got.Email != user.Email {
			t.Errorf("expected %s, got %s", user.Email, got.Email)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		repos := testutil.SetupTestRepos(t)
		svc := newTestAuthService(repos, stubTokens{})

		_, err := svc.CurrentUser(ctx, "missing")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}
