package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/me", injectUserID("u1"), handler.Me)
	r.GET("/auth/anon", handler.Me)
	return r
}

func testUser() *models.User {
	return &models.User{
		Base:     models.Base{ID: "u1", CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		Name:     "Ana",
		Email:    "ana@x.com",
		Password: "$2a$10$hash",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with user and token", func(t *testing.T) {
		svc := &mockAuthService{
			registerFn: func(name, email, password string) (*services.AuthResult, error) {
				if name != "Ana" || email != "ana@x.com" || password != "secret1" {
					t.Errorf("unexpected args %q %q %q", name, email, password)
				}
				return &services.AuthResult{User: testUser(), Token: "tok"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Ana","email":"ana@x.com","password":"secret1"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] != "tok" {
			t.Errorf("expected token, got %v", result["token"])
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "ana@x.com" || user["name"] != "Ana" {
			t.Errorf("unexpected user %v", user)
		}
		if _, ok := user["password"]; ok || strings.Contains(rec.Body.String(), "hash") {
			t.Error("password hash must not be serialized")
		}
	})

	t.Run("returns 400 on missing fields", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		for _, body := range []string{
			`{"email":"ana@x.com","password":"secret1"}`,
			`{"name":"   ","email":"ana@x.com","password":"secret1"}`,
			`{"name":"Ana","email":"ana@x.com"}`,
		} {
			rec := doRequest(r, http.MethodPost, "/auth/register", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for %s, got %d", body, rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "MISSING_FIELDS")
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when email in use", func(t *testing.T) {
		svc := &mockAuthService{
			registerFn: func(_, _, _ string) (*services.AuthResult, error) {
				return nil, apperrors.ErrEmailInUse
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Ana","email":"ana@x.com","password":"secret1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EMAIL_IN_USE")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		svc := &mockAuthService{
			loginFn: func(email, password string) (*services.AuthResult, error) {
				return &services.AuthResult{User: testUser(), Token: "tok"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@x.com","password":"secret1"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["token"] != "tok" {
			t.Error("expected token in response")
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		svc := &mockAuthService{
			loginFn: func(_, _ string) (*services.AuthResult, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@x.com","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@x.com"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "MISSING_FIELDS")
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns current user", func(t *testing.T) {
		svc := &mockAuthService{
			currentUserFn: func(userID string) (*models.User, error) {
				if userID != "u1" {
					t.Errorf("expected u1, got %s", userID)
				}
				return testUser(), nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc))

		rec := doRequest(r, http.MethodGet, "/auth/me", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != "u1" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 401 without user in context", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockAuthService{}))

		rec := doRequest(r, http.MethodGet, "/auth/anon", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}
