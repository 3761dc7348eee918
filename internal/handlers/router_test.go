package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/middleware"
	"fintrack/internal/repository"
	"fintrack/internal/services"
	"fintrack/internal/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, repository.Repositories) {
	t.Helper()
	repos := testutil.SetupTestRepos(t)
	tokens := middleware.NewTokenManager("test-secret", time.Hour)
	router := NewRouter(RouterDeps{
		Auth:       services.NewAuthService(repos.Users, tokens),
		People:     services.NewPersonService(repos.People, repos.Entries),
		Entries:    services.NewEntryService(repos.Entries, repos.People),
		Summary:    services.NewSummaryService(repos.Entries, repos.People),
		Tokens:     tokens,
		CORSOrigin: "http://localhost:3000",
	})
	return router, repos
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	rec := doRequest(r, http.MethodPost, "/auth/register",
		`{"name":"Ana","email":"ana@x.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, http.MethodPost, "/auth/login", `{"email":"ana@x.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := parseJSON(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("login: expected token")
	}
	return token
}

func createBruno(t *testing.T, r *gin.Engine, token string) string {
	t.Helper()
	rec := doAuthRequest(r, http.MethodPost, "/people", `{"name":"Bruno"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create person: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["person"].(map[string]interface{})["id"].(string)
}

func TestAPI_EntryLifecycle(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerAndLogin(t, r)
	brunoID := createBruno(t, r, token)

	body := fmt.Sprintf(`{"type":"variable-expense","person":%q,"date":"2024-03-10","value":42.50,"description":"lunch"}`, brunoID)
	rec := doAuthRequest(r, http.MethodPost, "/entries", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create entry: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doAuthRequest(r, http.MethodGet, "/entries", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list entries: expected 200, got %d", rec.Code)
	}
	entries := parseJSONArray(t, rec)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0]["value"] != 42.5 {
		t.Errorf("expected value 42.50, got %v", entries[0]["value"])
	}
	ref, _ := entries[0]["personRef"].(map[string]interface{})
	if ref == nil || ref["name"] != "Bruno" {
		t.Errorf("expected personRef.name Bruno, got %v", entries[0]["personRef"])
	}

	rec = doAuthRequest(r, http.MethodDelete, "/people/"+brunoID, "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete referenced person: expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "PERSON_HAS_ENTRIES")

	rec = doAuthRequest(r, http.MethodGet, "/entries/summary?year=2024&month=3", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rec.Code)
	}
	if got := parseJSON(t, rec)["expenses"]; got != 42.5 {
		t.Errorf("expected expenses 42.5, got %v", got)
	}
}

func TestAPI_ZeroValueRejected(t *testing.T) {
	r, repos := setupTestRouter(t)
	token := registerAndLogin(t, r)
	brunoID := createBruno(t, r, token)

	body := fmt.Sprintf(`{"type":"income","person":%q,"date":"2024-03-10","value":0,"description":"nothing"}`, brunoID)
	rec := doAuthRequest(r, http.MethodPost, "/entries", body, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	user, err := repos.Users.FindByEmail(context.Background(), "ana@x.com")
	testutil.AssertNoError(t, err)
	entries, err := repos.Entries.FindByUserID(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if len(entries) != 0 {
		t.Errorf("expected no entry persisted, got %d", len(entries))
	}
}

func TestAPI_OwnerIsolation(t *testing.T) {
	r, _ := setupTestRouter(t)
	anaToken := registerAndLogin(t, r)
	brunoID := createBruno(t, r, anaToken)

	rec := doRequest(r, http.MethodPost, "/auth/register", `{"name":"Eve","email":"eve@x.com","password":"secret2"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register eve: %d", rec.Code)
	}
	eveToken := parseJSON(t, rec)["token"].(string)

	rec = doAuthRequest(r, http.MethodGet, "/people", "", eveToken)
	if people := parseJSONArray(t, rec); len(people) != 0 {
		t.Errorf("expected eve to see no people, got %v", people)
	}

	rec = doAuthRequest(r, http.MethodDelete, "/people/"+brunoID, "", eveToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's person, got %d", rec.Code)
	}
}

func TestAPI_AuthAndRouting(t *testing.T) {
	r, _ := setupTestRouter(t)

	t.Run("me with valid token", func(t *testing.T) {
		token := registerAndLogin(t, r)
		rec := doAuthRequest(r, http.MethodGet, "/auth/me", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["user"].(map[string]interface{})["email"] != "ana@x.com" {
			t.Error("expected current user")
		}
	})

	t.Run("me with bad token", func(t *testing.T) {
		rec := doAuthRequest(r, http.MethodGet, "/auth/me", "", "garbage")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/entries", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("health", func(t *testing.T) {
		for _, path := range []string{"/api/health", "/health"} {
			rec := doRequest(r, http.MethodGet, path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", path, rec.Code)
			}
			result := parseJSON(t, rec)
			if result["status"] != "ok" || result["timestamp"] == nil {
				t.Errorf("%s: unexpected body %v", path, result)
			}
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/nope", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ROUTE_NOT_FOUND")
	})

	t.Run("cors preflight", func(t *testing.T) {
		rec := doRequest(r, http.MethodOptions, "/people", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("expected configured origin")
		}
	})
}
