package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/summary"
	"fintrack/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mocks ---

type mockAuthService struct {
	registerFn    func(name, email, password string) (*services.AuthResult, error)
	loginFn       func(email, password string) (*services.AuthResult, error)
	currentUserFn func(userID string) (*models.User, error)
}

func (m *mockAuthService) Register(_ context.Context, name, email, password string) (*services.AuthResult, error) {
	if m.registerFn != nil {
		return m.registerFn(name, email, password)
	}
	return &services.AuthResult{User: &models.User{}}, nil
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &services.AuthResult{User: &models.User{}}, nil
}

func (m *mockAuthService) CurrentUser(_ context.Context, userID string) (*models.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(userID)
	}
	return &models.User{}, nil
}

var _ services.AuthServicer = (*mockAuthService)(nil)

type mockPersonService struct {
	listFn   func(userID string) ([]models.Person, error)
	createFn func(userID, name string) (*models.Person, error)
	deleteFn func(userID, personID string) error
}

func (m *mockPersonService) List(_ context.Context, userID string) ([]models.Person, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.Person{}, nil
}

func (m *mockPersonService) Create(_ context.Context, userID, name string) (*models.Person, error) {
	if m.createFn != nil {
		return m.createFn(userID, name)
	}
	return &models.Person{}, nil
}

func (m *mockPersonService) Delete(_ context.Context, userID, personID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, personID)
	}
	return nil
}

var _ services.PersonServicer = (*mockPersonService)(nil)

type mockEntryService struct {
	listFn   func(userID string) ([]models.EntryWithPerson, error)
	createFn func(userID string, input services.EntryInput) (*models.EntryWithPerson, error)
	updateFn func(userID, entryID string, input services.EntryInput) (*models.EntryWithPerson, error)
	deleteFn func(userID, entryID string) error
}

func (m *mockEntryService) List(_ context.Context, userID string) ([]models.EntryWithPerson, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return []models.EntryWithPerson{}, nil
}

func (m *mockEntryService) Create(_ context.Context, userID string, input services.EntryInput) (*models.EntryWithPerson, error) {
	if m.createFn != nil {
		return m.createFn(userID, input)
	}
	return &models.EntryWithPerson{}, nil
}

func (m *mockEntryService) Update(_ context.Context, userID, entryID string, input services.EntryInput) (*models.EntryWithPerson, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, entryID, input)
	}
	return &models.EntryWithPerson{}, nil
}

func (m *mockEntryService) Delete(_ context.Context, userID, entryID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, entryID)
	}
	return nil
}

var _ services.EntryServicer = (*mockEntryService)(nil)

type mockSummaryService struct {
	monthlyFn func(userID string, year int, month time.Month) (*summary.Summary, error)
}

func (m *mockSummaryService) Monthly(_ context.Context, userID string, year int, month time.Month) (*summary.Summary, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(userID, year, month)
	}
	return &summary.Summary{Year: year, Month: int(month)}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

// --- helpers ---

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doAuthRequest(r, method, path, body, "")
}

func doAuthRequest(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
