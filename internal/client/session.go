package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/models"
)

// OfflineTokenPrefix marks tokens minted locally for offline users. The
// server rejects them.
const OfflineTokenPrefix = "offline_token_"

// OfflineUser is a built-in account usable while the server is unreachable.
type OfflineUser struct {
	models.Profile
	Password string
}

// DefaultOfflineUsers are the demo accounts available offline.
var DefaultOfflineUsers = []OfflineUser{
	{Profile: models.Profile{ID: "1", Name: "Admin", Email: "admin@exemplo.com"}, Password: "admin123"},
	{Profile: models.Profile{ID: "2", Name: "User", Email: "user@exemplo.com"}, Password: "user123"},
	{Profile: models.Profile{ID: "3", Name: "Teste", Email: "teste@teste.com"}, Password: "123456"},
}

// Session is an authenticated user with its bearer token.
type Session struct {
	User  models.Profile `json:"user"`
	Token string         `json:"token"`
}

// Login authenticates against the server. When the server is unreachable
// the credentials are checked against the offline users instead.
func (g *Gateway) Login(ctx context.Context, email, password string) Result[Session] {
	body := map[string]string{"email": email, "password": password}
	return g.authenticate(ctx, "/auth/login", body, email, password)
}

// Register creates an account on the server. Offline it behaves like Login.
func (g *Gateway) Register(ctx context.Context, name, email, password string) Result[Session] {
	body := map[string]string{"name": name, "email": email, "password": password}
	return g.authenticate(ctx, "/auth/register", body, email, password)
}

func (g *Gateway) authenticate(ctx context.Context, path string, body interface{}, email, password string) Result[Session] {
	var session Session
	unreachable, err := g.do(ctx, http.MethodPost, path, body, &session)
	if unreachable {
		return g.offlineLogin(email, password, err)
	}
	if err != nil {
		return Err[Session](err)
	}
	if err := g.saveSession(session); err != nil {
		return Err[Session](err)
	}
	return OK(session)
}

func (g *Gateway) offlineLogin(email, password string, cause error) Result[Session] {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range g.offlineUsers {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			session := Session{User: u.Profile, Token: OfflineTokenPrefix + u.ID}
			if err := g.saveSession(session); err != nil {
				return Err[Session](err)
			}
			return Unreachable(session, cause)
		}
	}
	return Err[Session](ErrInvalidOfflineCredentials)
}

func (g *Gateway) saveSession(s Session) error {
	if err := g.cache.SetToken(s.Token); err != nil {
		return err
	}
	return g.cache.SetCurrentUser(&s.User)
}

// VerifyToken asks the server who the cached token belongs to.
func (g *Gateway) VerifyToken(ctx context.Context) Result[models.Profile] {
	var resp struct {
		User models.Profile `json:"user"`
	}
	unreachable, err := g.do(ctx, http.MethodGet, "/auth/me", nil, &resp)
	if unreachable {
		return Unreachable(models.Profile{}, err)
	}
	if err != nil {
		return Err[models.Profile](err)
	}
	return OK(resp.User)
}

// Restore resumes the cached session. An unreachable server keeps the
// cached user; a rejected token clears the session.
func (g *Gateway) Restore(ctx context.Context) Result[Session] {
	token, ok := g.cache.Token()
	user, hasUser := g.cache.CurrentUser()
	if !ok || !hasUser {
		return Err[Session](ErrNoSession)
	}

	res := g.VerifyToken(ctx)
	switch res.Kind() {
	case KindOK:
		session := Session{User: res.Data(), Token: token}
		if err := g.cache.SetCurrentUser(&session.User); err != nil {
			return Err[Session](err)
		}
		return OK(session)
	case KindUnreachable:
		return Unreachable(Session{User: *user, Token: token}, res.Cause())
	}

	var apiErr *APIError
	if errors.As(res.Error(), &apiErr) && apiErr.Status == http.StatusUnauthorized {
		_ = g.cache.SetToken("")
		_ = g.cache.SetCurrentUser(nil)
	}
	return Err[Session](res.Error())
}

// Logout forgets the session and the offline copies of the user's data.
func (g *Gateway) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cache.Clear()
}

// currentUserID is the owner stamped on records created offline.
func (g *Gateway) currentUserID() string {
	if u, ok := g.cache.CurrentUser(); ok {
		return u.ID
	}
	return "offline_user"
}
