package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/0xarg/openscope/internal/auth"
	"github.com/0xarg/openscope/internal/domain"
	"github.com/google/uuid"
)

// =============================================================================
// Mock UserService Implementation
// =============================================================================

// mockUserService implements the service.UserService interface for testing.
type mockUserService struct {
	GetBySessionTokenFunc func(ctx context.Context, token string) (*domain.User, error)
	LogoutFunc            func(ctx context.Context, token string) error
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	if m.GetBySessionTokenFunc != nil {
		return m.GetBySessionTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) UpdateProfile(ctx context.Context, params domain.ProfileUpdateParams) error {
	return errors.New("not implemented")
}

func (m *mockUserService) DeleteExpiredSessions(ctx context.Context) error {
	return errors.New("not implemented")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// =============================================================================
// WithUser Tests
// =============================================================================

func TestWithUser_NoCookie(t *testing.T) {
	mw := NewAuthMiddleware(&mockUserService{}, testLogger(), false)

	var gotUser *domain.User
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotUser != nil {
		t.Error("expected no user in context without a cookie")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestWithUser_ValidSession(t *testing.T) {
	want := &domain.User{ID: uuid.New(), Email: "dev@example.com"}
	svc := &mockUserService{
		GetBySessionTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			if token != "valid-token" {
				t.Errorf("unexpected token %q", token)
			}
			return want, nil
		},
	}
	mw := NewAuthMiddleware(svc, testLogger(), false)

	var gotUser *domain.User
	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotUser == nil || gotUser.ID != want.ID {
		t.Error("expected user in context for valid session")
	}
}

func TestWithUser_InvalidSessionClearsCookie(t *testing.T) {
	svc := &mockUserService{
		GetBySessionTokenFunc: func(ctx context.Context, token string) (*domain.User, error) {
			return nil, domain.Unauthorized("", "Invalid or expired session")
		},
	}
	mw := NewAuthMiddleware(svc, testLogger(), false)

	handler := mw.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) != nil {
			t.Error("expected no user for invalid session")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected invalid session cookie to be cleared")
	}
}

// =============================================================================
// RequireUser Tests
// =============================================================================

func TestRequireUser_Unauthenticated(t *testing.T) {
	mw := NewAuthMiddleware(&mockUserService{}, testLogger(), false)

	called := false
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not run without a user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), domain.EUNAUTHORIZED) {
		t.Errorf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestRequireUser_Authenticated(t *testing.T) {
	mw := NewAuthMiddleware(&mockUserService{}, testLogger(), false)

	called := false
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	user := &domain.User{ID: uuid.New()}
	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req = req.WithContext(auth.SetUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler should run for an authenticated user")
	}
}

// =============================================================================
// Cookie Tests
// =============================================================================

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "some-token", true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != SessionCookieName {
		t.Errorf("expected cookie name %q, got %q", SessionCookieName, c.Name)
	}
	if c.Value != "some-token" {
		t.Errorf("expected token value, got %q", c.Value)
	}
	if !c.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if !c.Secure {
		t.Error("expected Secure cookie when isSecure=true")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Error("expected SameSite=Lax")
	}
}

// =============================================================================
// Stack Tests
// =============================================================================

func TestStack_Order(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	stack := Stack(mk("outer"), mk("middle"), mk("inner"))
	handler := stack(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	want := []string{"outer", "middle", "inner", "handler"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}
