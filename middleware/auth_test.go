package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelbooking/models"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
)

type fakeSessions map[string]*utils.AuthSession

func (f fakeSessions) Get(_ context.Context, hash string) (*utils.AuthSession, error) {
	if s, ok := f[hash]; ok {
		return s, nil
	}
	return nil, utils.ErrSessionNotFound
}

type brokenSessions struct{}

func (brokenSessions) Get(context.Context, string) (*utils.AuthSession, error) {
	return nil, errors.New("dial tcp: connection refused")
}

type fakeUsers map[string]models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func serve(t *testing.T, sessions SessionLookup, users UserLookup, token string, admin bool) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware(tokens, sessions, users)}
	if admin {
		handlers = append(handlers, AdminOnly())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserRole))
	})
	r.GET("/", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func issue(t *testing.T, id, role string) string {
	t.Helper()
	tok, _, err := utils.NewTokenManager("secret", time.Hour).GenerateToken(id, id+"@example.com", role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestJWTAuthWithoutSessionStore(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Role: models.RoleGuest}}

	if code, _ := serve(t, nil, users, "", false); code != http.StatusUnauthorized {
		t.Fatalf("missing header: %d", code)
	}
	if code, role := serve(t, nil, users, issue(t, "u1", models.RoleGuest), false); code != http.StatusOK || role != models.RoleGuest {
		t.Fatalf("valid token: %d %q", code, role)
	}
	// The stored role wins over the claim.
	if code, role := serve(t, nil, users, issue(t, "u1", models.RoleAdmin), true); code != http.StatusForbidden {
		t.Fatalf("forged admin claim: %d %q", code, role)
	}
	if code, _ := serve(t, nil, users, issue(t, "ghost", models.RoleGuest), false); code != http.StatusUnauthorized {
		t.Fatalf("deleted user: %d", code)
	}
}

func TestJWTAuthWithSessionStore(t *testing.T) {
	users := fakeUsers{"u1": {ID: "u1", Role: models.RoleAdmin}}
	live := issue(t, "u1", models.RoleAdmin)
	revoked := issue(t, "u1", models.RoleGuest)
	sessions := fakeSessions{utils.HashToken(live): {UserID: "u1", Role: models.RoleAdmin}}

	if code, _ := serve(t, sessions, users, live, true); code != http.StatusOK {
		t.Fatalf("live session: %d", code)
	}
	if code, _ := serve(t, sessions, users, revoked, false); code != http.StatusUnauthorized {
		t.Fatalf("revoked session: %d", code)
	}
	if code, _ := serve(t, brokenSessions{}, users, revoked, true); code != http.StatusOK {
		t.Fatalf("cache outage should fall back to user lookup: %d", code)
	}
}
