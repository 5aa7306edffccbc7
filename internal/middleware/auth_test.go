package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/logger"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
)

func newTestAuth(t *testing.T) (*Auth, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuth(tokens, logger.New(8)), tokens
}

// echo handler used behind the middleware chain
func identityEcho(t *testing.T, want models.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, want, identity)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	mw, tokens := newTestAuth(t)

	token, err := tokens.Issue(models.Account{ID: 42, Role: models.RoleStudent})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Authenticate(identityEcho(t, models.Identity{ID: 42, Role: models.RoleStudent})).
		ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_Rejections(t *testing.T) {
	mw, _ := newTestAuth(t)

	expired := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, err := expired.Issue(models.Account{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	foreign := auth.NewTokenManager("other-secret", time.Hour)
	foreignToken, err := foreign.Issue(models.Account{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwdw=="},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expiredToken},
		{"foreign secret", "Bearer " + foreignToken},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"not authorized"}`, rec.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	mw, tokens := newTestAuth(t)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		role     models.Role
		required models.Role
		want     int
	}{
		{"exact match", models.RoleStudent, models.RoleStudent, http.StatusOK},
		{"lecturer on student gate", models.RoleLecturer, models.RoleStudent, http.StatusForbidden},
		// no hierarchy: admin does not pass a student-only gate
		{"admin on student gate", models.RoleAdmin, models.RoleStudent, http.StatusForbidden},
		{"student on admin gate", models.RoleStudent, models.RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.Issue(models.Account{ID: 1, Role: tt.role})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			mw.Authenticate(mw.RequireRole(tt.required)(ok)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	mw, _ := newTestAuth(t)

	// RequireRole without Authenticate in front: no identity in context
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	mw.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
