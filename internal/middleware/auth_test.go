package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

const testSecret = "test-secret"

type fakeUsers struct {
	ensured []*model.User
	err     error
}

func (f *fakeUsers) ByID(id string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) Ensure(user *model.User) error {
	if f.err != nil {
		return f.err
	}
	f.ensured = append(f.ensured, user)
	return nil
}

func (f *fakeUsers) Participants(p principal.Principal) ([]*model.User, error) {
	return nil, nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// capturePrincipal records the principal the middleware attached.
func capturePrincipal(dst **principal.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*dst = principal.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func runAuth(t *testing.T, users repository.UserRepository, authHeader string) *principal.Principal {
	t.Helper()

	var got *principal.Principal
	h := AuthMiddleware(testSecret, users)(capturePrincipal(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	users := &fakeUsers{}
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "ann", "email": "ann@example.com", "admin": false})

	p := runAuth(t, users, "Bearer "+token)
	require.NotNil(t, p)
	assert.Equal(t, "ann", p.ID)
	assert.False(t, p.Admin)

	require.Len(t, users.ensured, 1, "identity is mirrored locally")
	assert.Equal(t, "ann@example.com", users.ensured[0].Email)
}

func TestAuthMiddlewareNormalizesAdminClaim(t *testing.T) {
	for _, claim := range []any{true, "true", "1", float64(1)} {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "staff", "admin": claim})
		p := runAuth(t, &fakeUsers{}, "Bearer "+token)
		require.NotNil(t, p)
		assert.True(t, p.Admin, "claim %v (%T)", claim, claim)
	}
}

func TestAuthMiddlewareContinuesUnauthenticated(t *testing.T) {
	badSignature := signToken(t, "other-secret", jwt.MapClaims{"sub": "ann"})
	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "ann", "exp": time.Now().Add(-time.Hour).Unix()})
	noSubject := signToken(t, testSecret, jwt.MapClaims{"email": "ann@example.com"})

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not a bearer scheme", header: "Basic Zm9vOmJhcg=="},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "wrong signature", header: "Bearer " + badSignature},
		{name: "expired", header: "Bearer " + expired},
		{name: "missing subject", header: "Bearer " + noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, runAuth(t, &fakeUsers{}, tt.header))
		})
	}
}

func TestAuthMiddlewareMirrorFailure(t *testing.T) {
	users := &fakeUsers{err: assert.AnError}
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "ann"})

	assert.Nil(t, runAuth(t, users, "Bearer "+token), "request continues without a principal")
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(principal.NewContext(req.Context(), &principal.Principal{ID: "ann"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(principal.NewContext(req.Context(), &principal.Principal{ID: "ann"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(principal.NewContext(req.Context(), &principal.Principal{ID: "staff", Admin: true}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
