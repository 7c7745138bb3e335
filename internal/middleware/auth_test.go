package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/auth"
	"github.com/nvaldez/bookshelf/internal/utils"
)

func protected(t *testing.T, verifier TokenVerifier) (http.Handler, *int64, *string) {
	t.Helper()
	var gotUID int64
	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = r.Context().Value(utils.CtxUserIDKey).(int64)
		gotEmail, _ = r.Context().Value(utils.CtxEmailKey).(string)
		w.WriteHeader(http.StatusOK)
	})
	return Auth(verifier, zap.NewNop())(next), &gotUID, &gotEmail
}

func TestAuth_ValidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(42, "ana@x.com")
	require.NoError(t, err)

	h, uid, email := protected(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/api/libros", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), *uid)
	assert.Equal(t, "ana@x.com", *email)
}

func TestAuth_MissingHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h, _, _ := protected(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/api/libros", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	h, _, _ := protected(t, issuer)

	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/api/libros", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenIssuer("test-secret", -time.Minute)
	token, err := expired.Issue(42, "ana@x.com")
	require.NoError(t, err)

	h, _, _ := protected(t, auth.NewTokenIssuer("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/libros", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_TamperedToken(t *testing.T) {
	other := auth.NewTokenIssuer("other-secret", time.Hour)
	token, err := other.Issue(42, "ana@x.com")
	require.NoError(t, err)

	h, _, _ := protected(t, auth.NewTokenIssuer("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/libros", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
