package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/apperror"
	"github.com/nvaldez/bookshelf/internal/auth"
	"github.com/nvaldez/bookshelf/internal/models"
)

type mockAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (int64, error)
	loginFn    func(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (int64, error) {
	return m.registerFn(ctx, name, email, password)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	return m.loginFn(ctx, email, password)
}

type mockUserLister struct {
	listFn func(ctx context.Context) ([]models.PublicUser, error)
}

func (m *mockUserLister) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	return m.listFn(ctx)
}

func TestRegisterHandler_Created(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (int64, error) {
			return 7, nil
		},
	}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/registro",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"secret1"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string            `json:"message"`
		User    models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.User.ID)
	assert.Equal(t, "ana@x.com", body.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", apperror.NewValidation("name, email and password are required"), http.StatusBadRequest},
		{"conflict", apperror.NewConflict("user already exists"), http.StatusConflict},
		{"store failure", apperror.NewStore(assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{
				registerFn: func(ctx context.Context, name, email, password string) (int64, error) {
					return 0, tt.err
				},
			}, nil, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/registro",
				strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"x"}`))
			rec := httptest.NewRecorder()

			h.Register(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRegisterHandler_StoreErrorIsOpaque(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (int64, error) {
			return 0, apperror.NewStore(assert.AnError)
		},
	}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/registro",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"x"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	// The client only ever sees the generic message.
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestLoginHandler_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
			return &auth.LoginResult{
				Token: "signed-token",
				User:  models.PublicUser{ID: 9, Name: "Ana", Email: "ana@x.com"},
			}, nil
		},
	}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"ana@x.com","password":"secret1"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.Token)
	assert.Equal(t, int64(9), body.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLoginHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown email", apperror.NewNotFound("user does not exist"), http.StatusNotFound},
		{"wrong password", apperror.NewInvalidCredentials(), http.StatusUnauthorized},
		{"missing secret", apperror.NewConfiguration(assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (*auth.LoginResult, error) {
					return nil, tt.err
				},
			}, nil, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/login",
				strings.NewReader(`{"email":"ana@x.com","password":"x"}`))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsersHandler(t *testing.T) {
	h := NewAuthHandler(nil, &mockUserLister{
		listFn: func(ctx context.Context) ([]models.PublicUser, error) {
			return []models.PublicUser{{ID: 1, Name: "Ana", Email: "ana@x.com"}}, nil
		},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
	rec := httptest.NewRecorder()

	h.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}
