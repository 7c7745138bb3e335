package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/auth"
	"github.com/nvaldez/bookshelf/internal/models"
	"github.com/nvaldez/bookshelf/internal/utils"
)

// AuthService is the slice of the auth core the HTTP layer needs.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// UserLister backs the public users listing.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

type AuthHandler struct {
	svc   AuthService
	users UserLister
	log   *zap.Logger
}

func NewAuthHandler(svc AuthService, users UserLister, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, users: users, log: log}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/registro.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	id, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"message": "user registered",
		"user": models.PublicUser{
			ID:    id,
			Name:  req.Name,
			Email: req.Email,
		},
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// ListUsers handles GET /api/usuarios, returning public projections only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}
