package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/apperror"
	"github.com/nvaldez/bookshelf/internal/models"
	"github.com/nvaldez/bookshelf/internal/store"
	"github.com/nvaldez/bookshelf/internal/utils"
)

// BookStore is the slice of the persistence layer the book routes need.
type BookStore interface {
	ListBooksByOwner(ctx context.Context, ownerID int64) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	InsertBook(ctx context.Context, b *models.Book) error
	UpdateBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, id int64) error
}

type BookHandler struct {
	store BookStore
	log   *zap.Logger
}

func NewBookHandler(store BookStore, log *zap.Logger) *BookHandler {
	return &BookHandler{store: store, log: log}
}

// ownerID pulls the authenticated user id out of the request context.
func ownerID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(utils.CtxUserIDKey).(int64)
	return id, ok
}

// List handles GET /api/libros. The owner filter always comes from the
// verified token, never from the request.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		writeError(w, h.log, apperror.NewUnauthorized("not authorized"))
		return
	}

	books, err := h.store.ListBooksByOwner(r.Context(), uid)
	if err != nil {
		writeError(w, h.log, apperror.NewStore(err))
		return
	}

	utils.JSON(w, http.StatusOK, books)
}

type createBookReq struct {
	Title    string  `json:"title"`
	Opinion  string  `json:"opinion"`
	Theme    string  `json:"theme"`
	Progress string  `json:"progress"`
	Rating   float64 `json:"rating"`
}

// Create handles POST /api/libros.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		writeError(w, h.log, apperror.NewUnauthorized("not authorized"))
		return
	}

	var req createBookReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		writeError(w, h.log, apperror.NewValidation("title is required"))
		return
	}

	book := models.Book{
		UserID:   uid,
		Title:    req.Title,
		Opinion:  req.Opinion,
		Theme:    req.Theme,
		Progress: req.Progress,
		Rating:   req.Rating,
	}

	if err := h.store.InsertBook(r.Context(), &book); err != nil {
		writeError(w, h.log, apperror.NewStore(err))
		return
	}

	utils.JSON(w, http.StatusCreated, book)
}

type updateBookReq struct {
	Title    *string  `json:"title"`
	Opinion  *string  `json:"opinion"`
	Theme    *string  `json:"theme"`
	Progress *string  `json:"progress"`
	Rating   *float64 `json:"rating"`
}

func (u updateBookReq) empty() bool {
	return u.Title == nil && u.Opinion == nil && u.Theme == nil &&
		u.Progress == nil && u.Rating == nil
}

// Update handles PUT /api/libros/{id}. Only the supplied fields change, and
// only the owner may change them.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		writeError(w, h.log, apperror.NewUnauthorized("not authorized"))
		return
	}

	id, err := bookID(r)
	if err != nil {
		writeError(w, h.log, apperror.NewValidation("invalid book id"))
		return
	}

	var req updateBookReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if req.empty() {
		writeError(w, h.log, apperror.NewValidation("no fields to update"))
		return
	}

	book, err := h.fetchOwned(r.Context(), id, uid)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Opinion != nil {
		book.Opinion = *req.Opinion
	}
	if req.Theme != nil {
		book.Theme = *req.Theme
	}
	if req.Progress != nil {
		book.Progress = *req.Progress
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	book.UpdatedAt = time.Now()

	if err := h.store.UpdateBook(r.Context(), book); err != nil {
		writeError(w, h.log, apperror.NewStore(err))
		return
	}

	utils.JSON(w, http.StatusOK, book)
}

// Delete handles DELETE /api/libros/{id}. Only the owner may delete.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		writeError(w, h.log, apperror.NewUnauthorized("not authorized"))
		return
	}

	id, err := bookID(r)
	if err != nil {
		writeError(w, h.log, apperror.NewValidation("invalid book id"))
		return
	}

	if _, err := h.fetchOwned(r.Context(), id, uid); err != nil {
		writeError(w, h.log, err)
		return
	}

	if err := h.store.DeleteBook(r.Context(), id); err != nil {
		writeError(w, h.log, apperror.NewStore(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// fetchOwned loads a book and enforces the ownership rule: a missing book is
// not_found, somebody else's book is forbidden.
func (h *BookHandler) fetchOwned(ctx context.Context, id, uid int64) (*models.Book, error) {
	book, err := h.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewNotFound("book not found")
		}
		return nil, apperror.NewStore(err)
	}
	if book.UserID != uid {
		return nil, apperror.NewForbidden("book belongs to another user")
	}
	return book, nil
}

func bookID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
