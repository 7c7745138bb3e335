// Package handlers contains the chi HTTP handlers. Handlers decode requests,
// call the service or store, and map errors to responses through writeError —
// the only place an error becomes a status code.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/apperror"
	"github.com/nvaldez/bookshelf/internal/utils"
)

type Handler struct {
	Auth  *AuthHandler
	Books *BookHandler
}

func NewHandler(svc AuthService, users UserLister, books BookStore, log *zap.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(svc, users, log),
		Books: NewBookHandler(books, log),
	}
}

// writeError maps any error to a response via the apperror taxonomy.
// Expected outcomes keep their specific message; operational failures are
// logged with detail and answered with a generic body.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	appErr := apperror.From(err)
	if appErr.Expected() {
		log.Debug("request rejected", zap.String("type", appErr.Type), zap.String("message", appErr.Message))
	} else {
		log.Error("request failed", zap.String("type", appErr.Type), zap.Error(errors.Unwrap(appErr)))
	}
	utils.JSONError(w, appErr.Code, appErr.Message)
}
