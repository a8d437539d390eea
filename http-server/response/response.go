package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"garment-erp/internal/service/labels"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/service/production"
	"garment-erp/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps domain errors to HTTP statuses.
func StatusFor(err error) int {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput), errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrLotNotFound),
		errors.Is(err, storage.ErrTemplateNotFound),
		errors.Is(err, storage.ErrWorkItemNotFound),
		errors.Is(err, storage.ErrOperatorNotFound),
		errors.Is(err, labels.ErrNoBundles):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrLotExists),
		errors.Is(err, storage.ErrRollExists),
		errors.Is(err, storage.ErrTemplateExists),
		errors.Is(err, storage.ErrInvalidTransition),
		errors.Is(err, production.ErrBundlesExist):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error logs err and writes it as JSON. Internal errors are not exposed.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: "internal server error"})
		return
	}

	log.Warn("request rejected", slog.String("op", op), slog.Int("status", status), slog.String("error", err.Error()))
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
