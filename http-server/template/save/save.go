package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"garment-erp/http-server/response"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

var validate = validator.New()

type TemplateCreateProvider interface {
	CreateTemplate(ctx context.Context, t storage.Template) error
}

// DecodeTemplate reads, validates and normalises a template request body.
// It writes the error response itself and reports whether decoding succeeded.
func DecodeTemplate(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (storage.Template, bool) {
	var req storage.Template
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.BadRequest(w, r, "invalid JSON")
		return storage.Template{}, false
	}

	if err := validate.Struct(req); err != nil {
		response.Error(w, r, log, op, err)
		return storage.Template{}, false
	}

	t, err := pipeline.ValidateTemplate(req)
	if err != nil {
		response.Error(w, r, log, op, err)
		return storage.Template{}, false
	}

	return t, true
}

func SaveTemplate(log *slog.Logger, temp TemplateCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.SaveTemplate"

		t, ok := DecodeTemplate(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := temp.CreateTemplate(ctx, t); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		log.Info("template created", slog.String("id", t.ID), slog.Int("operations", len(t.Operations)))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"status": "created", "id": t.ID})
	}
}
