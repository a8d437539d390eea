package generate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"garment-erp/http-server/response"
	"garment-erp/internal/service/production"
)

var validate = validator.New()

type Request struct {
	LotNumber  string `json:"lot_number" validate:"required"`
	TemplateID string `json:"template_id" validate:"required"`
}

type WorkItemGenerator interface {
	GenerateWorkItems(ctx context.Context, lotNumber, templateID string) (production.WorkItemResult, error)
}

// GenerateWorkItems expands the bundles of a lot with a template. When the
// template matches no bundle the response carries diagnostics instead of
// work items.
func GenerateWorkItems(log *slog.Logger, gen WorkItemGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work_items.generate.GenerateWorkItems"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			response.BadRequest(w, r, "invalid JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		res, err := gen.GenerateWorkItems(ctx, req.LotNumber, req.TemplateID)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		if len(res.WorkItems) > 0 {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, res)
	}
}
