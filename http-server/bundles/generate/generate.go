package generate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/service/production"
)

type BundleGenerator interface {
	GenerateBundles(ctx context.Context, lotNumber string) (production.BundleResult, error)
}

// GenerateBundles converts a saved lot into bundles. A lot whose bundles
// already exist answers 409.
func GenerateBundles(log *slog.Logger, gen BundleGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bundles.generate.GenerateBundles"

		lotNumber := chi.URLParam(r, "lotNumber")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		res, err := gen.GenerateBundles(ctx, lotNumber)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		if len(res.Bundles) > 0 {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, res)
	}
}
