package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

type BundleProvider interface {
	GetBundlesByLot(ctx context.Context, lotNumber string) ([]storage.Bundle, error)
}

type LabelRenderer interface {
	BundleLabels(ctx context.Context, lotNumber string) ([]byte, error)
}

type BundlesResponse struct {
	LotNumber   string           `json:"lot_number"`
	Bundles     []storage.Bundle `json:"bundles"`
	TotalPieces int              `json:"total_pieces"`
}

func GetBundles(log *slog.Logger, bundles BundleProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bundles.get.GetBundles"

		lotNumber := chi.URLParam(r, "lotNumber")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := bundles.GetBundlesByLot(ctx, lotNumber)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, BundlesResponse{
			LotNumber:   lotNumber,
			Bundles:     list,
			TotalPieces: pipeline.TotalPieces(list),
		})
	}
}

// GetBundleLabels streams the printable bundle tickets of a lot as PDF.
func GetBundleLabels(log *slog.Logger, labels LabelRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bundles.get.GetBundleLabels"

		lotNumber := chi.URLParam(r, "lotNumber")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		pdf, err := labels.BundleLabels(ctx, lotNumber)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_bundles.pdf", lotNumber))
		w.Write(pdf)
	}
}
