package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/storage"
)

type LotProvider interface {
	GetLot(ctx context.Context, lotNumber string) (*storage.Lot, error)
	GetLots(ctx context.Context) ([]storage.Lot, error)
}

type LotResponse struct {
	*storage.Lot
	TotalPieces int `json:"total_pieces"`
}

func GetLot(log *slog.Logger, lots LotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lot.get.GetLot"

		lotNumber := chi.URLParam(r, "lotNumber")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		lot, err := lots.GetLot(ctx, lotNumber)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, LotResponse{Lot: lot, TotalPieces: lot.TotalPieces()})
	}
}

func GetLots(log *slog.Logger, lots LotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lot.get.GetLots"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := lots.GetLots(ctx)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
