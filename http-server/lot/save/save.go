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
	"garment-erp/internal/service/production"
	"garment-erp/internal/storage"
)

var validate = validator.New()

type LotCreator interface {
	CreateLot(ctx context.Context, lot storage.Lot) (production.LotResult, error)
}

type LotPreviewer interface {
	PreviewLot(lot storage.Lot) (production.LotResult, error)
}

func decodeLot(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (storage.Lot, bool) {
	var lot storage.Lot
	if err := json.NewDecoder(r.Body).Decode(&lot); err != nil {
		log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.BadRequest(w, r, "invalid JSON")
		return storage.Lot{}, false
	}

	if err := validate.Struct(lot); err != nil {
		response.Error(w, r, log, op, err)
		return storage.Lot{}, false
	}

	return lot, true
}

func SaveLot(log *slog.Logger, creator LotCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lot.save.SaveLot"

		lot, ok := decodeLot(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := creator.CreateLot(ctx, lot)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		log.Info("lot saved",
			slog.String("lot_number", res.Lot.LotNumber),
			slog.Int("rolls", len(res.Lot.Rolls)),
			slog.Int("pieces", res.TotalPieces),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, res)
	}
}

// PreviewLot returns the normalised lot and its piece totals without saving.
func PreviewLot(log *slog.Logger, previewer LotPreviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lot.save.PreviewLot"

		lot, ok := decodeLot(w, r, log, op)
		if !ok {
			return
		}

		res, err := previewer.PreviewLot(lot)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
