package earnings

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/storage"
)

type EarningsProvider interface {
	OperatorEarnings(ctx context.Context, operatorID int64) (storage.Earnings, error)
}

func GetEarnings(log *slog.Logger, earnings EarningsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.earnings.GetEarnings"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id < 1 {
			response.BadRequest(w, r, "invalid operator id")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		e, err := earnings.OperatorEarnings(ctx, id)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, e)
	}
}
