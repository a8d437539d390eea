package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/storage"
)

type Operators interface {
	GetOperators(ctx context.Context, machineType string) ([]storage.Operator, error)
}

// GetOperators lists active operators, ?machine= narrows to one machine type.
func GetOperators(log *slog.Logger, operators Operators) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.get.GetOperators"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := operators.GetOperators(ctx, r.URL.Query().Get("machine"))
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
