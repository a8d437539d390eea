package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

type WorkItemProvider interface {
	GetWorkItems(ctx context.Context, filter storage.WorkItemFilter) ([]storage.WorkItem, error)
}

// GetWorkItems lists work items filtered by ?lot=, ?operator= and ?status=.
func GetWorkItems(log *slog.Logger, items WorkItemProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work_items.get.GetWorkItems"

		q := r.URL.Query()
		filter := storage.WorkItemFilter{
			LotNumber: q.Get("lot"),
			Status:    q.Get("status"),
		}

		if filter.Status != "" {
			if !constants.WorkStatuses[filter.Status] {
				response.BadRequest(w, r, "unknown status "+filter.Status)
				return
			}
		}

		if s := q.Get("operator"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				response.BadRequest(w, r, "invalid operator id")
				return
			}
			filter.OperatorID = &id
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := items.GetWorkItems(ctx, filter)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
