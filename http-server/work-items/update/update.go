package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"garment-erp/http-server/response"
	"garment-erp/internal/constants"
	"garment-erp/internal/storage"
)

var validate = validator.New()

type WorkItemAssigner interface {
	AssignWorkItem(ctx context.Context, id string, operatorID int64) error
}

type WorkItemStarter interface {
	UpdateWorkItemStatus(ctx context.Context, id, status string, at time.Time) error
}

type WorkItemCompleter interface {
	CompleteWorkItem(ctx context.Context, id string) ([]string, error)
}

type StatusResponse struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Released []string `json:"released,omitempty"`
}

func AssignWorkItem(log *slog.Logger, assigner WorkItemAssigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work_items.update.AssignWorkItem"

		id := chi.URLParam(r, "id")

		var req storage.Assignment
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			response.BadRequest(w, r, "invalid JSON")
			return
		}
		req.WorkItemID = id
		if err := validate.Struct(req); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := assigner.AssignWorkItem(ctx, id, req.OperatorID); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		log.Info("work item assigned", slog.String("id", id), slog.Int64("operator_id", req.OperatorID))

		render.JSON(w, r, StatusResponse{ID: id, Status: constants.WorkAssigned})
	}
}

func StartWorkItem(log *slog.Logger, starter WorkItemStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work_items.update.StartWorkItem"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := starter.UpdateWorkItemStatus(ctx, id, constants.WorkInProgress, time.Now()); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, StatusResponse{ID: id, Status: constants.WorkInProgress})
	}
}

// CompleteWorkItem completes a work item and reports which work items of the
// same bundle became ready.
func CompleteWorkItem(log *slog.Logger, completer WorkItemCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.work_items.update.CompleteWorkItem"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		released, err := completer.CompleteWorkItem(ctx, id)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		log.Info("work item completed", slog.String("id", id), slog.Int("released", len(released)))

		render.JSON(w, r, StatusResponse{ID: id, Status: constants.WorkCompleted, Released: released})
	}
}
