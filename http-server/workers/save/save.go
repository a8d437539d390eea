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
	"garment-erp/internal/constants"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

var validate = validator.New()

type OperatorSaver interface {
	SaveOperator(ctx context.Context, o storage.Operator) (int64, error)
}

func SaveOperator(log *slog.Logger, saver OperatorSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.save.SaveOperator"

		var req storage.Operator
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		if err := validate.Struct(req); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		if req.MachineType != "" && !constants.MachineTypes[req.MachineType] {
			response.BadRequest(w, r, "unknown machine type "+req.MachineType)
			return
		}

		level, ok := pipeline.NormalizeSkillLevel(req.SkillLevel)
		if !ok {
			response.BadRequest(w, r, "unknown skill level "+req.SkillLevel)
			return
		}
		req.SkillLevel = level

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveOperator(ctx, req)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}
		req.ID = id

		log.Info("operator saved", slog.Int64("id", id), slog.String("machine_type", req.MachineType))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, req)
	}
}
