package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/http-server/template/save"
	"garment-erp/internal/storage"
)

type TemplateUpdateProvider interface {
	UpdateTemplate(ctx context.Context, id string, t storage.Template) error
}

func UpdateTemplate(log *slog.Logger, temp TemplateUpdateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.UpdateTemplate"

		id := chi.URLParam(r, "id")

		t, ok := save.DecodeTemplate(w, r, log, op)
		if !ok {
			return
		}
		if t.ID != id {
			response.BadRequest(w, r, "template id in body does not match the path")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := temp.UpdateTemplate(ctx, id, t); err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
