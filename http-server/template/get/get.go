package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"garment-erp/http-server/response"
	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

type TemplateProvider interface {
	GetTemplate(ctx context.Context, id string) (*storage.Template, error)
	GetAllTemplates(ctx context.Context) ([]storage.Template, error)
}

type ResponseAllTemplates struct {
	Templates []storage.Template `json:"templates"`
}

func GetTemplate(log *slog.Logger, templates TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplate"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		template, err := templates.GetTemplate(ctx, id)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, template)
	}
}

// GetAllTemplates lists templates. ?article= keeps only templates that can be
// expanded for that article, ?active=true only active ones.
func GetAllTemplates(log *slog.Logger, templates TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetAllTemplates"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := templates.GetAllTemplates(ctx)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		article := r.URL.Query().Get("article")
		activeOnly := r.URL.Query().Get("active") == "true"

		filtered := make([]storage.Template, 0, len(list))
		for _, t := range list {
			if activeOnly && !t.IsActive {
				continue
			}
			if article != "" && !pipeline.IsTemplateApplicable(t, storage.Bundle{ArticleNumber: article}) {
				continue
			}
			filtered = append(filtered, t)
		}

		render.JSON(w, r, ResponseAllTemplates{Templates: filtered})
	}
}
