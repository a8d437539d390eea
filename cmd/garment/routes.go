package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	generatebundles "garment-erp/http-server/bundles/generate"
	getbundles "garment-erp/http-server/bundles/get"
	generate_excel "garment-erp/http-server/generate-report/generate-excel"
	getlot "garment-erp/http-server/lot/get"
	savelot "garment-erp/http-server/lot/save"
	gettemplate "garment-erp/http-server/template/get"
	savetemplate "garment-erp/http-server/template/save"
	uptemplate "garment-erp/http-server/template/update"
	generateitems "garment-erp/http-server/work-items/generate"
	getitems "garment-erp/http-server/work-items/get"
	upitems "garment-erp/http-server/work-items/update"
	"garment-erp/http-server/workers/earnings"
	getWorkers "garment-erp/http-server/workers/get"
	saveWorkers "garment-erp/http-server/workers/save"
	"garment-erp/internal/config"
	"garment-erp/internal/middleware/auth"
	generate_excel2 "garment-erp/internal/service/generate-excel"
	"garment-erp/internal/service/labels"
	"garment-erp/internal/service/production"
	"garment-erp/internal/storage/mysql"
)

type Services struct {
	Production *production.Service
	Excel      *generate_excel2.GenerateExcelService
	Labels     *labels.Service
}

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, svc Services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// lots
	router.Post("/api/lots/preview", savelot.PreviewLot(log, svc.Production))
	router.Post("/api/lots", savelot.SaveLot(log, svc.Production))
	router.Get("/api/lots", getlot.GetLots(log, storage))
	router.Get("/api/lots/{lotNumber}", getlot.GetLot(log, storage))

	// bundles
	router.Post("/api/lots/{lotNumber}/bundles", generatebundles.GenerateBundles(log, svc.Production))
	router.Get("/api/lots/{lotNumber}/bundles", getbundles.GetBundles(log, storage))
	router.Get("/api/lots/{lotNumber}/bundles/labels", getbundles.GetBundleLabels(log, svc.Labels))

	// work items
	router.Post("/api/work-items/generate", generateitems.GenerateWorkItems(log, svc.Production))
	router.Get("/api/work-items", getitems.GetWorkItems(log, storage))
	router.Post("/api/work-items/{id}/assign", upitems.AssignWorkItem(log, storage))
	router.Post("/api/work-items/{id}/start", upitems.StartWorkItem(log, storage))
	router.Post("/api/work-items/{id}/complete", upitems.CompleteWorkItem(log, svc.Production))

	router.Get("/api/templates", gettemplate.GetAllTemplates(log, storage))
	router.Get("/api/templates/{id}", gettemplate.GetTemplate(log, storage))

	router.Get("/api/operators", getWorkers.GetOperators(log, storage))
	router.Get("/api/operators/{id}/earnings", earnings.GetEarnings(log, svc.Production))

	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, svc.Excel))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/templates", savetemplate.SaveTemplate(log, storage))
	adminRouter.Put("/templates/{id}", uptemplate.UpdateTemplate(log, storage))
	adminRouter.Post("/operators", saveWorkers.SaveOperator(log, storage))

	router.Mount("/api/admin", adminRouter)

	if cfg.FrontendDir != "" {
		mountFrontend(router, log, cfg.FrontendDir)
	}

	return router
}

// mountFrontend serves the built SPA. Unknown paths fall back to index.html.
func mountFrontend(router *chi.Mux, log *slog.Logger, frontendDir string) {
	if _, err := os.Stat(frontendDir); err != nil {
		log.Warn("frontend directory not found, serving API only", slog.String("path", frontendDir))
		return
	}

	fileServer := http.FileServer(http.Dir(frontendDir))
	router.Handle("/assets/*", fileServer)

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})
}
