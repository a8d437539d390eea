package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"garment-erp/http-server/response"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, lotNumber string) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		lotNumber := r.URL.Query().Get("lot")
		if lotNumber == "" {
			response.BadRequest(w, r, "missing required query parameter 'lot'")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, lotNumber)
		if err != nil {
			response.Error(w, r, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Lot_%s_%s.xlsx", lotNumber, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
