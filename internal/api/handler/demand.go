package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vpicolo/fabrica-manager-api/internal/usecases/demanding"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

// GetDemand calcula o relatório de demanda de produção para o período.
func GetDemand(service demanding.Demander) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate, err := utils.ParseDate(r.URL.Query().Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Parâmetro start_date inválido", nil)
			return
		}

		endDate, err := utils.ParseDate(r.URL.Query().Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Parâmetro end_date inválido", nil)
			return
		}

		// Sem período informado, considera os últimos 30 dias.
		if endDate.IsZero() {
			now := time.Now()
			endDate = &now
		}
		if startDate.IsZero() {
			start := endDate.AddDate(0, 0, -30)
			startDate = &start
		}

		if endDate.Before(*startDate) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "end_date não pode ser anterior a start_date", nil)
			return
		}

		rows, err := service.ComputeDemand(r.Context(), *startDate, *endDate)
		if err != nil {
			logger.WithError(err).Error("demand: failed to compute production demand")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao calcular demanda de produção", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"start_date": startDate.Format(time.DateOnly),
			"end_date":   endDate.Format(time.DateOnly),
			"items":      rows,
			"total":      len(rows),
		})
	})
}
