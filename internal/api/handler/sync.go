package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/syncing"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

// GetSyncProgress é consumido por polling do painel durante uma
// sincronização. A resposta nunca deve ser cacheada.
func GetSyncProgress(service syncing.OrderSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		progress, err := service.Progress(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("sync: failed to load progress snapshot")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar progresso da sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		json.NewEncoder(w).Encode(map[string]any{
			"progress": progress,
		})
	})
}

func TriggerSmartSync(service syncing.OrderSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate, endDate, err := parseSyncRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
			return
		}

		summary, err := service.SmartSync(r.Context(), startDate, endDate)
		if err != nil {
			if errors.Is(err, syncing.ErrSyncAlreadyRunning) {
				apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já em andamento", nil)
				return
			}
			logger.WithError(err).Error("sync: smart sync failed")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro durante a sincronização", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	})
}

func TriggerFullSync(service syncing.OrderSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		startDate, endDate, err := parseSyncRange(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
			return
		}

		if startDate == nil || endDate == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Sincronização completa exige from e to", nil)
			return
		}

		summary, err := service.FullSync(r.Context(), *startDate, *endDate)
		if err != nil {
			switch {
			case errors.Is(err, syncing.ErrSyncAlreadyRunning):
				apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já em andamento", nil)
			case errors.Is(err, syncing.ErrMissingDateRange):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Sincronização completa exige from e to", nil)
			default:
				logger.WithError(err).Error("sync: full sync failed")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro durante a sincronização", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	})
}

func DeleteAllOrders(service syncing.OrderSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		deleted, err := service.DeleteAllOrders(r.Context())
		if err != nil {
			if errors.Is(err, syncing.ErrSyncAlreadyRunning) {
				apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização em andamento, tente novamente depois", nil)
				return
			}
			logger.WithError(err).Error("sync: failed to delete all orders")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao apagar pedidos", nil)
			return
		}

		logger.WithField("deleted", deleted).Warn("sync: all orders deleted")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{
			"deletedCount": deleted,
		})
	})
}

// parseSyncRange lê o período opcional from/to da query string.
func parseSyncRange(r *http.Request) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.Wrap(err, "parâmetro from inválido")
		}
		startDate = parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.Wrap(err, "parâmetro to inválido")
		}
		endDate = parsed
	}

	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, nil, errors.New("to não pode ser anterior a from")
	}

	return startDate, endDate, nil
}
