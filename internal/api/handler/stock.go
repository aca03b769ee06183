package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/stocking"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
)

func ListStock(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		snapshots, err := service.ListSnapshots(r.Context())
		if err != nil {
			logger.WithError(err).Error("stock: failed to list snapshots")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar saldos de estoque", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": snapshots,
			"total": len(snapshots),
		})
	})
}

func GetStock(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		snapshot, err := service.GetSnapshot(r.Context(), sku)
		if err != nil {
			if errors.Is(err, stocking.ErrSnapshotNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Saldo de estoque não encontrado", nil)
				return
			}
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to get snapshot")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao buscar saldo de estoque", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	})
}

// RefreshStock força a releitura do saldo de um SKU direto no Bling.
func RefreshStock(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		snapshot, err := service.RefreshSnapshot(r.Context(), sku)
		if err != nil {
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to refresh snapshot from Bling")
			apiErrors.WriteError(w, apiErrors.ErrUpstreamService, "Erro ao atualizar saldo a partir do Bling", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	})
}

type RecordMovementRequest struct {
	Type     domain.MovementType `json:"type"`
	Quantity float64             `json:"quantity"`
	Reason   string              `json:"reason"`
}

// RecordStockMovement lança uma movimentação no razão de estoque interno.
func RecordStockMovement(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		var req RecordMovementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		movement := &domain.InventoryMovement{
			SKU:      sku,
			Type:     req.Type,
			Quantity: req.Quantity,
			Reason:   req.Reason,
		}

		recorded, err := service.RecordMovement(r.Context(), movement)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Saldo insuficiente para a saída", nil)
				return
			}
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to record movement")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(recorded)
	})
}

func ListStockMovements(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro limit inválido", nil)
				return
			}
			limit = parsed
		}

		movements, err := service.ListMovements(r.Context(), sku, limit)
		if err != nil {
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to list movements")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar movimentações", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"items": movements,
			"total": len(movements),
		})
	})
}

func GetStockThreshold(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		threshold, err := service.GetThreshold(r.Context(), sku)
		if err != nil {
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to get threshold")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao buscar limites de estoque", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(threshold)
	})
}

func SaveStockThreshold(service stocking.Stocker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sku := httprouter.ParamsFromContext(r.Context()).ByName("sku")
		if sku == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "SKU não fornecido", nil)
			return
		}

		var threshold domain.StockThreshold
		if err := json.NewDecoder(r.Body).Decode(&threshold); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}
		threshold.SKU = sku

		if err := service.SaveThreshold(r.Context(), &threshold); err != nil {
			logger.WithError(err).WithField("sku", sku).Error("stock: failed to save threshold")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(threshold)
	})
}
