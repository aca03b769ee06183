package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/ordering"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

func ListOrders(service ordering.Orderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var startDate, endDate *time.Time

		if raw := r.URL.Query().Get("start_date"); raw != "" {
			parsed, err := utils.ParseDate(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Parâmetro start_date inválido", nil)
				return
			}
			startDate = parsed
		}

		if raw := r.URL.Query().Get("end_date"); raw != "" {
			parsed, err := utils.ParseDate(raw)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "Parâmetro end_date inválido", nil)
				return
			}
			endDate = parsed
		}

		orders, err := service.ListOrders(r.Context(), startDate, endDate)
		if err != nil {
			logger.WithError(err).Error("orders: failed to list orders")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao listar pedidos", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"orders": orders,
			"total":  len(orders),
		})
	})
}

func GetOrder(service ordering.Orderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
		orderID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID de pedido inválido", nil)
			return
		}

		order, err := service.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, ordering.ErrOrderNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrNotFound, "Pedido não encontrado", nil)
				return
			}
			logger.WithError(err).WithField("order_id", orderID).Error("orders: failed to get order")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao buscar pedido", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(order)
	})
}
