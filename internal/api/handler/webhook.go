package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/webhooking"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
)

// signatureHeader é o cabeçalho de assinatura enviado pelo Bling.
const signatureHeader = "X-Signature-256"

// ReceiveWebhook recebe eventos de pedido e estoque dos marketplaces.
// Falhas internas respondem 200 com success=false; apenas assinatura
// inválida (401) e payload malformado (400) são 4xx.
func ReceiveWebhook(service webhooking.Webhooker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.Integration(httprouter.ParamsFromContext(r.Context()).ByName("integration"))
		if !integration.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Integração desconhecida", nil)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMalformedPayload, "Erro ao ler o corpo da requisição", nil)
			return
		}
		defer r.Body.Close()

		result, err := service.Process(r.Context(), integration, body, r.Header.Get(signatureHeader))
		if err != nil {
			switch {
			case errors.Is(err, webhooking.ErrInvalidSignature):
				apiErrors.WriteError(w, apiErrors.ErrInvalidSignature, "Assinatura inválida", nil)
			case errors.Is(err, webhooking.ErrMalformedPayload):
				apiErrors.WriteError(w, apiErrors.ErrMalformedPayload, "Payload malformado", nil)
			default:
				logger.WithError(err).Error("webhook: unexpected processing error")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar webhook", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	})
}

// GetWebhookStatus expõe os contadores de recepção por integração para
// diagnóstico do painel.
func GetWebhookStatus(service webhooking.Webhooker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.IntegrationBling
		if raw := r.URL.Query().Get("integration"); raw != "" {
			integration = domain.Integration(raw)
			if !integration.Valid() {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Integração desconhecida", nil)
				return
			}
		}

		orderStatus, err := service.OrderStatus(integration)
		if err != nil {
			logger.WithError(err).Error("webhook: failed to load order status counters")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar status do webhook", nil)
			return
		}

		stockStatus, err := service.StockStatus(integration)
		if err != nil {
			logger.WithError(err).Error("webhook: failed to load stock status counters")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar status do webhook", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"orders": orderStatus,
			"stock":  stockStatus,
		})
	})
}
