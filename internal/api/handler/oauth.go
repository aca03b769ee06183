package handler

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/oauth"
	"github.com/vpicolo/fabrica-manager-api/pkg/apiErrors"
	"github.com/vpicolo/fabrica-manager-api/pkg/log"
)

func GetAuthorizeURL(service oauth.Connector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.Integration(httprouter.ParamsFromContext(r.Context()).ByName("integration"))

		authorizeURL, err := service.AuthorizeURL(r.Context(), integration)
		if err != nil {
			if errors.Is(err, oauth.ErrUnknownIntegration) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Integração desconhecida", nil)
				return
			}
			logger.WithError(err).WithField("integration", integration).Error("oauth: failed to build authorize URL")
			apiErrors.WriteError(w, apiErrors.ErrIntegrationConfig, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"authorize_url": authorizeURL,
		})
	})
}

// OAuthCallback é o destino do redirect do marketplace. A resposta é
// uma página HTML simples porque quem chega aqui é o navegador do
// operador, não o frontend.
func OAuthCallback(service oauth.Connector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.Integration(httprouter.ParamsFromContext(r.Context()).ByName("integration"))
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		// Erro devolvido pelo próprio marketplace no redirect.
		if upstreamErr := r.URL.Query().Get("error"); upstreamErr != "" {
			description := r.URL.Query().Get("error_description")
			logger.WithFields(log.Fields{
				"integration": integration,
				"error":       upstreamErr,
				"description": description,
			}).Warn("oauth: authorization denied by marketplace")

			writeOAuthPage(w, http.StatusBadRequest, "Autorização negada",
				fmt.Sprintf("O marketplace recusou a autorização: %s", firstNonEmpty(description, upstreamErr)))
			return
		}

		err := service.HandleCallback(r.Context(), integration, code, state)
		if err != nil {
			switch {
			case errors.Is(err, oauth.ErrUnknownIntegration):
				writeOAuthPage(w, http.StatusBadRequest, "Integração desconhecida",
					"A integração informada não é suportada.")
			case errors.Is(err, oauth.ErrInvalidState):
				writeOAuthPage(w, http.StatusBadRequest, "Sessão de autorização expirada",
					"O fluxo de autorização expirou ou já foi usado. Inicie a conexão novamente pelo painel.")
			default:
				logger.WithError(err).WithField("integration", integration).Error("oauth: callback failed")
				writeOAuthPage(w, http.StatusBadGateway, "Erro ao concluir a autorização", err.Error())
			}
			return
		}

		writeOAuthPage(w, http.StatusOK, "Integração conectada",
			fmt.Sprintf("A integração %s foi autorizada com sucesso. Esta janela pode ser fechada.", integration))
	})
}

func DisconnectIntegration(service oauth.Connector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.Integration(httprouter.ParamsFromContext(r.Context()).ByName("integration"))

		if err := service.Disconnect(r.Context(), integration); err != nil {
			if errors.Is(err, oauth.ErrUnknownIntegration) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Integração desconhecida", nil)
				return
			}
			logger.WithError(err).WithField("integration", integration).Error("oauth: failed to disconnect")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao desconectar integração", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func GetIntegrationStatus(service oauth.Connector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		integration := domain.Integration(httprouter.ParamsFromContext(r.Context()).ByName("integration"))

		creds, err := service.Status(r.Context(), integration)
		if err != nil {
			if errors.Is(err, oauth.ErrUnknownIntegration) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Integração desconhecida", nil)
				return
			}
			logger.WithError(err).WithField("integration", integration).Error("oauth: failed to load credentials")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao consultar integração", nil)
			return
		}

		connected := creds != nil && creds.RefreshToken != ""

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"integration": integration,
			"connected":   connected,
			"credentials": creds,
		})
	})
}

const oauthPageTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; display: flex; justify-content: center; margin-top: 4rem; }
main { max-width: 28rem; text-align: center; }
</style>
</head>
<body>
<main>
<h1>%s</h1>
<p>%s</p>
</main>
</body>
</html>`

func writeOAuthPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, oauthPageTemplate, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
