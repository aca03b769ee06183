package blingclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestClient_ListOrders_renovaEmRejeicaoDeTokenUmaUnicaVez(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	var apiCalls, refreshCalls int

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":3600}`))
	})
	mux.HandleFunc("/pedidos/vendas", func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if r.Header.Get("Authorization") != "Bearer token-novo" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":101,"numero":"101"}]}`))
	})

	// Token atual ainda dentro da validade porém revogado no servidor;
	// apenas o 401 revela o problema.
	creds := &domain.Credentials{
		Integration:  domain.IntegrationBling,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "token-revogado",
		RefreshToken: "refresh-valido",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	credRepo.EXPECT().Get(domain.IntegrationBling).Return(creds, nil).AnyTimes()
	credRepo.EXPECT().
		SaveTokens(gomock.Any()).
		DoAndReturn(func(updated *domain.Credentials) error {
			creds = updated
			return nil
		})

	cfg := config.Bling{BaseURL: server.URL, TokenURL: server.URL + "/token"}
	client := NewClient(cfg, NewTokenManager(cfg, credRepo))

	orders, err := client.ListOrders(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(), 1, 100)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(101), orders[0].ID)

	// Um 401, um refresh, uma repetição.
	assert.Equal(t, 2, apiCalls)
	assert.Equal(t, 1, refreshCalls)
}

func TestClient_ListOrders_rejeicaoPersistenteNaoEntraEmLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	var apiCalls, refreshCalls int

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":3600}`))
	})
	mux.HandleFunc("/pedidos/vendas", func(w http.ResponseWriter, _ *http.Request) {
		apiCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	creds := &domain.Credentials{
		Integration:  domain.IntegrationBling,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "token-qualquer",
		RefreshToken: "refresh-valido",
		ExpiresAt:    time.Now().Add(time.Hour),
	}

	credRepo.EXPECT().Get(domain.IntegrationBling).Return(creds, nil).AnyTimes()
	credRepo.EXPECT().
		SaveTokens(gomock.Any()).
		DoAndReturn(func(updated *domain.Credentials) error {
			creds = updated
			return nil
		})

	cfg := config.Bling{BaseURL: server.URL, TokenURL: server.URL + "/token"}
	client := NewClient(cfg, NewTokenManager(cfg, credRepo))

	_, err := client.ListOrders(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(), 1, 100)
	require.Error(t, err)

	var authErr *marketplace.UpstreamAuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 2, apiCalls)
	assert.Equal(t, 1, refreshCalls)
}

func TestClient_GetOrder_naoEncontrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/pedidos/vendas/999", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"RESOURCE_NOT_FOUND"}}`))
	})

	credRepo.EXPECT().
		Get(domain.IntegrationBling).
		Return(&domain.Credentials{
			Integration:  domain.IntegrationBling,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AccessToken:  "token-valido",
			RefreshToken: "refresh-valido",
			ExpiresAt:    time.Now().Add(time.Hour),
		}, nil).
		AnyTimes()

	cfg := config.Bling{BaseURL: server.URL}
	client := NewClient(cfg, NewTokenManager(cfg, credRepo))

	_, err := client.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestIsTokenRejection(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		rejected bool
	}{
		{name: "401 sempre rejeita", status: http.StatusUnauthorized, body: "", rejected: true},
		{
			name:     "400 com erro de token invalido",
			status:   http.StatusBadRequest,
			body:     `{"error":{"type":"invalid_token","message":"token inválido"}}`,
			rejected: true,
		},
		{
			name:     "400 de validação comum não rejeita",
			status:   http.StatusBadRequest,
			body:     `{"error":{"type":"VALIDATION_ERROR","message":"data inválida"}}`,
			rejected: false,
		},
		{name: "500 não rejeita", status: http.StatusInternalServerError, body: "", rejected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rejected, isTokenRejection(tt.status, []byte(tt.body)))
		})
	}
}
