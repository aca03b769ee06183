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

func validCredentials(expiresAt time.Time) *domain.Credentials {
	return &domain.Credentials{
		Integration:  domain.IntegrationBling,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "token-antigo",
		RefreshToken: "refresh-antigo",
		ExpiresAt:    expiresAt,
	}
}

func TestTokenManager_CurrentToken_tokenValidoNaoRenova(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	credRepo.EXPECT().
		Get(domain.IntegrationBling).
		Return(validCredentials(time.Now().Add(time.Hour)), nil)

	tm := NewTokenManager(config.Bling{}, credRepo)

	token, err := tm.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-antigo", token)
}

func TestTokenManager_CurrentToken_renovaDentroDaMargemDeExpiracao(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	var tokenCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh-antigo", r.FormValue("refresh_token"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":3600}`))
	}))
	defer server.Close()

	// Token expira em 30s, dentro da margem de 60s.
	quaseExpirado := validCredentials(time.Now().Add(30 * time.Second))

	credRepo.EXPECT().Get(domain.IntegrationBling).Return(quaseExpirado, nil).Times(2)
	credRepo.EXPECT().
		SaveTokens(gomock.Any()).
		DoAndReturn(func(creds *domain.Credentials) error {
			assert.Equal(t, "token-novo", creds.AccessToken)
			assert.Equal(t, "refresh-novo", creds.RefreshToken)
			assert.True(t, creds.ExpiresAt.After(time.Now().Add(time.Minute)))
			return nil
		})

	tm := NewTokenManager(config.Bling{TokenURL: server.URL}, credRepo)

	token, err := tm.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-novo", token)
	assert.Equal(t, 1, tokenCalls)
}

func TestTokenManager_CurrentToken_falhaProativaUsaTokenCorrente(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	quaseExpirado := validCredentials(time.Now().Add(10 * time.Second))
	credRepo.EXPECT().Get(domain.IntegrationBling).Return(quaseExpirado, nil).Times(2)

	tm := NewTokenManager(config.Bling{TokenURL: server.URL}, credRepo)

	// A renovação falhou mas ainda existe um token possivelmente válido;
	// ele é tentado e o 401 eventual dispara o refresh reativo.
	token, err := tm.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-antigo", token)
}

func TestTokenManager_Refresh_semRefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	creds := validCredentials(time.Now().Add(-time.Hour))
	creds.RefreshToken = ""
	credRepo.EXPECT().Get(domain.IntegrationBling).Return(creds, nil)

	tm := NewTokenManager(config.Bling{}, credRepo)

	_, err := tm.Refresh(context.Background())
	assert.ErrorIs(t, err, marketplace.ErrMissingRefreshToken)
}

func TestTokenManager_Refresh_semClientConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	credRepo.EXPECT().
		Get(domain.IntegrationBling).
		Return(&domain.Credentials{Integration: domain.IntegrationBling}, nil)

	tm := NewTokenManager(config.Bling{}, credRepo)

	_, err := tm.Refresh(context.Background())
	assert.ErrorIs(t, err, marketplace.ErrMissingClientConfig)
}

func TestTokenManager_ExchangeCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "codigo-oauth", r.FormValue("code"))
		assert.Equal(t, "https://painel.local/callback", r.FormValue("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"primeiro-token","refresh_token":"primeiro-refresh","expires_in":21600}`))
	}))
	defer server.Close()

	creds := &domain.Credentials{
		Integration:  domain.IntegrationBling,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
	credRepo.EXPECT().Get(domain.IntegrationBling).Return(creds, nil)
	credRepo.EXPECT().SaveTokens(gomock.Any()).Return(nil)

	tm := NewTokenManager(config.Bling{
		TokenURL:    server.URL,
		RedirectURI: "https://painel.local/callback",
	}, credRepo)

	result, err := tm.ExchangeCode(context.Background(), "codigo-oauth")
	require.NoError(t, err)
	assert.Equal(t, "primeiro-token", result.AccessToken)
	assert.Equal(t, "primeiro-refresh", result.RefreshToken)
}

func TestTokenManager_requestToken_errodescricaoDoBling(t *testing.T) {
	ctrl := gomock.NewController(t)
	credRepo := mocks.NewMockCredentialRepository(ctrl)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"refresh token revogado"}`))
	}))
	defer server.Close()

	creds := validCredentials(time.Now().Add(-time.Hour))
	credRepo.EXPECT().Get(domain.IntegrationBling).Return(creds, nil)

	tm := NewTokenManager(config.Bling{TokenURL: server.URL}, credRepo)

	_, err := tm.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token revogado")
}
