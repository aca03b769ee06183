package oauth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cachemocks "github.com/vpicolo/fabrica-manager-api/infrastructure/cache/mocks"
	blingmocks "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient/mocks"
	repomocks "github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

type oauthFixture struct {
	bling      *blingmocks.MockClient
	credRepo   *repomocks.MockCredentialRepository
	stateStore *cachemocks.MockOAuthStateStore
	service    Connector
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		Bling: config.Bling{
			AuthURL:     "https://www.bling.com.br/Api/v3/oauth/authorize",
			RedirectURI: "https://painel.fabrica.local/oauth/bling/callback",
		},
		MercadoLivre: config.MercadoLivre{
			AuthURL: "https://auth.mercadolivre.com.br/authorization",
		},
	}

	f := &oauthFixture{
		bling:      blingmocks.NewMockClient(ctrl),
		credRepo:   repomocks.NewMockCredentialRepository(ctrl),
		stateStore: cachemocks.NewMockOAuthStateStore(ctrl),
	}

	f.service = NewService(cfg, f.bling, nil, f.credRepo, f.stateStore)
	return f
}

func TestAuthorizeURL(t *testing.T) {
	ctx := context.Background()

	t.Run("monta a URL de autorização do Bling com state de uso único", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.credRepo.EXPECT().Get(domain.IntegrationBling).Return(&domain.Credentials{
			Integration: domain.IntegrationBling,
			ClientID:    "client-bling",
		}, nil)

		var savedState string
		f.stateStore.EXPECT().
			Put(ctx, domain.IntegrationBling, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Integration, state string) error {
				savedState = state
				return nil
			})

		authURL, err := f.service.AuthorizeURL(ctx, domain.IntegrationBling)
		require.NoError(t, err)
		require.NotEmpty(t, savedState)

		assert.True(t, strings.HasPrefix(authURL, "https://www.bling.com.br/Api/v3/oauth/authorize?"))

		parsed, err := url.Parse(authURL)
		require.NoError(t, err)

		query := parsed.Query()
		assert.Equal(t, "code", query.Get("response_type"))
		assert.Equal(t, "client-bling", query.Get("client_id"))
		assert.Equal(t, savedState, query.Get("state"))
		assert.Equal(t, "https://painel.fabrica.local/oauth/bling/callback", query.Get("redirect_uri"))
	})

	t.Run("integração desconhecida é rejeitada", func(t *testing.T) {
		f := newOAuthFixture(t)

		_, err := f.service.AuthorizeURL(ctx, domain.Integration("shopee"))
		assert.ErrorIs(t, err, ErrUnknownIntegration)
	})

	t.Run("client id não configurado impede a autorização", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.credRepo.EXPECT().Get(domain.IntegrationBling).Return(&domain.Credentials{
			Integration: domain.IntegrationBling,
		}, nil)

		_, err := f.service.AuthorizeURL(ctx, domain.IntegrationBling)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client id não configurado")
	})

	t.Run("credenciais inexistentes impedem a autorização", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.credRepo.EXPECT().Get(domain.IntegrationBling).Return(nil, nil)

		_, err := f.service.AuthorizeURL(ctx, domain.IntegrationBling)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client id não configurado")
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("state válido troca o code por tokens no Bling", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.stateStore.EXPECT().
			Consume(ctx, domain.IntegrationBling, "state-abc").
			Return(true, nil)
		f.bling.EXPECT().
			ExchangeCode(ctx, "code-123").
			Return(&domain.Credentials{Integration: domain.IntegrationBling, AccessToken: "token-novo"}, nil)

		err := f.service.HandleCallback(ctx, domain.IntegrationBling, "code-123", "state-abc")
		assert.NoError(t, err)
	})

	t.Run("state desconhecido ou já consumido é rejeitado", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.stateStore.EXPECT().
			Consume(ctx, domain.IntegrationBling, "state-velho").
			Return(false, nil)

		err := f.service.HandleCallback(ctx, domain.IntegrationBling, "code-123", "state-velho")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("code vazio é rejeitado sem consultar o store", func(t *testing.T) {
		f := newOAuthFixture(t)

		err := f.service.HandleCallback(ctx, domain.IntegrationBling, "", "state-abc")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("state vazio é rejeitado sem consultar o store", func(t *testing.T) {
		f := newOAuthFixture(t)

		err := f.service.HandleCallback(ctx, domain.IntegrationBling, "code-123", "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("integração desconhecida é rejeitada", func(t *testing.T) {
		f := newOAuthFixture(t)

		err := f.service.HandleCallback(ctx, domain.Integration("shopee"), "code-123", "state-abc")
		assert.ErrorIs(t, err, ErrUnknownIntegration)
	})

	t.Run("falha na troca do code é propagada", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.stateStore.EXPECT().
			Consume(ctx, domain.IntegrationBling, "state-abc").
			Return(true, nil)
		f.bling.EXPECT().
			ExchangeCode(ctx, "code-invalido").
			Return(nil, errors.New("invalid_grant"))

		err := f.service.HandleCallback(ctx, domain.IntegrationBling, "code-invalido", "state-abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao trocar o code por tokens")
	})
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("limpa os tokens da integração", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.credRepo.EXPECT().Disconnect(domain.IntegrationBling).Return(nil)

		err := f.service.Disconnect(ctx, domain.IntegrationBling)
		assert.NoError(t, err)
	})

	t.Run("integração desconhecida é rejeitada", func(t *testing.T) {
		f := newOAuthFixture(t)

		err := f.service.Disconnect(ctx, domain.Integration("shopee"))
		assert.ErrorIs(t, err, ErrUnknownIntegration)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("devolve as credenciais persistidas", func(t *testing.T) {
		f := newOAuthFixture(t)

		f.credRepo.EXPECT().Get(domain.IntegrationMercadoLivre).Return(&domain.Credentials{
			Integration: domain.IntegrationMercadoLivre,
			ClientID:    "client-ml",
			UserID:      "123456",
		}, nil)

		creds, err := f.service.Status(ctx, domain.IntegrationMercadoLivre)
		require.NoError(t, err)
		assert.Equal(t, "123456", creds.UserID)
	})

	t.Run("integração desconhecida é rejeitada", func(t *testing.T) {
		f := newOAuthFixture(t)

		_, err := f.service.Status(ctx, domain.Integration("shopee"))
		assert.ErrorIs(t, err, ErrUnknownIntegration)
	})
}
