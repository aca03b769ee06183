package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/cache"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/mercadolivre/mlclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

var (
	// ErrInvalidState indica state ausente, expirado ou já consumido.
	// O fluxo de autorização precisa ser reiniciado.
	ErrInvalidState = errors.New("state de autorização inválido ou expirado")
	// ErrUnknownIntegration indica um marketplace não suportado.
	ErrUnknownIntegration = errors.New("integração desconhecida")
)

// Connector conduz o fluxo de autorização OAuth das integrações.
type Connector interface {
	// AuthorizeURL monta a URL de autorização com um state de uso único.
	AuthorizeURL(ctx context.Context, integration domain.Integration) (string, error)
	// HandleCallback valida o state, troca o code por tokens e persiste
	// as credenciais da integração.
	HandleCallback(ctx context.Context, integration domain.Integration, code, state string) error
	Disconnect(ctx context.Context, integration domain.Integration) error
	Status(ctx context.Context, integration domain.Integration) (*domain.Credentials, error)
}

type Service struct {
	cfg        *config.Config
	bling      blingclient.Client
	mlTokens   *mlclient.TokenManager
	credRepo   repository.CredentialRepository
	stateStore cache.OAuthStateStore
}

func NewService(
	cfg *config.Config,
	bling blingclient.Client,
	mlTokens *mlclient.TokenManager,
	credRepo repository.CredentialRepository,
	stateStore cache.OAuthStateStore,
) Connector {
	return &Service{
		cfg:        cfg,
		bling:      bling,
		mlTokens:   mlTokens,
		credRepo:   credRepo,
		stateStore: stateStore,
	}
}

func (s *Service) AuthorizeURL(ctx context.Context, integration domain.Integration) (string, error) {
	if !integration.Valid() {
		return "", ErrUnknownIntegration
	}

	creds, err := s.credRepo.Get(integration)
	if err != nil {
		return "", fmt.Errorf("erro ao buscar credenciais: %w", err)
	}
	if creds == nil || creds.ClientID == "" {
		return "", fmt.Errorf("client id não configurado para %s", integration)
	}

	state, err := utils.GenerateID()
	if err != nil {
		return "", fmt.Errorf("erro ao gerar state: %w", err)
	}

	if err := s.stateStore.Put(ctx, integration, state); err != nil {
		return "", fmt.Errorf("erro ao guardar state: %w", err)
	}

	authURL, redirectURI := s.endpoints(integration)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", creds.ClientID)
	params.Set("state", state)
	if redirectURI != "" {
		params.Set("redirect_uri", redirectURI)
	}

	logrus.WithFields(logrus.Fields{
		"integration": integration,
		"state":       state,
	}).Info("URL de autorização gerada")

	return fmt.Sprintf("%s?%s", authURL, params.Encode()), nil
}

func (s *Service) endpoints(integration domain.Integration) (authURL, redirectURI string) {
	if integration == domain.IntegrationMercadoLivre {
		return s.cfg.MercadoLivre.AuthURL, s.cfg.MercadoLivre.RedirectURI
	}
	return s.cfg.Bling.AuthURL, s.cfg.Bling.RedirectURI
}

func (s *Service) HandleCallback(ctx context.Context, integration domain.Integration, code, state string) error {
	if !integration.Valid() {
		return ErrUnknownIntegration
	}

	if code == "" || state == "" {
		return ErrInvalidState
	}

	// O state só vale uma vez; consumo e validação são a mesma operação.
	valid, err := s.stateStore.Consume(ctx, integration, state)
	if err != nil {
		return fmt.Errorf("erro ao validar state: %w", err)
	}
	if !valid {
		logrus.WithFields(logrus.Fields{
			"integration": integration,
			"state":       state,
		}).Warn("Callback OAuth com state inválido")
		return ErrInvalidState
	}

	switch integration {
	case domain.IntegrationMercadoLivre:
		_, err = s.mlTokens.ExchangeCode(ctx, code)
	default:
		_, err = s.bling.ExchangeCode(ctx, code)
	}
	if err != nil {
		return fmt.Errorf("erro ao trocar o code por tokens: %w", err)
	}

	logrus.WithField("integration", integration).Info("Integração autorizada com sucesso")
	return nil
}

func (s *Service) Disconnect(ctx context.Context, integration domain.Integration) error {
	if !integration.Valid() {
		return ErrUnknownIntegration
	}

	if err := s.credRepo.Disconnect(integration); err != nil {
		return fmt.Errorf("erro ao desconectar integração: %w", err)
	}

	logrus.WithField("integration", integration).Info("Integração desconectada")
	return nil
}

// Status devolve as credenciais persistidas sem os segredos, para o
// painel exibir a situação da conexão.
func (s *Service) Status(ctx context.Context, integration domain.Integration) (*domain.Credentials, error) {
	if !integration.Valid() {
		return nil, ErrUnknownIntegration
	}

	creds, err := s.credRepo.Get(integration)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar credenciais: %w", err)
	}

	return creds, nil
}
