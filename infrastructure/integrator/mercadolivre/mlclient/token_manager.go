package mlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// TokenResponse é a resposta do endpoint de token do Mercado Livre. O
// user_id identifica o vendedor e é persistido junto às credenciais.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       int64  `json:"user_id"`
}

type tokenErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// TokenManager gerencia o ciclo de vida do token OAuth do Mercado
// Livre. Diferente do Bling, o client id/secret vai no corpo do form em
// vez de HTTP Basic.
type TokenManager struct {
	cfg               config.MercadoLivre
	credRepo          repository.CredentialRepository
	tokenRefreshMutex sync.Mutex
	httpClient        *http.Client
}

func NewTokenManager(cfg config.MercadoLivre, credRepo repository.CredentialRepository) *TokenManager {
	return &TokenManager{
		cfg:      cfg,
		credRepo: credRepo,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (tm *TokenManager) GetCredentials() (*domain.Credentials, error) {
	creds, err := tm.credRepo.Get(domain.IntegrationMercadoLivre)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler credenciais do Mercado Livre: %w", err)
	}
	if creds == nil || !creds.HasClientConfig() {
		return nil, marketplace.ErrMissingClientConfig
	}
	return creds, nil
}

// CurrentToken retorna um access token utilizável, renovando com a
// margem de 60s antes da expiração.
func (tm *TokenManager) CurrentToken(ctx context.Context) (string, error) {
	creds, err := tm.GetCredentials()
	if err != nil {
		return "", err
	}

	if !creds.NeedsRefresh(time.Now()) {
		return creds.AccessToken, nil
	}

	refreshed, err := tm.Refresh(ctx)
	if err != nil {
		if creds.AccessToken == "" {
			return "", err
		}
		logrus.WithError(err).Warn("Falha na renovação proativa do token do Mercado Livre; tentando com o token atual")
		return creds.AccessToken, nil
	}

	return refreshed.AccessToken, nil
}

func (tm *TokenManager) Refresh(ctx context.Context) (*domain.Credentials, error) {
	tm.tokenRefreshMutex.Lock()
	defer tm.tokenRefreshMutex.Unlock()

	creds, err := tm.GetCredentials()
	if err != nil {
		return nil, err
	}

	if !creds.NeedsRefresh(time.Now()) {
		return creds, nil
	}

	if creds.RefreshToken == "" {
		return nil, marketplace.ErrMissingRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("refresh_token", creds.RefreshToken)

	return tm.requestAndPersist(ctx, creds, form)
}

// ExchangeCode troca o authorization code do callback pelo primeiro par
// de tokens, capturando também o user_id do vendedor.
func (tm *TokenManager) ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error) {
	tm.tokenRefreshMutex.Lock()
	defer tm.tokenRefreshMutex.Unlock()

	creds, err := tm.GetCredentials()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", tm.cfg.RedirectURI)

	return tm.requestAndPersist(ctx, creds, form)
}

func (tm *TokenManager) requestAndPersist(ctx context.Context, creds *domain.Credentials, form url.Values) (*domain.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição de token: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao chamar o endpoint de token do Mercado Livre: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta do endpoint de token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var tokenErr tokenErrorResponse
		description := string(body)
		if err := json.Unmarshal(body, &tokenErr); err == nil && tokenErr.Message != "" {
			description = tokenErr.Message
		}

		logrus.WithFields(logrus.Fields{
			"status":      resp.StatusCode,
			"description": description,
		}).Error("Endpoint de token do Mercado Livre rejeitou a requisição")

		return nil, &marketplace.AuthError{
			Integration: string(domain.IntegrationMercadoLivre),
			Description: description,
		}
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta de token: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, &marketplace.AuthError{
			Integration: string(domain.IntegrationMercadoLivre),
			Description: "endpoint de token retornou access token vazio",
		}
	}

	creds.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		creds.RefreshToken = tokenResp.RefreshToken
	}
	creds.ExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	if tokenResp.UserID != 0 {
		creds.UserID = fmt.Sprintf("%d", tokenResp.UserID)
	}

	if err := tm.credRepo.SaveTokens(creds); err != nil {
		return nil, fmt.Errorf("erro ao persistir tokens do Mercado Livre: %w", err)
	}

	logrus.WithField("expires_at", creds.ExpiresAt.Format(time.RFC3339)).
		Info("Token do Mercado Livre renovado com sucesso")

	return creds, nil
}
