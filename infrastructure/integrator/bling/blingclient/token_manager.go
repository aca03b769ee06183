package blingclient

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

// TokenResponse é a resposta do endpoint de token do Bling.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// TokenManager gerencia o ciclo de vida do token OAuth do Bling. Os
// tokens vivem no banco; o mutex serializa renovações concorrentes para
// que um 401 simultâneo em duas requisições gere um único refresh.
type TokenManager struct {
	cfg               config.Bling
	credRepo          repository.CredentialRepository
	tokenRefreshMutex sync.Mutex
	httpClient        *http.Client
}

func NewTokenManager(cfg config.Bling, credRepo repository.CredentialRepository) *TokenManager {
	return &TokenManager{
		cfg:      cfg,
		credRepo: credRepo,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetCredentials lê as credenciais persistidas, falhando quando o
// client id/secret nunca foi configurado.
func (tm *TokenManager) GetCredentials() (*domain.Credentials, error) {
	creds, err := tm.credRepo.Get(domain.IntegrationBling)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler credenciais do Bling: %w", err)
	}
	if creds == nil || !creds.HasClientConfig() {
		return nil, marketplace.ErrMissingClientConfig
	}
	return creds, nil
}

// CurrentToken retorna um access token utilizável, renovando antes da
// expiração (margem de 60s). Falha na renovação proativa é apenas
// logada: o token possivelmente vencido ainda é tentado e pode tomar
// 401, acionando o refresh reativo.
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
		logrus.WithError(err).Warn("Falha na renovação proativa do token do Bling; tentando com o token atual")
		return creds.AccessToken, nil
	}

	return refreshed.AccessToken, nil
}

// Refresh troca o refresh token por um novo par de tokens e persiste o
// resultado. O Bling autentica o client via HTTP Basic (id:secret).
func (tm *TokenManager) Refresh(ctx context.Context) (*domain.Credentials, error) {
	return tm.refresh(ctx, "")
}

// RefreshAfterRejection renova o par de tokens depois de um 401,
// mesmo com a expiração persistida ainda no futuro. Se o token gravado
// já não for o rejeitado, outra goroutine renovou primeiro e o refresh
// é dispensado.
func (tm *TokenManager) RefreshAfterRejection(ctx context.Context, rejectedToken string) (*domain.Credentials, error) {
	return tm.refresh(ctx, rejectedToken)
}

func (tm *TokenManager) refresh(ctx context.Context, rejectedToken string) (*domain.Credentials, error) {
	tm.tokenRefreshMutex.Lock()
	defer tm.tokenRefreshMutex.Unlock()

	creds, err := tm.GetCredentials()
	if err != nil {
		return nil, err
	}

	// Outra goroutine pode ter renovado enquanto esperávamos o mutex.
	if rejectedToken != "" {
		if creds.AccessToken != rejectedToken {
			return creds, nil
		}
	} else if !creds.NeedsRefresh(time.Now()) {
		return creds, nil
	}

	if creds.RefreshToken == "" {
		return nil, marketplace.ErrMissingRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.RefreshToken)

	tokenResp, err := tm.requestToken(ctx, creds, form)
	if err != nil {
		return nil, err
	}

	creds.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		creds.RefreshToken = tokenResp.RefreshToken
	}
	creds.ExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	if err := tm.credRepo.SaveTokens(creds); err != nil {
		return nil, fmt.Errorf("erro ao persistir tokens renovados do Bling: %w", err)
	}

	logrus.WithField("expires_at", creds.ExpiresAt.Format(time.RFC3339)).
		Info("Token do Bling renovado com sucesso")

	return creds, nil
}

// ExchangeCode troca o authorization code do callback OAuth pelo
// primeiro par de tokens e persiste as credenciais.
func (tm *TokenManager) ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error) {
	tm.tokenRefreshMutex.Lock()
	defer tm.tokenRefreshMutex.Unlock()

	creds, err := tm.GetCredentials()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", tm.cfg.RedirectURI)

	tokenResp, err := tm.requestToken(ctx, creds, form)
	if err != nil {
		return nil, err
	}

	creds.AccessToken = tokenResp.AccessToken
	creds.RefreshToken = tokenResp.RefreshToken
	creds.ExpiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	if err := tm.credRepo.SaveTokens(creds); err != nil {
		return nil, fmt.Errorf("erro ao persistir tokens do Bling: %w", err)
	}

	return creds, nil
}

func (tm *TokenManager) requestToken(ctx context.Context, creds *domain.Credentials, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição de token: %w", err)
	}

	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao chamar o endpoint de token do Bling: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta do endpoint de token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var tokenErr tokenErrorResponse
		description := string(body)
		if err := json.Unmarshal(body, &tokenErr); err == nil && tokenErr.ErrorDescription != "" {
			description = tokenErr.ErrorDescription
		}

		logrus.WithFields(logrus.Fields{
			"status":      resp.StatusCode,
			"description": description,
		}).Error("Endpoint de token do Bling rejeitou a requisição")

		return nil, &marketplace.AuthError{
			Integration: string(domain.IntegrationBling),
			Description: description,
		}
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta de token: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, &marketplace.AuthError{
			Integration: string(domain.IntegrationBling),
			Description: "endpoint de token retornou access token vazio",
		}
	}

	return &tokenResp, nil
}
