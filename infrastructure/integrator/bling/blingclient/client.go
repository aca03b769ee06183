package blingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	blingdomain "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/domain"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

type Client interface {
	ListOrders(ctx context.Context, startDate, endDate time.Time, page, limit int) ([]blingdomain.OrderSummary, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.SalesOrder, error)
	GetStockBySKU(ctx context.Context, sku string) (*domain.StockSnapshot, error)
	ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error)
	RefreshToken(ctx context.Context) error
}

type BlingClient struct {
	cfg          config.Bling
	tokenManager *TokenManager
	httpClient   *http.Client
}

func NewClient(cfg config.Bling, tokenManager *TokenManager) Client {
	return &BlingClient{
		cfg:          cfg,
		tokenManager: tokenManager,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *BlingClient) RefreshToken(ctx context.Context) error {
	_, err := c.tokenManager.Refresh(ctx)
	return err
}

func (c *BlingClient) ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error) {
	return c.tokenManager.ExchangeCode(ctx, code)
}

// getJSON executa um GET autenticado. Em 401 (ou 400 com corpo de token
// inválido) renova o token e repete a requisição exatamente uma vez; a
// segunda falha é fatal para a operação corrente.
func (c *BlingClient) getJSON(ctx context.Context, requestURL string) ([]byte, error) {
	token, err := c.tokenManager.CurrentToken(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err := c.doGet(ctx, requestURL, token)
	if err != nil {
		return nil, err
	}

	if status >= 200 && status < 300 {
		return body, nil
	}

	if !isTokenRejection(status, body) {
		return nil, &marketplace.UpstreamError{
			Integration: string(domain.IntegrationBling),
			Status:      status,
			Body:        string(body),
		}
	}

	logrus.WithField("status", status).Warn("Token do Bling rejeitado; renovando e repetindo a requisição")

	refreshed, err := c.tokenManager.RefreshAfterRejection(ctx, token)
	if err != nil {
		return nil, &marketplace.UpstreamAuthError{
			Integration: string(domain.IntegrationBling),
			Status:      status,
			Err:         err,
		}
	}

	body, status, err = c.doGet(ctx, requestURL, refreshed.AccessToken)
	if err != nil {
		return nil, err
	}

	if status >= 200 && status < 300 {
		return body, nil
	}

	if isTokenRejection(status, body) {
		return nil, &marketplace.UpstreamAuthError{
			Integration: string(domain.IntegrationBling),
			Status:      status,
		}
	}

	return nil, &marketplace.UpstreamError{
		Integration: string(domain.IntegrationBling),
		Status:      status,
		Body:        string(body),
	}
}

func (c *BlingClient) doGet(ctx context.Context, requestURL, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao ler a resposta: %w", err)
	}

	return body, resp.StatusCode, nil
}

// isTokenRejection decide se a resposta dispara o refresh reativo.
func isTokenRejection(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	if status != http.StatusBadRequest {
		return false
	}

	var errorResp blingdomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.IsTokenError() {
		return true
	}

	return false
}
