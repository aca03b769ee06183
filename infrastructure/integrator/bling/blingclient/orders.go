package blingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	blingdomain "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/domain"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// ListOrders lista resumos de pedidos na janela de datas informada.
// A API do Bling pagina por `pagina`/`limite`; uma página mais curta que
// o limite indica a última página.
func (c *BlingClient) ListOrders(ctx context.Context, startDate, endDate time.Time, page, limit int) ([]blingdomain.OrderSummary, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "/pedidos/vendas")

	query := endpoint.Query()
	query.Set("dataInicial", startDate.Format(time.DateOnly))
	query.Set("dataFinal", endDate.Format(time.DateOnly))
	query.Set("pagina", strconv.Itoa(page))
	query.Set("limite", strconv.Itoa(limit))
	endpoint.RawQuery = query.Encode()

	body, err := c.getJSON(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}

	var response blingdomain.ListOrdersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a listagem de pedidos: %w", err)
	}

	return response.Data, nil
}

// GetOrder busca o detalhe completo de um pedido e o converte para o
// modelo local. Retorna marketplace.ErrNotFound para pedidos removidos
// no Bling entre a listagem e a busca.
func (c *BlingClient) GetOrder(ctx context.Context, orderID int64) (*domain.SalesOrder, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, fmt.Sprintf("/pedidos/vendas/%d", orderID))

	body, err := c.getJSON(ctx, endpoint.String())
	if err != nil {
		if marketplace.IsNotFound(err) {
			return nil, marketplace.ErrNotFound
		}
		return nil, err
	}

	var response blingdomain.GetOrderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar o pedido %d: %w", orderID, err)
	}

	return response.Data.ToSalesOrder(), nil
}
