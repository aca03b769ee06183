package blingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

type stockBalancesResponse struct {
	Data []stockBalance `json:"data"`
}

type stockBalance struct {
	Product struct {
		SKU  string `json:"codigo"`
		Name string `json:"nome,omitempty"`
	} `json:"produto"`
	TotalPhysical float64        `json:"saldoFisicoTotal"`
	Warehouses    []stockDeposit `json:"depositos,omitempty"`
}

type stockDeposit struct {
	ID       int64   `json:"id"`
	Physical float64 `json:"saldoFisico"`
}

// GetStockBySKU consulta o saldo remoto atual de um SKU.
func (c *BlingClient) GetStockBySKU(ctx context.Context, sku string) (*domain.StockSnapshot, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "/estoques/saldos")

	query := endpoint.Query()
	query.Set("codigos[]", sku)
	endpoint.RawQuery = query.Encode()

	body, err := c.getJSON(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}

	var response stockBalancesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar saldo de estoque do SKU %s: %w", sku, err)
	}

	if len(response.Data) == 0 {
		return nil, marketplace.ErrNotFound
	}

	balance := response.Data[0]
	warehouses := make([]domain.WarehouseStock, 0, len(balance.Warehouses))
	for _, deposit := range balance.Warehouses {
		warehouses = append(warehouses, domain.WarehouseStock{
			WarehouseID: deposit.ID,
			Quantity:    deposit.Physical,
		})
	}

	return &domain.StockSnapshot{
		SKU:        balance.Product.SKU,
		Name:       balance.Product.Name,
		Quantity:   balance.TotalPhysical,
		Warehouses: warehouses,
		UpdatedAt:  time.Now(),
	}, nil
}
