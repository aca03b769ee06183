package domain

import "time"

// StockSnapshot é o último saldo de estoque conhecido de um SKU no
// sistema remoto. Pode ser marcado como desatualizado sem ser removido.
type StockSnapshot struct {
	SKU               string           `json:"sku"`
	Name              string           `json:"name,omitempty"`
	Quantity          float64          `json:"estoque_atual"`
	Warehouses        []WarehouseStock `json:"warehouses,omitempty"`
	Stale             bool             `json:"stale"`
	LastEvent         string           `json:"last_event,omitempty"`
	WebhookReceivedAt *time.Time       `json:"webhook_received_at,omitempty"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type WarehouseStock struct {
	WarehouseID int64   `json:"warehouse_id"`
	Quantity    float64 `json:"quantity"`
}

// StockThreshold são os limites mínimo/máximo de estoque mantidos por
// SKU para o cálculo de demanda de produção.
type StockThreshold struct {
	SKU       string    `json:"sku"`
	StockMin  float64   `json:"stock_min"`
	StockMax  float64   `json:"stock_max"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DemandRow é uma linha do relatório de demanda de produção.
type DemandRow struct {
	SKU               string  `json:"sku"`
	Description       string  `json:"description"`
	OrderCount        int     `json:"order_count"`
	TotalQuantitySold float64 `json:"total_quantity_sold"`
	WeeklyAverage     float64 `json:"weekly_average"`
	StockLevel        float64 `json:"stock_level"`
	StockMin          float64 `json:"stock_min"`
	StockMax          float64 `json:"stock_max"`
	NeedsProduction   bool    `json:"needs_production"`
}

// ComputeNeedsProduction aplica o predicado de produção. As bordas são
// assimétricas de propósito: estoque igual ao mínimo NÃO dispara
// produção; igual ao máximo ainda dispara.
func ComputeNeedsProduction(stockLevel, stockMin, stockMax float64) bool {
	return stockLevel < stockMin && stockLevel <= stockMax
}
