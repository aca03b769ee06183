package domain

import "time"

// WebhookEventKind classifica o evento recebido pelo prefixo do nome.
type WebhookEventKind string

const (
	WebhookEventOrder   WebhookEventKind = "order"
	WebhookEventStock   WebhookEventKind = "stock"
	WebhookEventUnknown WebhookEventKind = "unknown"
)

// WebhookStatus são contadores de observabilidade de eventos de pedido.
// Atualizados monotonicamente, nunca lidos pela lógica de negócio.
type WebhookStatus struct {
	Integration   Integration `json:"integration"`
	TotalReceived int64       `json:"total_received"`
	LastEvent     string      `json:"last_event,omitempty"`
	LastOrderID   *int64      `json:"last_order_id,omitempty"`
	LastUpdate    time.Time   `json:"last_update"`
}

// StockWebhookStatus são os contadores equivalentes para eventos de estoque.
type StockWebhookStatus struct {
	Integration   Integration `json:"integration"`
	TotalReceived int64       `json:"total_received"`
	LastEvent     string      `json:"last_event,omitempty"`
	LastProcessed string      `json:"last_processed,omitempty"`
	LastUpdate    time.Time   `json:"last_update"`
}

// StockEventRecord é a forma normalizada de um item de estoque extraído
// de qualquer um dos envelopes conhecidos de webhook.
type StockEventRecord struct {
	SKU        string           `json:"sku"`
	Quantity   float64          `json:"quantity"`
	Name       string           `json:"name,omitempty"`
	Warehouses []WarehouseStock `json:"warehouses,omitempty"`
}
