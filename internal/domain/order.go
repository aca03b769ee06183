package domain

import "time"

// SalesOrder é um pedido de venda sincronizado de um marketplace.
// O ID é o identificador numérico do sistema de origem (Bling), o que
// torna todo upsert idempotente por construção.
type SalesOrder struct {
	ID            int64       `json:"id"`
	Number        string      `json:"number"`
	Store         string      `json:"store"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	TotalProducts float64     `json:"total_products"`
	Shipping      *Shipping   `json:"shipping,omitempty"`
	InvoiceNumber *string     `json:"invoice_number,omitempty"`
	Status        string      `json:"status"`
	IssueDate     time.Time   `json:"issue_date"`
	WebhookSource bool        `json:"webhook_source"`
	Deleted       bool        `json:"deleted"`
	DeletedAt     *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type Customer struct {
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
	Email    string `json:"email,omitempty"`
}

type OrderItem struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
}

type Shipping struct {
	Carrier      string  `json:"carrier,omitempty"`
	TrackingCode string  `json:"tracking_code,omitempty"`
	Cost         float64 `json:"cost"`
}

// IsActive centraliza o filtro de soft delete usado por listagem,
// contagem e agregação. Pedidos apagados continuam consultáveis por ID.
func (o *SalesOrder) IsActive() bool {
	return !o.Deleted
}

// HasInvoice indica se o pedido tem nota fiscal emitida, pré-requisito
// para entrar no cálculo de demanda de produção.
func (o *SalesOrder) HasInvoice() bool {
	return o.InvoiceNumber != nil && *o.InvoiceNumber != ""
}
