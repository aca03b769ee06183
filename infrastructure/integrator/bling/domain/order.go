package domain

import (
	"time"

	appdomain "github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// OrderSummary é o resumo de pedido retornado pela listagem paginada
// da API v3 do Bling (GET /pedidos/vendas).
type OrderSummary struct {
	ID     int64       `json:"id"`
	Number string      `json:"numero"`
	Date   string      `json:"data"`
	Total  float64     `json:"total"`
	Store  StoreRef    `json:"loja"`
	Status SituationID `json:"situacao"`
}

type StoreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome,omitempty"`
}

type SituationID struct {
	ID    int64  `json:"id"`
	Value string `json:"valor,omitempty"`
}

type ListOrdersResponse struct {
	Data []OrderSummary `json:"data"`
}

// OrderDetail é o pedido completo (GET /pedidos/vendas/{id}).
type OrderDetail struct {
	ID             int64       `json:"id"`
	Number         string      `json:"numero"`
	Date           string      `json:"data"`
	Total          float64     `json:"total"`
	TotalProducts  float64     `json:"totalProdutos"`
	Store          StoreRef    `json:"loja"`
	Status         SituationID `json:"situacao"`
	Contact        Contact     `json:"contato"`
	Items          []Item      `json:"itens"`
	Invoice        *Invoice    `json:"notaFiscal,omitempty"`
	Transport      *Transport  `json:"transporte,omitempty"`
}

type Contact struct {
	Name     string `json:"nome"`
	Document string `json:"numeroDocumento,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Item struct {
	SKU         string  `json:"codigo"`
	Description string  `json:"descricao"`
	Quantity    float64 `json:"quantidade"`
	UnitPrice   float64 `json:"valor"`
	Discount    float64 `json:"desconto"`
}

type Invoice struct {
	ID     int64  `json:"id"`
	Number string `json:"numero,omitempty"`
}

type Transport struct {
	Carrier      string  `json:"transportadora,omitempty"`
	TrackingCode string  `json:"codigoRastreamento,omitempty"`
	Cost         float64 `json:"frete"`
}

type GetOrderResponse struct {
	Data OrderDetail `json:"data"`
}

// ToSalesOrder converte o payload do Bling para o modelo local.
func (d *OrderDetail) ToSalesOrder() *appdomain.SalesOrder {
	issueDate, err := time.Parse(time.DateOnly, d.Date)
	if err != nil {
		issueDate = time.Time{}
	}

	items := make([]appdomain.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, appdomain.OrderItem{
			SKU:         item.SKU,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
		})
	}

	order := &appdomain.SalesOrder{
		ID:            d.ID,
		Number:        d.Number,
		Store:         d.Store.Name,
		Customer: appdomain.Customer{
			Name:     d.Contact.Name,
			Document: d.Contact.Document,
			Email:    d.Contact.Email,
		},
		Items:         items,
		Total:         d.Total,
		TotalProducts: d.TotalProducts,
		Status:        d.Status.Value,
		IssueDate:     issueDate,
	}

	if d.Invoice != nil && d.Invoice.Number != "" {
		number := d.Invoice.Number
		order.InvoiceNumber = &number
	}

	if d.Transport != nil {
		order.Shipping = &appdomain.Shipping{
			Carrier:      d.Transport.Carrier,
			TrackingCode: d.Transport.TrackingCode,
			Cost:         d.Transport.Cost,
		}
	}

	return order
}
