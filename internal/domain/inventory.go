package domain

import "time"

// MovementType distingue entradas e saídas do razão de estoque.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// InventoryMovement é um lançamento do razão de movimentação. O campo
// Balance carrega o saldo corrente após o lançamento e por isso só pode
// ser gravado dentro de uma transação.
type InventoryMovement struct {
	ID        int64        `json:"id"`
	SKU       string       `json:"sku"`
	Type      MovementType `json:"type"`
	Quantity  float64      `json:"quantity"`
	Balance   float64      `json:"balance"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
