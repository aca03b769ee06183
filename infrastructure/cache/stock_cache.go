package cache

import (
	"context"
	"time"

	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const (
	stockAggregateKey = "stock:aggregate"
	stockAggregateTTL = 15 * time.Minute
)

// StockCache guarda a visão agregada de estoque lida pelo painel. O
// receptor de webhooks invalida a chave sempre que um evento de pedido
// ou de estoque implica que a visão ficou desatualizada.
type StockCache interface {
	GetAggregate(ctx context.Context) ([]*domain.StockSnapshot, bool, error)
	SetAggregate(ctx context.Context, snapshots []*domain.StockSnapshot) error
	Invalidate(ctx context.Context) error
}

type stockCache struct {
	client *Client
}

func NewStockCache(client *Client) StockCache {
	return &stockCache{client: client}
}

func (c *stockCache) GetAggregate(ctx context.Context) ([]*domain.StockSnapshot, bool, error) {
	var snapshots []*domain.StockSnapshot
	found, err := c.client.GetObject(ctx, stockAggregateKey, &snapshots)
	if err != nil {
		return nil, false, err
	}
	return snapshots, found, nil
}

func (c *stockCache) SetAggregate(ctx context.Context, snapshots []*domain.StockSnapshot) error {
	return c.client.SetObject(ctx, stockAggregateKey, snapshots, stockAggregateTTL)
}

func (c *stockCache) Invalidate(ctx context.Context) error {
	return c.client.Delete(ctx, stockAggregateKey)
}
