package syncing

import (
	"context"
	"time"
)

// FetchPolicy controla o ritmo da busca de detalhes dos pedidos. A
// implementação padrão é sequencial com pausa entre requisições para
// respeitar o limite de taxa da API do Bling.
type FetchPolicy interface {
	Run(ctx context.Context, orderIDs []int64, fn func(ctx context.Context, orderID int64))
}

type sequentialFetchPolicy struct {
	delay time.Duration
}

func NewSequentialFetchPolicy(delay time.Duration) FetchPolicy {
	return &sequentialFetchPolicy{delay: delay}
}

func (p *sequentialFetchPolicy) Run(ctx context.Context, orderIDs []int64, fn func(ctx context.Context, orderID int64)) {
	for i, orderID := range orderIDs {
		if ctx.Err() != nil {
			return
		}

		fn(ctx, orderID)

		// Aguardar antes da próxima requisição para evitar sobrecarga na API
		if p.delay > 0 && i < len(orderIDs)-1 {
			time.Sleep(p.delay)
		}
	}
}
