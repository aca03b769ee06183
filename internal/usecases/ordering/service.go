package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// ErrOrderNotFound indica que o pedido não existe localmente.
var ErrOrderNotFound = errors.New("pedido não encontrado")

// Orderer expõe a consulta de pedidos sincronizados. Pedidos apagados
// ficam fora das listagens mas continuam acessíveis por ID.
type Orderer interface {
	ListOrders(ctx context.Context, startDate, endDate *time.Time) ([]*domain.SalesOrder, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.SalesOrder, error)
}

type Service struct {
	orderRepo repository.OrderRepository
}

func NewService(orderRepo repository.OrderRepository) Orderer {
	return &Service{orderRepo: orderRepo}
}

func (s *Service) ListOrders(ctx context.Context, startDate, endDate *time.Time) ([]*domain.SalesOrder, error) {
	orders, err := s.orderRepo.ListActive(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos: %w", err)
	}

	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.SalesOrder, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pedido: %w", err)
	}

	if order == nil {
		return nil, ErrOrderNotFound
	}

	return order, nil
}
