package stocking

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/cache"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

// ErrSnapshotNotFound indica que o SKU nunca teve saldo registrado.
var ErrSnapshotNotFound = errors.New("saldo de estoque não encontrado para o SKU")

type Stocker interface {
	GetSnapshot(ctx context.Context, sku string) (*domain.StockSnapshot, error)
	// RefreshSnapshot busca o saldo diretamente no Bling e sobrescreve
	// o registro local, limpando a marca de desatualizado.
	RefreshSnapshot(ctx context.Context, sku string) (*domain.StockSnapshot, error)
	ListSnapshots(ctx context.Context) ([]*domain.StockSnapshot, error)
	GetThreshold(ctx context.Context, sku string) (*domain.StockThreshold, error)
	SaveThreshold(ctx context.Context, threshold *domain.StockThreshold) error
	// RecordMovement lança uma entrada ou saída no razão de estoque
	// interno. O saldo é calculado dentro da transação do repositório.
	RecordMovement(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error)
	ListMovements(ctx context.Context, sku string, limit int) ([]*domain.InventoryMovement, error)
}

type Service struct {
	bling         blingclient.Client
	snapshotRepo  repository.StockSnapshotRepository
	thresholdRepo repository.StockThresholdRepository
	movementRepo  repository.InventoryMovementRepository
	stockCache    cache.StockCache
}

func NewService(
	bling blingclient.Client,
	snapshotRepo repository.StockSnapshotRepository,
	thresholdRepo repository.StockThresholdRepository,
	movementRepo repository.InventoryMovementRepository,
	stockCache cache.StockCache,
) Stocker {
	return &Service{
		bling:         bling,
		snapshotRepo:  snapshotRepo,
		thresholdRepo: thresholdRepo,
		movementRepo:  movementRepo,
		stockCache:    stockCache,
	}
}

func (s *Service) GetSnapshot(ctx context.Context, sku string) (*domain.StockSnapshot, error) {
	snapshot, err := s.snapshotRepo.GetBySKU(sku)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar saldo de estoque: %w", err)
	}

	if snapshot == nil {
		return nil, ErrSnapshotNotFound
	}

	return snapshot, nil
}

func (s *Service) RefreshSnapshot(ctx context.Context, sku string) (*domain.StockSnapshot, error) {
	snapshot, err := s.bling.GetStockBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar saldo no Bling: %w", err)
	}

	if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
		return nil, fmt.Errorf("erro ao gravar saldo de estoque: %w", err)
	}

	if err := s.stockCache.Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("Erro ao invalidar cache agregado de estoque")
	}

	logrus.WithFields(logrus.Fields{
		"sku":      sku,
		"quantity": snapshot.Quantity,
	}).Info("Saldo de estoque atualizado a partir do Bling")

	return snapshot, nil
}

// ListSnapshots devolve a visão agregada de estoque, servida do cache
// quando disponível.
func (s *Service) ListSnapshots(ctx context.Context) ([]*domain.StockSnapshot, error) {
	cached, found, err := s.stockCache.GetAggregate(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao consultar cache agregado de estoque")
	}
	if found {
		return cached, nil
	}

	snapshots, err := s.snapshotRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao listar saldos de estoque: %w", err)
	}

	if err := s.stockCache.SetAggregate(ctx, snapshots); err != nil {
		logrus.WithError(err).Warn("Erro ao preencher cache agregado de estoque")
	}

	return snapshots, nil
}

func (s *Service) GetThreshold(ctx context.Context, sku string) (*domain.StockThreshold, error) {
	threshold, err := s.thresholdRepo.GetBySKU(sku)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar limites de estoque: %w", err)
	}

	if threshold == nil {
		// Sem limites configurados o SKU nunca dispara produção.
		return &domain.StockThreshold{SKU: sku}, nil
	}

	return threshold, nil
}

func (s *Service) SaveThreshold(ctx context.Context, threshold *domain.StockThreshold) error {
	if threshold.SKU == "" {
		return errors.New("SKU é obrigatório")
	}
	if threshold.StockMin < 0 || threshold.StockMax < 0 {
		return errors.New("limites de estoque não podem ser negativos")
	}
	if threshold.StockMax > 0 && threshold.StockMin > threshold.StockMax {
		return errors.New("limite mínimo não pode exceder o máximo")
	}

	if err := s.thresholdRepo.SaveOrUpdate(threshold); err != nil {
		return fmt.Errorf("erro ao gravar limites de estoque: %w", err)
	}

	return nil
}

func (s *Service) RecordMovement(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error) {
	if movement.SKU == "" {
		return nil, errors.New("SKU é obrigatório")
	}
	if movement.Quantity <= 0 {
		return nil, errors.New("quantidade deve ser positiva")
	}
	if movement.Type != domain.MovementIn && movement.Type != domain.MovementOut {
		return nil, errors.New("tipo de movimentação inválido")
	}

	recorded, err := s.movementRepo.Record(ctx, movement)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sku":      recorded.SKU,
		"type":     recorded.Type,
		"quantity": recorded.Quantity,
		"balance":  recorded.Balance,
	}).Info("Movimentação de estoque registrada")

	return recorded, nil
}

func (s *Service) ListMovements(ctx context.Context, sku string, limit int) ([]*domain.InventoryMovement, error) {
	if sku == "" {
		return nil, errors.New("SKU é obrigatório")
	}

	movements, err := s.movementRepo.ListBySKU(sku, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar movimentações: %w", err)
	}

	return movements, nil
}
