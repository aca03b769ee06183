package demanding

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

// Demander calcula a demanda de produção a partir dos pedidos faturados.
type Demander interface {
	ComputeDemand(ctx context.Context, startDate, endDate time.Time) ([]*domain.DemandRow, error)
}

type Service struct {
	orderRepo     repository.OrderRepository
	snapshotRepo  repository.StockSnapshotRepository
	thresholdRepo repository.StockThresholdRepository
}

func NewService(
	orderRepo repository.OrderRepository,
	snapshotRepo repository.StockSnapshotRepository,
	thresholdRepo repository.StockThresholdRepository,
) Demander {
	return &Service{
		orderRepo:     orderRepo,
		snapshotRepo:  snapshotRepo,
		thresholdRepo: thresholdRepo,
	}
}

// skuAccumulator agrega as vendas de um SKU dentro do período.
type skuAccumulator struct {
	description string
	orderIDs    map[int64]bool
	totalSold   float64
}

// ComputeDemand é um cálculo puramente de leitura, refeito a cada
// chamada: pedidos ativos com nota fiscal no período, agrupados por
// SKU, cruzados com os limites configurados e o último saldo conhecido.
func (s *Service) ComputeDemand(ctx context.Context, startDate, endDate time.Time) ([]*domain.DemandRow, error) {
	orders, err := s.orderRepo.ListInvoicedInRange(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos faturados: %w", err)
	}

	accumulators := make(map[string]*skuAccumulator)
	for _, order := range orders {
		for _, item := range order.Items {
			if item.SKU == "" {
				continue
			}

			acc, ok := accumulators[item.SKU]
			if !ok {
				acc = &skuAccumulator{
					description: item.Description,
					orderIDs:    make(map[int64]bool),
				}
				accumulators[item.SKU] = acc
			}

			acc.orderIDs[order.ID] = true
			acc.totalSold += item.Quantity
		}
	}

	if len(accumulators) == 0 {
		return []*domain.DemandRow{}, nil
	}

	skus := make([]string, 0, len(accumulators))
	for sku := range accumulators {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	thresholds, err := s.thresholdRepo.GetBySKUs(skus)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar limites de estoque: %w", err)
	}

	snapshots, err := s.snapshotRepo.GetBySKUs(skus)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar saldos de estoque: %w", err)
	}

	weeks := weeksInRange(startDate, endDate)

	rows := make([]*domain.DemandRow, 0, len(skus))
	for _, sku := range skus {
		acc := accumulators[sku]

		row := &domain.DemandRow{
			SKU:               sku,
			Description:       acc.description,
			OrderCount:        len(acc.orderIDs),
			TotalQuantitySold: acc.totalSold,
			WeeklyAverage:     utils.RoundWithTwoDecimalPlace(acc.totalSold / weeks),
		}

		if threshold, ok := thresholds[sku]; ok {
			row.StockMin = threshold.StockMin
			row.StockMax = threshold.StockMax
		}
		if snapshot, ok := snapshots[sku]; ok {
			row.StockLevel = snapshot.Quantity
		}

		row.NeedsProduction = domain.ComputeNeedsProduction(row.StockLevel, row.StockMin, row.StockMax)
		rows = append(rows, row)
	}

	logrus.WithFields(logrus.Fields{
		"start_date": startDate.Format(time.DateOnly),
		"end_date":   endDate.Format(time.DateOnly),
		"orders":     len(orders),
		"skus":       len(rows),
	}).Info("Demanda de produção calculada")

	return rows, nil
}

// weeksInRange converte o período em semanas, com piso de uma semana
// para não inflar a média de janelas curtas.
func weeksInRange(startDate, endDate time.Time) float64 {
	weeks := math.Floor(endDate.Sub(startDate).Hours() / (24 * 7))
	return math.Max(1, weeks)
}
