package demanding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string {
	return &s
}

func newDemandFixture(t *testing.T) (Demander, *mocks.MockOrderRepository, *mocks.MockStockSnapshotRepository, *mocks.MockStockThresholdRepository) {
	ctrl := gomock.NewController(t)

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	snapshotRepo := mocks.NewMockStockSnapshotRepository(ctrl)
	thresholdRepo := mocks.NewMockStockThresholdRepository(ctrl)

	return NewService(orderRepo, snapshotRepo, thresholdRepo), orderRepo, snapshotRepo, thresholdRepo
}

func TestService_ComputeDemand_agregaPorSKU(t *testing.T) {
	service, orderRepo, snapshotRepo, thresholdRepo := newDemandFixture(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14) // duas semanas

	orders := []*domain.SalesOrder{
		{
			ID:            1,
			InvoiceNumber: strPtr("NF-1"),
			Items: []domain.OrderItem{
				{SKU: "CANECA-AZ", Description: "Caneca Azul", Quantity: 4},
				{SKU: "CAMISA-P", Description: "Camisa P", Quantity: 2},
			},
		},
		{
			ID:            2,
			InvoiceNumber: strPtr("NF-2"),
			Items: []domain.OrderItem{
				{SKU: "CANECA-AZ", Description: "Caneca Azul", Quantity: 6},
				{SKU: "", Description: "Item avulso sem código", Quantity: 1},
			},
		},
	}

	orderRepo.EXPECT().ListInvoicedInRange(start, end).Return(orders, nil)

	thresholdRepo.EXPECT().
		GetBySKUs([]string{"CAMISA-P", "CANECA-AZ"}).
		Return(map[string]*domain.StockThreshold{
			"CANECA-AZ": {SKU: "CANECA-AZ", StockMin: 20, StockMax: 100},
		}, nil)

	snapshotRepo.EXPECT().
		GetBySKUs([]string{"CAMISA-P", "CANECA-AZ"}).
		Return(map[string]*domain.StockSnapshot{
			"CANECA-AZ": {SKU: "CANECA-AZ", Quantity: 8},
		}, nil)

	rows, err := service.ComputeDemand(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordenado por SKU.
	camisa, caneca := rows[0], rows[1]

	assert.Equal(t, "CAMISA-P", camisa.SKU)
	assert.Equal(t, 1, camisa.OrderCount)
	assert.Equal(t, float64(2), camisa.TotalQuantitySold)
	assert.Equal(t, float64(1), camisa.WeeklyAverage)
	// Sem limites configurados nunca dispara produção.
	assert.False(t, camisa.NeedsProduction)

	assert.Equal(t, "CANECA-AZ", caneca.SKU)
	assert.Equal(t, "Caneca Azul", caneca.Description)
	assert.Equal(t, 2, caneca.OrderCount)
	assert.Equal(t, float64(10), caneca.TotalQuantitySold)
	assert.Equal(t, float64(5), caneca.WeeklyAverage)
	assert.Equal(t, float64(8), caneca.StockLevel)
	assert.Equal(t, float64(20), caneca.StockMin)
	assert.Equal(t, float64(100), caneca.StockMax)
	assert.True(t, caneca.NeedsProduction)
}

func TestService_ComputeDemand_semPedidosNaJanela(t *testing.T) {
	service, orderRepo, _, _ := newDemandFixture(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	orderRepo.EXPECT().ListInvoicedInRange(start, end).Return(nil, nil)

	rows, err := service.ComputeDemand(context.Background(), start, end)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestService_ComputeDemand_janelaCurtaUsaPisoDeUmaSemana(t *testing.T) {
	service, orderRepo, snapshotRepo, thresholdRepo := newDemandFixture(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2) // menos de uma semana

	orderRepo.EXPECT().ListInvoicedInRange(start, end).Return([]*domain.SalesOrder{
		{
			ID:            1,
			InvoiceNumber: strPtr("NF-1"),
			Items:         []domain.OrderItem{{SKU: "BONE-01", Quantity: 3}},
		},
	}, nil)
	thresholdRepo.EXPECT().GetBySKUs([]string{"BONE-01"}).Return(map[string]*domain.StockThreshold{}, nil)
	snapshotRepo.EXPECT().GetBySKUs([]string{"BONE-01"}).Return(map[string]*domain.StockSnapshot{}, nil)

	rows, err := service.ComputeDemand(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Janela de dois dias conta como uma semana inteira.
	assert.Equal(t, float64(3), rows[0].WeeklyAverage)
}

func TestComputeNeedsProduction_bordas(t *testing.T) {
	tests := []struct {
		name       string
		stockLevel float64
		needs      bool
	}{
		{name: "Abaixo do mínimo dispara", stockLevel: 9, needs: true},
		{name: "Igual ao mínimo não dispara", stockLevel: 10, needs: false},
		{name: "Entre mínimo e máximo não dispara", stockLevel: 30, needs: false},
		{name: "Igual ao máximo não dispara", stockLevel: 50, needs: false},
		{name: "Acima do máximo não dispara", stockLevel: 51, needs: false},
		{name: "Zerado dispara", stockLevel: 0, needs: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.needs, domain.ComputeNeedsProduction(tt.stockLevel, 10, 50))
		})
	}
}
