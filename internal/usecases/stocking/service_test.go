package stocking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cachemocks "github.com/vpicolo/fabrica-manager-api/infrastructure/cache/mocks"
	blingmocks "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient/mocks"
	repomocks "github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

type stockingFixture struct {
	bling         *blingmocks.MockClient
	snapshotRepo  *repomocks.MockStockSnapshotRepository
	thresholdRepo *repomocks.MockStockThresholdRepository
	movementRepo  *repomocks.MockInventoryMovementRepository
	stockCache    *cachemocks.MockStockCache
	service       Stocker
}

func newStockingFixture(t *testing.T) *stockingFixture {
	ctrl := gomock.NewController(t)

	f := &stockingFixture{
		bling:         blingmocks.NewMockClient(ctrl),
		snapshotRepo:  repomocks.NewMockStockSnapshotRepository(ctrl),
		thresholdRepo: repomocks.NewMockStockThresholdRepository(ctrl),
		movementRepo:  repomocks.NewMockInventoryMovementRepository(ctrl),
		stockCache:    cachemocks.NewMockStockCache(ctrl),
	}

	f.service = NewService(f.bling, f.snapshotRepo, f.thresholdRepo, f.movementRepo, f.stockCache)
	return f
}

func TestGetSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("retorna o saldo persistido do SKU", func(t *testing.T) {
		f := newStockingFixture(t)

		f.snapshotRepo.EXPECT().GetBySKU("CANECA-AZ").Return(&domain.StockSnapshot{
			SKU:      "CANECA-AZ",
			Quantity: 42,
		}, nil)

		snapshot, err := f.service.GetSnapshot(ctx, "CANECA-AZ")
		require.NoError(t, err)
		assert.Equal(t, "CANECA-AZ", snapshot.SKU)
		assert.Equal(t, float64(42), snapshot.Quantity)
	})

	t.Run("SKU sem saldo registrado retorna ErrSnapshotNotFound", func(t *testing.T) {
		f := newStockingFixture(t)

		f.snapshotRepo.EXPECT().GetBySKU("CANECA-VD").Return(nil, nil)

		_, err := f.service.GetSnapshot(ctx, "CANECA-VD")
		assert.ErrorIs(t, err, ErrSnapshotNotFound)
	})

	t.Run("erro do repositório é propagado", func(t *testing.T) {
		f := newStockingFixture(t)

		f.snapshotRepo.EXPECT().GetBySKU("CANECA-AZ").Return(nil, errors.New("conexão recusada"))

		_, err := f.service.GetSnapshot(ctx, "CANECA-AZ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao buscar saldo de estoque")
	})
}

func TestRefreshSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("busca no Bling, persiste e invalida o cache agregado", func(t *testing.T) {
		f := newStockingFixture(t)

		remote := &domain.StockSnapshot{SKU: "CANECA-AZ", Quantity: 17}

		f.bling.EXPECT().GetStockBySKU(ctx, "CANECA-AZ").Return(remote, nil)
		f.snapshotRepo.EXPECT().SaveOrUpdate(remote).Return(nil)
		f.stockCache.EXPECT().Invalidate(ctx).Return(nil)

		snapshot, err := f.service.RefreshSnapshot(ctx, "CANECA-AZ")
		require.NoError(t, err)
		assert.Equal(t, float64(17), snapshot.Quantity)
	})

	t.Run("falha do Bling não grava nada", func(t *testing.T) {
		f := newStockingFixture(t)

		f.bling.EXPECT().GetStockBySKU(ctx, "CANECA-AZ").Return(nil, errors.New("timeout"))

		_, err := f.service.RefreshSnapshot(ctx, "CANECA-AZ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao buscar saldo no Bling")
	})

	t.Run("falha na invalidação do cache não derruba a operação", func(t *testing.T) {
		f := newStockingFixture(t)

		remote := &domain.StockSnapshot{SKU: "CANECA-AZ", Quantity: 3}

		f.bling.EXPECT().GetStockBySKU(ctx, "CANECA-AZ").Return(remote, nil)
		f.snapshotRepo.EXPECT().SaveOrUpdate(remote).Return(nil)
		f.stockCache.EXPECT().Invalidate(ctx).Return(errors.New("redis fora do ar"))

		snapshot, err := f.service.RefreshSnapshot(ctx, "CANECA-AZ")
		require.NoError(t, err)
		assert.Equal(t, "CANECA-AZ", snapshot.SKU)
	})
}

func TestListSnapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("serve do cache agregado quando disponível", func(t *testing.T) {
		f := newStockingFixture(t)

		cached := []*domain.StockSnapshot{{SKU: "CANECA-AZ", Quantity: 5}}
		f.stockCache.EXPECT().GetAggregate(ctx).Return(cached, true, nil)

		snapshots, err := f.service.ListSnapshots(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, snapshots)
	})

	t.Run("cache vazio consulta o banco e preenche o cache", func(t *testing.T) {
		f := newStockingFixture(t)

		stored := []*domain.StockSnapshot{
			{SKU: "CANECA-AZ", Quantity: 5},
			{SKU: "CANECA-VD", Quantity: 12},
		}

		f.stockCache.EXPECT().GetAggregate(ctx).Return(nil, false, nil)
		f.snapshotRepo.EXPECT().ListAll().Return(stored, nil)
		f.stockCache.EXPECT().SetAggregate(ctx, stored).Return(nil)

		snapshots, err := f.service.ListSnapshots(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshots, 2)
	})

	t.Run("erro do cache degrada para o banco", func(t *testing.T) {
		f := newStockingFixture(t)

		stored := []*domain.StockSnapshot{{SKU: "CANECA-AZ", Quantity: 5}}

		f.stockCache.EXPECT().GetAggregate(ctx).Return(nil, false, errors.New("redis fora do ar"))
		f.snapshotRepo.EXPECT().ListAll().Return(stored, nil)
		f.stockCache.EXPECT().SetAggregate(ctx, stored).Return(errors.New("redis fora do ar"))

		snapshots, err := f.service.ListSnapshots(ctx)
		require.NoError(t, err)
		assert.Equal(t, stored, snapshots)
	})
}

func TestThresholds(t *testing.T) {
	ctx := context.Background()

	t.Run("SKU sem limites configurados recebe valores zerados", func(t *testing.T) {
		f := newStockingFixture(t)

		f.thresholdRepo.EXPECT().GetBySKU("CANECA-AZ").Return(nil, nil)

		threshold, err := f.service.GetThreshold(ctx, "CANECA-AZ")
		require.NoError(t, err)
		assert.Equal(t, "CANECA-AZ", threshold.SKU)
		assert.Zero(t, threshold.StockMin)
		assert.Zero(t, threshold.StockMax)
	})

	t.Run("limites existentes são devolvidos como estão", func(t *testing.T) {
		f := newStockingFixture(t)

		f.thresholdRepo.EXPECT().GetBySKU("CANECA-AZ").Return(&domain.StockThreshold{
			SKU:      "CANECA-AZ",
			StockMin: 10,
			StockMax: 50,
		}, nil)

		threshold, err := f.service.GetThreshold(ctx, "CANECA-AZ")
		require.NoError(t, err)
		assert.Equal(t, float64(10), threshold.StockMin)
		assert.Equal(t, float64(50), threshold.StockMax)
	})
}

func TestSaveThreshold(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		threshold *domain.StockThreshold
		persists  bool
		errMsg    string
	}{
		{
			name:      "limites válidos são persistidos",
			threshold: &domain.StockThreshold{SKU: "CANECA-AZ", StockMin: 10, StockMax: 50},
			persists:  true,
		},
		{
			name:      "máximo zero significa sem teto",
			threshold: &domain.StockThreshold{SKU: "CANECA-AZ", StockMin: 10, StockMax: 0},
			persists:  true,
		},
		{
			name:      "SKU vazio é rejeitado",
			threshold: &domain.StockThreshold{StockMin: 10, StockMax: 50},
			errMsg:    "SKU é obrigatório",
		},
		{
			name:      "limites negativos são rejeitados",
			threshold: &domain.StockThreshold{SKU: "CANECA-AZ", StockMin: -1, StockMax: 50},
			errMsg:    "não podem ser negativos",
		},
		{
			name:      "mínimo maior que o máximo é rejeitado",
			threshold: &domain.StockThreshold{SKU: "CANECA-AZ", StockMin: 60, StockMax: 50},
			errMsg:    "não pode exceder o máximo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStockingFixture(t)

			if tt.persists {
				f.thresholdRepo.EXPECT().SaveOrUpdate(tt.threshold).Return(nil)
			}

			err := f.service.SaveThreshold(ctx, tt.threshold)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("lançamento válido devolve o saldo calculado", func(t *testing.T) {
		f := newStockingFixture(t)

		movement := &domain.InventoryMovement{
			SKU:      "CANECA-AZ",
			Type:     domain.MovementIn,
			Quantity: 10,
			Reason:   "produção da semana",
		}

		f.movementRepo.EXPECT().Record(ctx, movement).Return(&domain.InventoryMovement{
			ID:        7,
			SKU:       "CANECA-AZ",
			Type:      domain.MovementIn,
			Quantity:  10,
			Balance:   32,
			Reason:    "produção da semana",
			CreatedAt: time.Now(),
		}, nil)

		recorded, err := f.service.RecordMovement(ctx, movement)
		require.NoError(t, err)
		assert.Equal(t, int64(7), recorded.ID)
		assert.Equal(t, float64(32), recorded.Balance)
	})

	tests := []struct {
		name     string
		movement *domain.InventoryMovement
		errMsg   string
	}{
		{
			name:     "SKU vazio é rejeitado",
			movement: &domain.InventoryMovement{Type: domain.MovementIn, Quantity: 1},
			errMsg:   "SKU é obrigatório",
		},
		{
			name:     "quantidade zero é rejeitada",
			movement: &domain.InventoryMovement{SKU: "CANECA-AZ", Type: domain.MovementOut, Quantity: 0},
			errMsg:   "quantidade deve ser positiva",
		},
		{
			name:     "quantidade negativa é rejeitada",
			movement: &domain.InventoryMovement{SKU: "CANECA-AZ", Type: domain.MovementOut, Quantity: -3},
			errMsg:   "quantidade deve ser positiva",
		},
		{
			name:     "tipo desconhecido é rejeitado",
			movement: &domain.InventoryMovement{SKU: "CANECA-AZ", Type: "transfer", Quantity: 1},
			errMsg:   "tipo de movimentação inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStockingFixture(t)

			_, err := f.service.RecordMovement(ctx, tt.movement)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestListMovements(t *testing.T) {
	ctx := context.Background()

	t.Run("lista as movimentações do SKU com limite", func(t *testing.T) {
		f := newStockingFixture(t)

		f.movementRepo.EXPECT().ListBySKU("CANECA-AZ", 20).Return([]*domain.InventoryMovement{
			{ID: 2, SKU: "CANECA-AZ", Type: domain.MovementOut, Quantity: 5, Balance: 27},
			{ID: 1, SKU: "CANECA-AZ", Type: domain.MovementIn, Quantity: 10, Balance: 32},
		}, nil)

		movements, err := f.service.ListMovements(ctx, "CANECA-AZ", 20)
		require.NoError(t, err)
		assert.Len(t, movements, 2)
	})

	t.Run("SKU vazio é rejeitado", func(t *testing.T) {
		f := newStockingFixture(t)

		_, err := f.service.ListMovements(ctx, "", 20)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU é obrigatório")
	})
}
