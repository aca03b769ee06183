package syncing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cachemocks "github.com/vpicolo/fabrica-manager-api/infrastructure/cache/mocks"
	blingdomain "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/domain"
	blingmocks "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient/mocks"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*Service, *blingmocks.MockClient, *mocks.MockOrderRepository, *cachemocks.MockProgressStore) {
	ctrl := gomock.NewController(t)

	bling := blingmocks.NewMockClient(ctrl)
	orderRepo := mocks.NewMockOrderRepository(ctrl)
	progressStore := cachemocks.NewMockProgressStore(ctrl)

	service := NewService(config.OrderSync{PageSize: 100}, bling, orderRepo, progressStore)
	service.SetFetchPolicy(NewSequentialFetchPolicy(0))

	return service, bling, orderRepo, progressStore
}

func summaries(ids ...int64) []blingdomain.OrderSummary {
	out := make([]blingdomain.OrderSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, blingdomain.OrderSummary{ID: id})
	}
	return out
}

func TestService_SmartSync_buscaApenasPedidosNovos(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(summaries(10, 20, 30), nil)

	// 10 e 30 já existem localmente; no modo incremental só o 20 é buscado.
	orderRepo.EXPECT().
		ExistingIDs([]int64{10, 20, 30}).
		Return(map[int64]bool{10: true, 30: true}, nil)

	bling.EXPECT().
		GetOrder(gomock.Any(), int64(20)).
		Return(&domain.SalesOrder{ID: 20, Number: "20"}, nil)

	orderRepo.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(order *domain.SalesOrder) (bool, error) {
			assert.Equal(t, int64(20), order.ID)
			return true, nil
		})

	summary, err := service.SmartSync(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.New)
	assert.Equal(t, 2, summary.Existing)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
}

func TestService_FullSync_reprocessaPedidosExistentes(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(summaries(10, 20), nil)

	orderRepo.EXPECT().
		ExistingIDs([]int64{10, 20}).
		Return(map[int64]bool{10: true}, nil)

	// Modo completo busca todos, inclusive os conhecidos.
	bling.EXPECT().GetOrder(gomock.Any(), int64(10)).Return(&domain.SalesOrder{ID: 10}, nil)
	bling.EXPECT().GetOrder(gomock.Any(), int64(20)).Return(&domain.SalesOrder{ID: 20}, nil)

	gomock.InOrder(
		orderRepo.EXPECT().Upsert(gomock.Any()).Return(false, nil),
		orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil),
	)

	summary, err := service.FullSync(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.New)
	assert.Equal(t, 1, summary.Existing)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
}

func TestService_SmartSync_baseVaziaCriaTodos(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(summaries(1, 2), nil)

	orderRepo.EXPECT().
		ExistingIDs([]int64{1, 2}).
		Return(map[int64]bool{}, nil)

	bling.EXPECT().GetOrder(gomock.Any(), int64(1)).Return(&domain.SalesOrder{ID: 1}, nil)
	bling.EXPECT().GetOrder(gomock.Any(), int64(2)).Return(&domain.SalesOrder{ID: 2}, nil)

	orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil).Times(2)

	summary, err := service.SmartSync(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.New)
	assert.Equal(t, 0, summary.Existing)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Failed)
}

func TestService_FullSync_exigePeriodo(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.FullSync(context.Background(), time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrMissingDateRange)
}

func TestService_SmartSync_falhaPontualNaoInterrompe(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(summaries(1, 2, 3), nil)

	orderRepo.EXPECT().
		ExistingIDs([]int64{1, 2, 3}).
		Return(map[int64]bool{}, nil)

	bling.EXPECT().GetOrder(gomock.Any(), int64(1)).Return(&domain.SalesOrder{ID: 1}, nil)
	bling.EXPECT().GetOrder(gomock.Any(), int64(2)).Return(nil, errors.New("timeout"))
	bling.EXPECT().GetOrder(gomock.Any(), int64(3)).Return(&domain.SalesOrder{ID: 3}, nil)

	orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil).Times(2)

	summary, err := service.SmartSync(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.New)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Failed)
}

func TestService_SmartSync_paginaAteListagemCurta(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// Primeira página cheia, segunda curta encerra a paginação.
	fullPage := make([]blingdomain.OrderSummary, 100)
	ids := make([]int64, 0, 101)
	for i := range fullPage {
		fullPage[i] = blingdomain.OrderSummary{ID: int64(i + 1)}
		ids = append(ids, int64(i+1))
	}
	ids = append(ids, 101)

	gomock.InOrder(
		bling.EXPECT().ListOrders(gomock.Any(), start, end, 1, 100).Return(fullPage, nil),
		bling.EXPECT().ListOrders(gomock.Any(), start, end, 2, 100).Return(summaries(101), nil),
	)

	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	orderRepo.EXPECT().ExistingIDs(ids).Return(existing, nil)

	summary, err := service.SmartSync(context.Background(), &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 101, summary.Total)
	assert.Equal(t, 0, summary.New)
	assert.Equal(t, 101, summary.Existing)
}

func TestService_run_execucaoUnicaPorVez(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	started := make(chan struct{})
	release := make(chan struct{})

	progressStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		DoAndReturn(func(context.Context, time.Time, time.Time, int, int) ([]blingdomain.OrderSummary, error) {
			close(started)
			<-release
			return nil, nil
		})

	orderRepo.EXPECT().ExistingIDs([]int64{}).Return(map[int64]bool{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.SmartSync(context.Background(), &start, &end)
		done <- err
	}()

	<-started
	assert.True(t, service.IsRunning())

	_, err := service.SmartSync(context.Background(), &start, &end)
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)

	_, err = service.DeleteAllOrders(context.Background())
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, service.IsRunning())
}

func TestService_progressoMonotonicoPorFase(t *testing.T) {
	service, bling, orderRepo, progressStore := newTestService(t)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	var published []domain.SyncProgress
	progressStore.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.SyncProgress) error {
			published = append(published, *p)
			return nil
		}).
		AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(summaries(1, 2), nil)

	orderRepo.EXPECT().ExistingIDs([]int64{1, 2}).Return(map[int64]bool{}, nil)

	bling.EXPECT().GetOrder(gomock.Any(), int64(1)).Return(&domain.SalesOrder{ID: 1}, nil)
	bling.EXPECT().GetOrder(gomock.Any(), int64(2)).Return(&domain.SalesOrder{ID: 2}, nil)
	orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil).Times(2)

	_, err := service.SmartSync(context.Background(), &start, &end)
	require.NoError(t, err)

	require.NotEmpty(t, published)

	// As fases nunca retrocedem e o percentual nunca regride.
	for i := 1; i < len(published); i++ {
		previous, current := published[i-1], published[i]
		assert.False(t, current.Phase.Before(previous.Phase),
			"fase %s publicada depois de %s", current.Phase, previous.Phase)
		assert.GreaterOrEqual(t, current.Percentage, previous.Percentage)
		assert.Equal(t, published[0].RunID, current.RunID)
	}

	last := published[len(published)-1]
	assert.Equal(t, domain.SyncPhaseCompleted, last.Phase)
	assert.False(t, last.IsRunning)
	assert.Equal(t, float64(100), last.Percentage)
	assert.NotNil(t, last.CompletedAt)
}

func TestService_SmartSync_errodeListagemPublicaFalha(t *testing.T) {
	service, bling, _, progressStore := newTestService(t)

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)

	var last *domain.SyncProgress
	progressStore.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.SyncProgress) error {
			snapshot := *p
			last = &snapshot
			return nil
		}).
		AnyTimes()

	bling.EXPECT().
		ListOrders(gomock.Any(), start, end, 1, 100).
		Return(nil, errors.New("api indisponível"))

	_, err := service.SmartSync(context.Background(), &start, &end)
	require.Error(t, err)

	require.NotNil(t, last)
	assert.Equal(t, domain.SyncPhaseError, last.Phase)
	assert.False(t, last.IsRunning)
	assert.Contains(t, last.Error, "api indisponível")
	assert.False(t, service.IsRunning())
}

func TestService_resolveSmartStart(t *testing.T) {
	latest := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startDate *time.Time
		setup     func(orderRepo *mocks.MockOrderRepository)
		validate  func(t *testing.T, start time.Time)
	}{
		{
			name:      "Data explícita tem precedência",
			startDate: &latest,
			setup:     func(orderRepo *mocks.MockOrderRepository) {},
			validate: func(t *testing.T, start time.Time) {
				assert.Equal(t, latest, start)
			},
		},
		{
			name: "Sem data usa a emissão mais recente gravada",
			setup: func(orderRepo *mocks.MockOrderRepository) {
				orderRepo.EXPECT().LatestIssueDate().Return(&latest, nil)
			},
			validate: func(t *testing.T, start time.Time) {
				assert.Equal(t, latest, start)
			},
		},
		{
			name: "Base vazia retrocede o padrão de 30 dias",
			setup: func(orderRepo *mocks.MockOrderRepository) {
				orderRepo.EXPECT().LatestIssueDate().Return(nil, nil)
			},
			validate: func(t *testing.T, start time.Time) {
				expected := time.Now().AddDate(0, 0, -defaultLookbackDays)
				assert.WithinDuration(t, expected, start, time.Minute)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, orderRepo, _ := newTestService(t)
			tt.setup(orderRepo)

			start, err := service.resolveSmartStart(tt.startDate)
			require.NoError(t, err)
			tt.validate(t, start)
		})
	}
}

func TestService_Progress_semExecucaoRetornaOcioso(t *testing.T) {
	service, _, _, progressStore := newTestService(t)

	progressStore.EXPECT().Get(gomock.Any()).Return(nil, nil)

	progress, err := service.Progress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SyncPhaseIdle, progress.Phase)
	assert.False(t, progress.IsRunning)
}

func TestService_DeleteAllOrders(t *testing.T) {
	service, _, orderRepo, progressStore := newTestService(t)

	orderRepo.EXPECT().DeleteAll().Return(int64(42), nil)
	progressStore.EXPECT().Clear(gomock.Any()).Return(nil)

	deleted, err := service.DeleteAllOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), deleted)
}
