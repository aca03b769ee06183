package webhooking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cachemocks "github.com/vpicolo/fabrica-manager-api/infrastructure/cache/mocks"
	blingmocks "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient/mocks"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

type webhookFixture struct {
	service      Webhooker
	bling        *blingmocks.MockClient
	orderRepo    *mocks.MockOrderRepository
	snapshotRepo *mocks.MockStockSnapshotRepository
	statusRepo   *mocks.MockWebhookStatusRepository
	stockCache   *cachemocks.MockStockCache
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	ctrl := gomock.NewController(t)

	f := &webhookFixture{
		bling:        blingmocks.NewMockClient(ctrl),
		orderRepo:    mocks.NewMockOrderRepository(ctrl),
		snapshotRepo: mocks.NewMockStockSnapshotRepository(ctrl),
		statusRepo:   mocks.NewMockWebhookStatusRepository(ctrl),
		stockCache:   cachemocks.NewMockStockCache(ctrl),
	}

	f.service = NewService(
		config.Webhook{Secret: secret},
		f.bling,
		f.orderRepo,
		f.snapshotRepo,
		f.statusRepo,
		f.stockCache,
	)

	return f
}

func TestService_Process_assinatura(t *testing.T) {
	secret := "segredo"
	body := []byte(`{"event":"pedido_venda.created","data":{"id":55}}`)

	t.Run("Assinatura inválida rejeita sem processar", func(t *testing.T) {
		f := newWebhookFixture(t, secret)

		_, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "sha256=deadbeef")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Cabeçalho ausente com segredo configurado rejeita", func(t *testing.T) {
		f := newWebhookFixture(t, secret)

		_, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Sem segredo configurado a verificação é pulada", func(t *testing.T) {
		f := newWebhookFixture(t, "")

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.created", gomock.Any()).Return(nil)
		f.bling.EXPECT().GetOrder(gomock.Any(), int64(55)).Return(&domain.SalesOrder{ID: 55}, nil)
		f.orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Assinatura válida processa o evento", func(t *testing.T) {
		f := newWebhookFixture(t, secret)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.created", gomock.Any()).Return(nil)
		f.bling.EXPECT().GetOrder(gomock.Any(), int64(55)).Return(&domain.SalesOrder{ID: 55}, nil)
		f.orderRepo.EXPECT().Upsert(gomock.Any()).Return(true, nil)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, signBody(secret, body))
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "pedido_venda.created", result.Event)
		assert.NotEmpty(t, result.ProcessedIn)
	})
}

func TestService_Process_payloadMalformado(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "Corpo vazio", body: nil},
		{name: "JSON inválido", body: []byte(`{invalid`)},
		{name: "Sem nome de evento", body: []byte(`{"data":{"id":1}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture(t, "")

			_, err := f.service.Process(context.Background(), domain.IntegrationBling, tt.body, "")
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestService_Process_eventoDePedido(t *testing.T) {
	t.Run("Evento em português com chave dados", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"evento":"pedido_venda.alterado","dados":{"id":"77"}}`)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.alterado", gomock.Any()).Return(nil)
		f.bling.EXPECT().GetOrder(gomock.Any(), int64(77)).Return(&domain.SalesOrder{ID: 77}, nil)
		f.orderRepo.EXPECT().
			Upsert(gomock.Any()).
			DoAndReturn(func(order *domain.SalesOrder) (bool, error) {
				assert.True(t, order.WebhookSource)
				return false, nil
			})

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Evento de exclusão marca soft delete sem buscar detalhe", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"event":"pedido_venda.deleted","data":{"id":88}}`)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.deleted", gomock.Any()).Return(nil)
		f.orderRepo.EXPECT().SoftDelete(int64(88)).Return(nil)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Evento excluido em português também exclui", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"evento":"pedido_venda.excluido","dados":{"id":89}}`)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.excluido", gomock.Any()).Return(nil)
		f.orderRepo.EXPECT().SoftDelete(int64(89)).Return(nil)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Pedido removido no Bling entre o evento e a busca", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"event":"pedido_venda.created","data":{"id":90}}`)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.created", gomock.Any()).Return(nil)
		f.bling.EXPECT().GetOrder(gomock.Any(), int64(90)).Return(nil, marketplace.ErrNotFound)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("Falha na busca do detalhe retorna sucesso falso sem erro", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"event":"pedido_venda.created","data":{"id":91}}`)

		f.statusRepo.EXPECT().RecordOrderEvent(domain.IntegrationBling, "pedido_venda.created", gomock.Any()).Return(nil)
		f.bling.EXPECT().GetOrder(gomock.Any(), int64(91)).Return(nil, errors.New("timeout"))

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("Evento de pedido sem id", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"event":"pedido_venda.created","data":{}}`)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestService_Process_eventoDeEstoque(t *testing.T) {
	t.Run("Saldos gravados e cache invalidado", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{
			"event": "estoque.alterado",
			"data": {
				"produto": {"codigo": "CANECA-AZ", "nome": "Caneca Azul"},
				"estoque": {"saldoFisicoTotal": 12}
			}
		}`)

		f.snapshotRepo.EXPECT().
			SaveOrUpdate(gomock.Any()).
			DoAndReturn(func(snapshot *domain.StockSnapshot) error {
				assert.Equal(t, "CANECA-AZ", snapshot.SKU)
				assert.Equal(t, float64(12), snapshot.Quantity)
				assert.Equal(t, "estoque.alterado", snapshot.LastEvent)
				assert.NotNil(t, snapshot.WebhookReceivedAt)
				return nil
			})
		f.stockCache.EXPECT().Invalidate(gomock.Any()).Return(nil)
		f.statusRepo.EXPECT().RecordStockEvent(domain.IntegrationBling, "estoque.alterado", "CANECA-AZ").Return(nil)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})

	t.Run("Formato desconhecido de estoque", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		body := []byte(`{"event":"estoque.alterado","data":{"qualquer":"coisa"}}`)

		result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestService_Process_eventoDesconhecidoEhConfirmado(t *testing.T) {
	f := newWebhookFixture(t, "")
	body := []byte(`{"event":"nfe.emitida","data":{"id":1}}`)

	result, err := f.service.Process(context.Background(), domain.IntegrationBling, body, "")
	require.NoError(t, err)

	// Confirmado para o remetente não reenviar, mas nada é processado.
	assert.True(t, result.Success)
	assert.Equal(t, "nfe.emitida", result.Event)
}
