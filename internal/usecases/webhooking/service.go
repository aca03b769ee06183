package webhooking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/cache"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/marketplace"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

var (
	// ErrInvalidSignature indica assinatura HMAC ausente ou incorreta.
	ErrInvalidSignature = errors.New("assinatura do webhook inválida")
	// ErrMalformedPayload indica corpo vazio, ilegível ou incompleto.
	ErrMalformedPayload = errors.New("payload do webhook malformado")
)

// Result é o corpo de resposta devolvido ao remetente do webhook.
// Falhas internas viram Success=false com HTTP 200 para que o
// marketplace não entre em loop de reenvio.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Event       string `json:"event,omitempty"`
	ProcessedIn string `json:"processedIn,omitempty"`
}

type Webhooker interface {
	Process(ctx context.Context, integration domain.Integration, body []byte, signatureHeader string) (*Result, error)
	OrderStatus(integration domain.Integration) (*domain.WebhookStatus, error)
	StockStatus(integration domain.Integration) (*domain.StockWebhookStatus, error)
}

type Service struct {
	cfg          config.Webhook
	bling        blingclient.Client
	orderRepo    repository.OrderRepository
	snapshotRepo repository.StockSnapshotRepository
	statusRepo   repository.WebhookStatusRepository
	stockCache   cache.StockCache
}

func NewService(
	cfg config.Webhook,
	bling blingclient.Client,
	orderRepo repository.OrderRepository,
	snapshotRepo repository.StockSnapshotRepository,
	statusRepo repository.WebhookStatusRepository,
	stockCache cache.StockCache,
) Webhooker {
	return &Service{
		cfg:          cfg,
		bling:        bling,
		orderRepo:    orderRepo,
		snapshotRepo: snapshotRepo,
		statusRepo:   statusRepo,
		stockCache:   stockCache,
	}
}

// eventEnvelope é o corpo externo comum a todos os eventos. O Bling
// alterna entre chaves em inglês e português conforme a versão.
type eventEnvelope struct {
	Event  string          `json:"event"`
	Evento string          `json:"evento"`
	Data   json.RawMessage `json:"data"`
	Dados  json.RawMessage `json:"dados"`
}

func (e *eventEnvelope) eventName() string {
	if e.Event != "" {
		return e.Event
	}
	return e.Evento
}

func (e *eventEnvelope) payload() json.RawMessage {
	if len(e.Data) > 0 {
		return e.Data
	}
	return e.Dados
}

func (s *Service) Process(ctx context.Context, integration domain.Integration, body []byte, signatureHeader string) (*Result, error) {
	startTime := time.Now()

	if s.cfg.Secret != "" {
		if !VerifySignature(s.cfg.Secret, body, signatureHeader) {
			logrus.WithField("integration", integration).Warn("Webhook rejeitado por assinatura inválida")
			return nil, ErrInvalidSignature
		}
	}

	if len(body) == 0 {
		return nil, ErrMalformedPayload
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrMalformedPayload
	}

	event := envelope.eventName()
	if event == "" {
		return nil, ErrMalformedPayload
	}

	logrus.WithFields(logrus.Fields{
		"integration": integration,
		"event":       event,
	}).Info("Webhook recebido")

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("Payload do webhook: %s", utils.PrettyJson(body))
	}

	var result *Result
	switch classifyEvent(event) {
	case domain.WebhookEventOrder:
		result = s.processOrderEvent(ctx, integration, event, envelope.payload())
	case domain.WebhookEventStock:
		result = s.processStockEvent(ctx, integration, event, envelope.payload())
	default:
		// Eventos desconhecidos são confirmados e ignorados para não
		// induzir reenvio pelo marketplace.
		result = &Result{Success: true, Message: "evento não suportado, ignorado"}
	}

	result.Event = event
	result.ProcessedIn = time.Since(startTime).String()
	return result, nil
}

// classifyEvent determina o tipo do evento pelo prefixo do nome.
func classifyEvent(event string) domain.WebhookEventKind {
	switch {
	case strings.HasPrefix(event, "pedido_venda."):
		return domain.WebhookEventOrder
	case strings.HasPrefix(event, "estoque."):
		return domain.WebhookEventStock
	default:
		return domain.WebhookEventUnknown
	}
}

type orderEventPayload struct {
	ID json.Number `json:"id"`
}

func (s *Service) processOrderEvent(ctx context.Context, integration domain.Integration, event string, data json.RawMessage) *Result {
	var payload orderEventPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return &Result{Success: false, Message: "evento de pedido sem id"}
	}

	orderID, err := payload.ID.Int64()
	if err != nil {
		return &Result{Success: false, Message: "id de pedido inválido"}
	}

	if err := s.statusRepo.RecordOrderEvent(integration, event, &orderID); err != nil {
		logrus.WithError(err).Warn("Erro ao atualizar contadores de webhook de pedido")
	}

	if isDeleteAction(event) {
		if err := s.orderRepo.SoftDelete(orderID); err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Error("Erro ao marcar pedido como excluído")
			return &Result{Success: false, Message: "erro ao excluir pedido"}
		}
		return &Result{Success: true, Message: fmt.Sprintf("pedido %d marcado como excluído", orderID)}
	}

	order, err := s.bling.GetOrder(ctx, orderID)
	if err != nil {
		if marketplace.IsNotFound(err) {
			// O pedido pode ter sido removido entre o evento e a busca.
			return &Result{Success: false, Message: fmt.Sprintf("pedido %d não encontrado no Bling", orderID)}
		}
		logrus.WithError(err).WithField("order_id", orderID).Error("Erro ao buscar pedido do webhook")
		return &Result{Success: false, Message: "erro ao buscar detalhe do pedido"}
	}

	order.WebhookSource = true
	if _, err := s.orderRepo.Upsert(order); err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Error("Erro ao gravar pedido do webhook")
		return &Result{Success: false, Message: "erro ao gravar pedido"}
	}

	return &Result{Success: true, Message: fmt.Sprintf("pedido %d sincronizado", orderID)}
}

func isDeleteAction(event string) bool {
	switch event[strings.LastIndex(event, ".")+1:] {
	case "deleted", "excluido":
		return true
	}
	return false
}

func (s *Service) processStockEvent(ctx context.Context, integration domain.Integration, event string, data json.RawMessage) *Result {
	records, err := ParseStockEnvelope(data)
	if err != nil {
		logrus.WithField("event", event).Warn("Evento de estoque com formato desconhecido")
		return &Result{Success: false, Message: "formato de evento de estoque desconhecido"}
	}

	now := time.Now()
	saved := 0
	for _, record := range records {
		snapshot := &domain.StockSnapshot{
			SKU:               record.SKU,
			Name:              record.Name,
			Quantity:          record.Quantity,
			Warehouses:        record.Warehouses,
			LastEvent:         event,
			WebhookReceivedAt: &now,
		}

		if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
			logrus.WithError(err).WithField("sku", record.SKU).Error("Erro ao gravar saldo de estoque do webhook")
			continue
		}
		saved++
	}

	if err := s.stockCache.Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("Erro ao invalidar cache agregado de estoque")
	}

	lastProcessed := records[len(records)-1].SKU
	if err := s.statusRepo.RecordStockEvent(integration, event, lastProcessed); err != nil {
		logrus.WithError(err).Warn("Erro ao atualizar contadores de webhook de estoque")
	}

	if saved == 0 {
		return &Result{Success: false, Message: "nenhum saldo de estoque gravado"}
	}

	return &Result{Success: true, Message: fmt.Sprintf("%d saldo(s) de estoque atualizados", saved)}
}

func (s *Service) OrderStatus(integration domain.Integration) (*domain.WebhookStatus, error) {
	return s.statusRepo.GetOrderStatus(integration)
}

func (s *Service) StockStatus(integration domain.Integration) (*domain.StockWebhookStatus, error) {
	return s.statusRepo.GetStockStatus(integration)
}
