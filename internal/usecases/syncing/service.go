package syncing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/cache"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient"
	blingdomain "github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/domain"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"github.com/vpicolo/fabrica-manager-api/pkg/utils"
)

// ErrSyncAlreadyRunning indica que já existe uma execução em andamento.
// Apenas uma sincronização pode rodar por vez.
var ErrSyncAlreadyRunning = errors.New("sincronização de pedidos já em andamento")

// ErrMissingDateRange indica que a sincronização completa foi disparada
// sem o período obrigatório.
var ErrMissingDateRange = errors.New("período obrigatório para sincronização completa")

const defaultLookbackDays = 30

type OrderSyncer interface {
	// SmartSync busca apenas pedidos ainda desconhecidos localmente a
	// partir da data de emissão mais recente já gravada.
	SmartSync(ctx context.Context, startDate, endDate *time.Time) (*domain.SyncSummary, error)
	// FullSync reprocessa todos os pedidos do período informado.
	FullSync(ctx context.Context, startDate, endDate time.Time) (*domain.SyncSummary, error)
	Progress(ctx context.Context) (*domain.SyncProgress, error)
	DeleteAllOrders(ctx context.Context) (int64, error)
	IsRunning() bool
}

type Service struct {
	cfg           config.OrderSync
	bling         blingclient.Client
	orderRepo     repository.OrderRepository
	progressStore cache.ProgressStore
	fetchPolicy   FetchPolicy

	syncMutex   sync.Mutex
	syncRunning bool

	progressMutex sync.Mutex
	progress      *domain.SyncProgress
}

func NewService(
	cfg config.OrderSync,
	bling blingclient.Client,
	orderRepo repository.OrderRepository,
	progressStore cache.ProgressStore,
) *Service {
	return &Service{
		cfg:           cfg,
		bling:         bling,
		orderRepo:     orderRepo,
		progressStore: progressStore,
		fetchPolicy:   NewSequentialFetchPolicy(time.Duration(cfg.RequestDelaySeconds) * time.Second),
	}
}

// SetFetchPolicy troca a política de busca de detalhes. Deve ser chamado
// antes da primeira execução.
func (s *Service) SetFetchPolicy(policy FetchPolicy) {
	s.fetchPolicy = policy
}

func (s *Service) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

func (s *Service) SmartSync(ctx context.Context, startDate, endDate *time.Time) (*domain.SyncSummary, error) {
	start, err := s.resolveSmartStart(startDate)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	if endDate != nil {
		end = *endDate
	}

	return s.run(ctx, domain.SyncModeSmart, start, end)
}

func (s *Service) FullSync(ctx context.Context, startDate, endDate time.Time) (*domain.SyncSummary, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, ErrMissingDateRange
	}

	return s.run(ctx, domain.SyncModeFull, startDate, endDate)
}

// resolveSmartStart determina o início efetivo da janela incremental: a
// data informada, a emissão mais recente já gravada, ou o retrocesso
// padrão quando a base está vazia.
func (s *Service) resolveSmartStart(startDate *time.Time) (time.Time, error) {
	if startDate != nil {
		return *startDate, nil
	}

	latest, err := s.orderRepo.LatestIssueDate()
	if err != nil {
		return time.Time{}, fmt.Errorf("erro ao buscar a última data de emissão: %w", err)
	}

	if latest != nil {
		return *latest, nil
	}

	lookback := s.cfg.LookbackDays
	if lookback <= 0 {
		lookback = defaultLookbackDays
	}
	return time.Now().AddDate(0, 0, -lookback), nil
}

func (s *Service) run(ctx context.Context, mode domain.SyncMode, startDate, endDate time.Time) (*domain.SyncSummary, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrSyncAlreadyRunning
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o id da execução: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":     runID,
		"mode":       mode,
		"start_date": startDate.Format(time.DateOnly),
		"end_date":   endDate.Format(time.DateOnly),
	}).Info("Iniciando sincronização de pedidos")

	s.startProgress(ctx, runID, mode)

	summary, err := s.execute(ctx, runID, mode, startDate, endDate)
	if err != nil {
		s.failProgress(ctx, err)
		logrus.WithError(err).WithField("run_id", runID).Error("Sincronização de pedidos interrompida")
		return nil, err
	}

	s.completeProgress(ctx)

	logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"total":    summary.Total,
		"new":      summary.New,
		"existing": summary.Existing,
		"created":  summary.Created,
		"updated":  summary.Updated,
		"failed":   summary.Failed,
	}).Info("Sincronização de pedidos concluída")

	return summary, nil
}

func (s *Service) execute(ctx context.Context, runID string, mode domain.SyncMode, startDate, endDate time.Time) (*domain.SyncSummary, error) {
	summary := &domain.SyncSummary{RunID: runID}

	// Fase de listagem: paginação até página curta.
	s.updateProgress(ctx, domain.SyncPhaseListing, "Listando pedidos no período", 0, 0)

	summaries, err := s.listAllOrders(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos: %w", err)
	}

	orderIDs := make([]int64, 0, len(summaries))
	for _, item := range summaries {
		orderIDs = append(orderIDs, item.ID)
	}
	summary.Total = len(orderIDs)

	// Fase de filtragem: partição entre conhecidos e desconhecidos.
	s.updateProgress(ctx, domain.SyncPhaseFiltering, "Separando pedidos novos dos já conhecidos", 0, summary.Total)

	existing, err := s.orderRepo.ExistingIDs(orderIDs)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar pedidos existentes: %w", err)
	}

	targets := make([]int64, 0, len(orderIDs))
	for _, id := range orderIDs {
		if existing[id] {
			summary.Existing++
			if mode == domain.SyncModeFull {
				targets = append(targets, id)
			}
			continue
		}
		summary.New++
		targets = append(targets, id)
	}

	if len(targets) == 0 {
		logrus.WithField("run_id", runID).Info("Nenhum pedido a processar no período")
		return summary, nil
	}

	// Fase de detalhes: busca sequencial com tolerância a falhas
	// pontuais; o pedido que falhar é pulado e contado.
	s.updateProgress(ctx, domain.SyncPhaseFetchingDetails, "Buscando detalhes dos pedidos", 0, len(targets))

	fetched := make([]*domain.SalesOrder, 0, len(targets))
	var done int
	s.fetchPolicy.Run(ctx, targets, func(ctx context.Context, orderID int64) {
		order, err := s.bling.GetOrder(ctx, orderID)
		done++
		if err != nil {
			summary.Failed++
			logrus.WithError(err).WithFields(logrus.Fields{
				"run_id":   runID,
				"order_id": orderID,
			}).Error("Erro ao buscar detalhe do pedido, pulando")
			s.updateProgress(ctx, domain.SyncPhaseFetchingDetails, fmt.Sprintf("Pedido %d falhou, pulando", orderID), done, len(targets))
			return
		}

		fetched = append(fetched, order)
		s.updateProgress(ctx, domain.SyncPhaseFetchingDetails, fmt.Sprintf("Pedido %s obtido", order.Number), done, len(targets))
	})

	// Fase de gravação: upsert com chave no id de origem. O retorno do
	// repositório distingue inserção de sobrescrita.
	s.updateProgress(ctx, domain.SyncPhaseSaving, "Gravando pedidos no banco", done, len(targets))

	for _, order := range fetched {
		created, err := s.orderRepo.Upsert(order)
		if err != nil {
			summary.Failed++
			logrus.WithError(err).WithFields(logrus.Fields{
				"run_id":   runID,
				"order_id": order.ID,
			}).Error("Erro ao gravar pedido, pulando")
			continue
		}

		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	return summary, nil
}

// listAllOrders percorre a listagem remota página a página. Página com
// menos itens que o limite encerra a paginação.
func (s *Service) listAllOrders(ctx context.Context, startDate, endDate time.Time) ([]blingdomain.OrderSummary, error) {
	limit := s.cfg.PageSize
	if limit <= 0 {
		limit = 100
	}

	var all []blingdomain.OrderSummary
	for page := 1; ; page++ {
		pageItems, err := s.bling.ListOrders(ctx, startDate, endDate, page, limit)
		if err != nil {
			return nil, err
		}

		all = append(all, pageItems...)

		logrus.WithFields(logrus.Fields{
			"page":  page,
			"items": len(pageItems),
		}).Debug("Página de pedidos listada")

		if len(pageItems) < limit {
			break
		}
	}

	return all, nil
}

func (s *Service) startProgress(ctx context.Context, runID string, mode domain.SyncMode) {
	now := time.Now()

	s.progressMutex.Lock()
	s.progress = &domain.SyncProgress{
		RunID:       runID,
		Mode:        mode,
		IsRunning:   true,
		Phase:       domain.SyncPhaseIdle,
		CurrentStep: "Preparando sincronização",
		StartedAt:   now,
		UpdatedAt:   now,
	}
	snapshot := *s.progress
	s.progressMutex.Unlock()

	s.publish(ctx, &snapshot)
}

// updateProgress avança o snapshot publicado. O percentual nunca regride
// dentro de uma execução, mesmo quando o passo corrente é uma falha.
func (s *Service) updateProgress(ctx context.Context, phase domain.SyncPhase, step string, current, total int) {
	s.progressMutex.Lock()
	if s.progress == nil {
		s.progressMutex.Unlock()
		return
	}

	s.progress.Phase = phase
	s.progress.CurrentStep = step
	s.progress.CurrentOrder = current
	s.progress.TotalOrders = total
	s.progress.UpdatedAt = time.Now()

	if total > 0 {
		percentage := float64(current) / float64(total) * 100
		if percentage > s.progress.Percentage {
			s.progress.Percentage = percentage
		}
	}

	snapshot := *s.progress
	s.progressMutex.Unlock()

	s.publish(ctx, &snapshot)
}

func (s *Service) completeProgress(ctx context.Context) {
	now := time.Now()

	s.progressMutex.Lock()
	if s.progress == nil {
		s.progressMutex.Unlock()
		return
	}

	s.progress.Phase = domain.SyncPhaseCompleted
	s.progress.CurrentStep = "Sincronização concluída"
	s.progress.IsRunning = false
	s.progress.Percentage = 100
	s.progress.UpdatedAt = now
	s.progress.CompletedAt = &now

	snapshot := *s.progress
	s.progressMutex.Unlock()

	s.publish(ctx, &snapshot)
}

func (s *Service) failProgress(ctx context.Context, cause error) {
	now := time.Now()

	s.progressMutex.Lock()
	if s.progress == nil {
		s.progressMutex.Unlock()
		return
	}

	s.progress.Phase = domain.SyncPhaseError
	s.progress.CurrentStep = "Sincronização interrompida"
	s.progress.IsRunning = false
	s.progress.Error = cause.Error()
	s.progress.UpdatedAt = now
	s.progress.CompletedAt = &now

	snapshot := *s.progress
	s.progressMutex.Unlock()

	s.publish(ctx, &snapshot)
}

// publish grava o snapshot no redis para o polling do painel. Falha de
// publicação não interrompe a execução.
func (s *Service) publish(ctx context.Context, progress *domain.SyncProgress) {
	if err := s.progressStore.Save(ctx, progress); err != nil {
		logrus.WithError(err).Warn("Erro ao publicar progresso da sincronização")
	}
}

// Progress devolve o último snapshot publicado, ou um snapshot ocioso
// quando nenhuma execução aconteceu ainda.
func (s *Service) Progress(ctx context.Context) (*domain.SyncProgress, error) {
	progress, err := s.progressStore.Get(ctx)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		return &domain.SyncProgress{Phase: domain.SyncPhaseIdle}, nil
	}

	return progress, nil
}

func (s *Service) DeleteAllOrders(ctx context.Context) (int64, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return 0, ErrSyncAlreadyRunning
	}
	s.syncMutex.Unlock()

	deleted, err := s.orderRepo.DeleteAll()
	if err != nil {
		return 0, fmt.Errorf("erro ao apagar pedidos: %w", err)
	}

	if err := s.progressStore.Clear(ctx); err != nil {
		logrus.WithError(err).Warn("Erro ao limpar progresso de sincronização")
	}

	logrus.WithField("deleted", deleted).Warn("Todos os pedidos foram apagados")
	return deleted, nil
}
