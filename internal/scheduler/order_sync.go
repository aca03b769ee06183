package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/syncing"
)

// OrderSyncService agenda a sincronização incremental de pedidos e
// expõe o disparo manual usado pelo painel.
type OrderSyncService struct {
	scheduler           *gocron.Scheduler
	config              config.OrderSync
	syncer              syncing.OrderSyncer
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func NewOrderSyncService(syncer syncing.OrderSyncer, appConfig *config.Config) *OrderSyncService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         appConfig.OrderSync.CronSchedule,
		"lookback_days":         appConfig.OrderSync.LookbackDays,
		"page_size":             appConfig.OrderSync.PageSize,
		"request_delay_seconds": appConfig.OrderSync.RequestDelaySeconds,
		"sync_enabled":          appConfig.OrderSync.Enabled,
	}).Info("Configuração do agendador de sincronização de pedidos carregada")

	return &OrderSyncService{
		scheduler: scheduler,
		config:    appConfig.OrderSync,
		syncer:    syncer,
	}
}

// Start inicia o agendador
func (s *OrderSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Sincronização agendada de pedidos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de pedidos")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSmartSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de pedidos: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de pedidos")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *OrderSyncService) runSmartSync(ctx context.Context) {
	s.lastSyncStartedAt = time.Now()

	summary, err := s.syncer.SmartSync(ctx, nil, nil)
	if err != nil {
		if errors.Is(err, syncing.ErrSyncAlreadyRunning) {
			logrus.Info("Sincronização de pedidos já em andamento, ignorando disparo agendado")
			return
		}
		s.lastSyncError = err.Error()
		logrus.WithError(err).Error("Sincronização agendada de pedidos falhou")
		return
	}

	s.lastSyncError = ""
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"run_id":  summary.RunID,
		"total":   summary.Total,
		"created": summary.Created,
		"updated": summary.Updated,
		"failed":  summary.Failed,
	}).Info("Sincronização agendada de pedidos concluída")
}

// TriggerManualSync inicia manualmente uma sincronização incremental
func (s *OrderSyncService) TriggerManualSync() {
	if s.syncer.IsRunning() {
		logrus.Info("Sincronização de pedidos já em andamento, ignorando solicitação manual")
		return
	}

	logrus.Info("Iniciando sincronização manual de pedidos")
	go s.runSmartSync(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *OrderSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_page_size":         s.config.PageSize,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"sync_running":           s.syncer.IsRunning(),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
	}
}
