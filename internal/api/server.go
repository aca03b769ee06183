package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/internal/api/handler"
	"github.com/vpicolo/fabrica-manager-api/internal/api/handler/router"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/scheduler"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/authenticating"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/demanding"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/oauth"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/ordering"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/stocking"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/syncing"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/webhooking"
	"github.com/vpicolo/fabrica-manager-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	authenticator authenticating.Authenticator,
	syncService syncing.OrderSyncer,
	orderService ordering.Orderer,
	webhookService webhooking.Webhooker,
	stockService stocking.Stocker,
	demandService demanding.Demander,
	oauthService oauth.Connector,
	orderSyncScheduler *scheduler.OrderSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		OrderSyncService: orderSyncScheduler,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Webhook(webhookService)...),
		router.WithRoutes(handler.Sync(syncService)...),
		router.WithRoutes(handler.Orders(orderService)...),
		router.WithRoutes(handler.Stock(stockService)...),
		router.WithRoutes(handler.Demand(demandService)...),
		router.WithRoutes(handler.OAuth(oauthService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
