package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/cache"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/bling/blingclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/integrator/mercadolivre/mlclient"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository"
	"github.com/vpicolo/fabrica-manager-api/internal/api"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/scheduler"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/authenticating"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/demanding"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/oauth"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/ordering"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/stocking"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/syncing"
	"github.com/vpicolo/fabrica-manager-api/internal/usecases/webhooking"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	redisClient := redisconn(ctx, cfg.Redis)
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(pgConn)
	credRepo := repository.NewCredentialRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	snapshotRepo := repository.NewStockSnapshotRepository(pgConn)
	thresholdRepo := repository.NewStockThresholdRepository(pgConn)
	webhookStatusRepo := repository.NewWebhookStatusRepository(pgConn)
	movementRepo := repository.NewInventoryMovementRepository(pgConn)

	progressStore := cache.NewProgressStore(redisClient)
	stockCache := cache.NewStockCache(redisClient)
	oauthStateStore := cache.NewOAuthStateStore(redisClient)

	authenticator := authenticating.NewService(userRepo, cfg)

	blingTokenManager := blingclient.NewTokenManager(cfg.Bling, credRepo)
	blingClient := blingclient.NewClient(cfg.Bling, blingTokenManager)

	mlTokenManager := mlclient.NewTokenManager(cfg.MercadoLivre, credRepo)

	syncService := syncing.NewService(cfg.OrderSync, blingClient, orderRepo, progressStore)
	orderService := ordering.NewService(orderRepo)
	webhookService := webhooking.NewService(cfg.Webhook, blingClient, orderRepo, snapshotRepo, webhookStatusRepo, stockCache)
	stockService := stocking.NewService(blingClient, snapshotRepo, thresholdRepo, movementRepo, stockCache)
	demandService := demanding.NewService(orderRepo, snapshotRepo, thresholdRepo)
	oauthService := oauth.NewService(cfg, blingClient, mlTokenManager, credRepo, oauthStateStore)

	// Inicializa o agendador de sincronização incremental de pedidos
	orderSyncScheduler := scheduler.NewOrderSyncService(syncService, cfg)
	if err := orderSyncScheduler.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de pedidos")
	} else {
		logrus.Info("Agendador de sincronização de pedidos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		syncService,
		orderService,
		webhookService,
		stockService,
		demandService,
		oauthService,
		orderSyncScheduler,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// redisconn cria uma conexão com o Redis
func redisconn(ctx context.Context, redisConfig config.Redis) *cache.Client {
	client, err := cache.NewClient(ctx, redisConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao Redis")
	}

	logrus.Info("Conexão com Redis estabelecida com sucesso")
	return client
}
