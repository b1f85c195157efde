package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Grpc "github.com/DRSN-tech/storefront/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/auth"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	"github.com/DRSN-tech/storefront/internal/infrastructure/notify"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	healthInterval = 15 * time.Second
	topicTimeout   = 10 * time.Second
)

// App собирает сервис: HTTP и gRPC серверы, воркер outbox и проверка готовности.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv  *v1Http.Server
	grpcSrv  *v1Grpc.GRPCServer
	worker   *kafka.OutboxWorker
	health   *v1Grpc.HealthChecker
	producer *kafka.Producer

	// отменяется при остановке, фоновые задачи завершаются по нему
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer.NewCloser(5 * time.Second),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		// уже открытые ресурсы закрываем сразу
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			logger.Warnf("%v", closeErr)
		}
		bgCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, logger := a.cfg, a.logger

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	redisClient, err := clients.ConnectRedis(context.Background(), cfg.Redis)
	if err != nil {
		return e.Wrap("failed to connect to redis", err)
	}
	a.closer.Add("redis", redisClient.Close)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return e.Wrap("failed to initialize minio client", err)
	}
	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return e.Wrap("failed to initialize MinIO bucket", err)
	}

	productRepo := pgdb.NewProductRepo(db.Pool, &converter.ProductConverterImpl{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, &converter.OrderConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, &converter.OutboxEventConverterImpl{})
	cartRepo := redis.NewCartRepo(redisClient, cfg.Redis, logger)
	tokenRepo := redis.NewTokenRepo(redisClient)
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	images := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, logger, a.bgCtx)
	a.closer.Add("minio cleanup", images.WaitForCleanup)

	a.producer = kafka.NewProducer(logger, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return a.producer.Close() })
	if err := a.producer.EnsureTopic(topicTimeout); err != nil {
		// топик может создать и брокер, воркер будет повторять отправку
		logger.Warnf("failed to ensure kafka topic: %v", err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, logger, a.producer, db.Dsn, pgdb.OutboxChannel)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.worker.Stop()
		return nil
	})

	hub := notify.NewHub(cfg.Http.AllowedOrigins, logger)
	pricing := usecase.NewPricing(cfg.Checkout.FlatFee, cfg.Checkout.TaxRate)

	cartUC := usecase.NewCartUC(cartRepo, productRepo, hub, pricing, logger)
	catalogUC := usecase.NewCatalogUC(productRepo)
	checkoutUC := usecase.NewCheckoutUC(cartUC, productRepo, orderRepo, outboxRepo, tr.NewManager(db.Pool), pricing, logger)
	manager := usecase.NewProductManager(productRepo, images, logger)
	authUC := usecase.NewAuthUC(auth.NewJWTVerifier(cfg.Auth), tokenRepo, logger)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	a.grpcSrv.RegisterServices()
	a.health = v1Grpc.NewHealthChecker(a.grpcSrv.Health(), map[string]v1Grpc.Pinger{
		"postgres": db,
		"redis":    redisClient,
	}, healthInterval, logger)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(&v1Http.Services{
		Catalog:  catalogUC,
		Cart:     cartUC,
		Checkout: checkoutUC,
		Admin:    manager,
		Auth:     authUC,
		Stream:   hub,
	}, cfg)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	a.worker.Start(a.bgCtx)
	go a.health.Run(a.bgCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server failed", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server failed", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	// серверы закрываются первыми (LIFO), затем воркер, продюсер и хранилища
	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown error")
	}
	a.bgCancel()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
