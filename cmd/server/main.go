package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering-service/config"
	"catering-service/internal/api"
	"catering-service/internal/broker"
	"catering-service/internal/kv"
	"catering-service/internal/service"
	"catering-service/internal/store"
	"catering-service/internal/util"
	"catering-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func newBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		return kv.NewSQLStore(cfg.Storage.DatabaseURL)
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return kv.NewRedisStore(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB, cfg.Storage.RedisPrefix)
	}
}

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting catering service")

	tp, err := util.InitTracer("catering-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to storage backend: %v", err)
	}
	defer backend.Close()
	log.Printf("Storage backend connected: %s", cfg.Storage.Backend)

	st, err := store.New(context.Background(), backend)
	if err != nil {
		log.Fatalf("Failed to load data store: %v", err)
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	authService := service.NewAuthService(st, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMins)*time.Minute)
	eventService := service.NewEventService(st, cfg.Business.EventWeeks, cfg.Business.DefaultBudget)
	orderService := service.NewOrderService(st, eventPublisher)
	procurementService := service.NewProcurementService(st, eventPublisher)
	receptionService := service.NewReceptionService(st, eventPublisher)
	economatoService := service.NewEconomatoService(st)
	recipeService := service.NewRecipeService(st)
	classroomService := service.NewClassroomService(st)
	backupService := service.NewBackupService(st)

	if generated, err := eventService.EnsureUpcomingEvents(context.Background()); err != nil {
		log.Printf("Failed to generate upcoming events: %v", err)
	} else if len(generated) > 0 {
		log.Printf("Generated %d upcoming events", len(generated))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	notificationWorker := worker.NewNotificationWorker(consumer, st)
	go func() {
		if err := notificationWorker.Start(workerCtx); err != nil {
			log.Printf("Notification worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		st,
		authService,
		eventService,
		orderService,
		procurementService,
		receptionService,
		economatoService,
		recipeService,
		classroomService,
		backupService,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	notificationWorker.Stop()

	log.Println("Server exited")
}
