package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrirent/rental-order-service/internal/app/background"
	"github.com/agrirent/rental-order-service/internal/config"
	delivery "github.com/agrirent/rental-order-service/internal/delivery/http"
	"github.com/agrirent/rental-order-service/internal/delivery/http/handlers"
	"github.com/agrirent/rental-order-service/internal/infrastructure/gateway"
	publisher "github.com/agrirent/rental-order-service/internal/infrastructure/kafka"
	"github.com/agrirent/rental-order-service/internal/infrastructure/logger"
	"github.com/agrirent/rental-order-service/internal/infrastructure/metrics"
	"github.com/agrirent/rental-order-service/internal/infrastructure/migrate"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/repository"
	rediscache "github.com/agrirent/rental-order-service/internal/infrastructure/redis"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.RentalDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.RentalDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Gateway adapter
	gatewayAdapter, err := gateway.NewAdapter(cfg.Gateway)
	if err != nil {
		log.Fatalf("failed to init gateway adapter: %v", err)
	}

	// Kafka publisher for lifecycle events
	brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	defer pub.Close()

	// Repositories
	store := repository.NewDefaultRentalStore(db)
	orderRepo := repository.NewDefaultOrderRepository(db)
	equipmentRepo := repository.NewDefaultEquipmentRepository(db)
	paymentRepo := repository.NewDefaultPaymentRepository(db)

	// Equipment read-through cache
	equipmentCache := rediscache.NewEquipmentCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.TTL)

	// Transition audit log
	auditLog := logger.NewPGTransitionAuditLogger(db)

	// Metrics
	orderMetrics := metrics.NewOrderMetrics()

	// Order usecase
	uc := usecase.NewDefaultOrderUsecase(
		store,
		orderRepo,
		equipmentRepo,
		paymentRepo,
		equipmentCache,
		pub,
		auditLog,
		orderMetrics,
		gatewayAdapter,
		cfg.Kafka.OrderTopic,
		cfg.Lifecycle.PaymentWindow,
	)

	// Expiration sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tasks := background.NewBackgroundTasks(uc, orderMetrics, cfg.Lifecycle.SweepInterval, cfg.Lifecycle.SweepTimeout)
	tasks.StartAll(ctx)

	// HTTP server
	orderHandler := handlers.NewOrderHandler(uc)
	equipmentHandler := handlers.NewEquipmentHandler(uc)
	callbackHandler := handlers.NewPaymentCallbackHandler(gatewayAdapter, uc, orderMetrics)
	router := delivery.NewRouter(orderHandler, equipmentHandler, callbackHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("http server started", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v\n", err)
		}
	}()

	// Join the sweeper and the server cleanly on shutdown.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err.Error())
	}
}
