package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/checkout"
	"github.com/Sameer-A01/restaurant-api/internal/consumer"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/httpapi"
	"github.com/Sameer-A01/restaurant-api/internal/journal"
	"github.com/Sameer-A01/restaurant-api/internal/remote"
	"github.com/Sameer-A01/restaurant-api/internal/session"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	CatalogBaseURL  string
	OrdersBaseURL   string
	PolicyBaseURL   string
	JournalDBPath   string
	MigrationsPath  string
	RequireTable    bool
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "posdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		CatalogBaseURL:  getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
		OrdersBaseURL:   getEnv("ORDERS_SERVICE_URL", "http://localhost:8082"),
		PolicyBaseURL:   getEnv("POLICY_SERVICE_URL", "http://localhost:8083"),
		JournalDBPath:   getEnv("JOURNAL_DB_PATH", "orders.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/journal/migrations"),
		RequireTable:    getEnv("REQUIRE_TABLE", "true") == "true",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := session.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	sessionRepo := session.NewMongoRepository(mongoDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Collaborator clients
	catalogClient := remote.NewCatalogClient(cfg.CatalogBaseURL, cfg.RequestTimeout)
	orderClient := remote.NewOrderClient(cfg.OrdersBaseURL, cfg.RequestTimeout)
	policyClient := remote.NewPolicyClient(cfg.PolicyBaseURL, cfg.RequestTimeout)

	// Catalog snapshots: load one before serving so stock validation has
	// something to validate against.
	refresher := catalog.NewRefresher(catalogClient)
	if _, err := refresher.Refresh(ctx); err != nil {
		log.Printf("initial catalog refresh failed: %v", err)
	}

	defaultPolicy := domain.PricingPolicy{}
	if policy, errPolicy := policyClient.GetPolicy(ctx); errPolicy != nil {
		log.Printf("failed to fetch pricing policy, starting with zero rates: %v", errPolicy)
	} else {
		defaultPolicy = policy
	}

	sessionService := session.NewService(sessionRepo, session.NewRedisCache(redisClient), defaultPolicy)

	// Local order journal
	journalRepo, err := journal.NewRepository(cfg.JournalDBPath)
	if err != nil {
		log.Fatalf("Failed to open order journal: %v", err)
	}
	defer journalRepo.Close()
	if err := journalRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run journal migrations: %v", err)
	}

	checkoutService := checkout.NewService(sessionService, refresher, orderClient, journalRepo, cfg.RequireTable)

	// Kafka consumer: clears carts for orders completed elsewhere
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	orderConsumer := consumer.NewConsumer(sessionService, cfg.KafkaBrokers...)
	go orderConsumer.Run(consumerCtx)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Cart:           httpapi.NewCartHandler(sessionService, refresher, cfg.RequestTimeout),
		Catalog:        httpapi.NewCatalogHandler(refresher, cfg.RequestTimeout),
		Policy:         httpapi.NewPolicyHandler(sessionService, policyClient, cfg.RequestTimeout),
		Checkout:       httpapi.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		Orders:         httpapi.NewOrdersHandler(journalRepo, cfg.RequestTimeout),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "restaurant-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("restaurant-api starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	consumerCancel()
	orderConsumer.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
