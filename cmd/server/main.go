package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/cart"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/catalog"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/checkout"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/config"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/content"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/httpapi"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/orders"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/postgres"
	"github.com/termstructure/aircare-style-fresh-sub000/internal/shopify"
)

func main() {
	log.Println("storefront starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Postgres (blog content, newsletter, order mirror)
	db, err := postgres.Connect(&postgres.Credentials{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Redis (checkout session mirror + catalog cache)
	ctx := context.Background()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Println("Redis ping succeeded")

	// Remote commerce gateway
	gateway, err := shopify.NewClient(shopify.Config{
		ShopDomain: cfg.ShopDomain,
		Token:      cfg.StorefrontToken,
		APIVersion: cfg.APIVersion,
		Timeout:    cfg.GatewayTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create gateway client: %v", err)
	}
	log.Printf("Commerce gateway configured for %s", cfg.ShopDomain)

	catalogSvc := catalog.NewService(gateway, catalog.NewRedisCache(redisClient))

	cartStore := cart.NewStore()
	synchronizer := checkout.NewSynchronizer(cartStore, gateway, checkout.NewRedisMirror(redisClient), cfg.ShopDomain)
	cartStore.SetChangeListener(synchronizer.OnCartChange)

	contentRepo := content.NewRepository(db)
	ordersRepo := orders.NewRepository(db)

	// Outbox poller for mirrored-order events
	pollerCtx, pollerCancel := context.WithCancel(ctx)
	defer pollerCancel()
	poller := orders.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	router := httpapi.NewRouter(
		httpapi.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			MaxBodyBytes:   cfg.MaxRequestBodySize,
		},
		httpapi.NewCartHandler(cartStore, catalogSvc),
		httpapi.NewCheckoutHandler(synchronizer),
		httpapi.NewCatalogHandler(catalogSvc),
		httpapi.NewContentHandler(contentRepo),
		httpapi.NewOrderWebhookHandler(ordersRepo),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pollerCancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
