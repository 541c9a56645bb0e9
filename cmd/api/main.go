package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/httpserver"
	"marketplace/internal/metrics"
	cartrepo "marketplace/internal/repository/cart"
	checkoutrepo "marketplace/internal/repository/checkout"
	orderrepo "marketplace/internal/repository/order"
	productrepo "marketplace/internal/repository/product"
	shopperrepo "marketplace/internal/repository/shopper"
	storerepo "marketplace/internal/repository/store"
	tokenrepo "marketplace/internal/repository/token"
	authsvc "marketplace/internal/service/auth"
	cartsvc "marketplace/internal/service/cart"
	checkoutsvc "marketplace/internal/service/checkout"
	ordersvc "marketplace/internal/service/order"
	productsvc "marketplace/internal/service/product"
	storesvc "marketplace/internal/service/store"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		productCache = cache.NewRedis(cfg.RedisAddr)
		logger.Printf("product cache enabled addr=%s", cfg.RedisAddr)
	}

	meter := metrics.New()

	shopperRepo := shopperrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	storeRepo := storerepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	checkoutRepo := checkoutrepo.NewPostgres(dbpool, logger)

	authService := authsvc.New(shopperRepo, tokenRepo)
	productService := productsvc.New(productRepo, storeRepo, productCache)
	storeService := storesvc.New(storeRepo, productRepo, shopperRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	checkoutService := checkoutsvc.New(cartRepo, checkoutRepo, orderRepo, meter, productCache)
	orderService := ordersvc.New(orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		ProductSvc:  productService,
		StoreSvc:    storeService,
		Metrics:     meter.Handler(),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
