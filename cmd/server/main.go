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

	"github.com/muhammadfahaddev/PayBridge/config"
	"github.com/muhammadfahaddev/PayBridge/internal/database"
	"github.com/muhammadfahaddev/PayBridge/internal/router"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var gateway provider.Gateway
	if cfg.Provider.SecretKey != "" {
		gateway = provider.NewStripeClient(cfg.Provider.BaseURL, cfg.Provider.SecretKey, cfg.Provider.ReturnURL, cfg.Provider.Timeout)
	} else {
		log.Printf("[provider] no secret key configured; using in-process stub gateway")
		gateway = provider.NewStub()
	}

	engine := router.Setup(cfg, db, gateway)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
