package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/bendiy/authnet-go/config"
	"github.com/bendiy/authnet-go/handlers"
	"github.com/bendiy/authnet-go/middleware"
	"github.com/bendiy/authnet-go/services/payment"
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	cfg := config.Load()
	if cfg.AuthNet.APILoginID == "" || cfg.AuthNet.TransactionKey == "" {
		log.Fatalf("AUTHNET_API_LOGIN_ID and AUTHNET_TRANSACTION_KEY are required")
	}

	client := authorizenet.NewClient(cfg.AuthNet)
	svc := payment.NewService(client)

	chargeHandler := handlers.NewChargeHandler(svc)
	customerHandler := handlers.NewCustomerHandler(svc)

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)

	// rate limiting is optional, enabled when Redis is configured
	var limiter *middleware.RateLimiter
	if cfg.Redis.URL != "" {
		var err error
		limiter, err = middleware.NewRateLimiter(cfg.Redis.URL, middleware.DefaultRateLimit)
		if err != nil {
			log.Fatalf("Failed to initialize rate limiter: %v", err)
		}
		defer limiter.Close()
		router.Use(limiter.Middleware())
		log.Printf("Rate limiting enabled (%d requests per %v)",
			middleware.DefaultRateLimit.Requests, middleware.DefaultRateLimit.Window)
	}

	api := router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/charges", chargeHandler.Create).Methods("POST")
	api.HandleFunc("/charges", chargeHandler.List).Methods("GET")
	api.HandleFunc("/charges/{id}", chargeHandler.Retrieve).Methods("GET")
	api.HandleFunc("/charges/{id}/capture", chargeHandler.Capture).Methods("POST")
	api.HandleFunc("/refunds", chargeHandler.Refund).Methods("POST")

	api.HandleFunc("/customers", customerHandler.Create).Methods("POST")
	api.HandleFunc("/customers", customerHandler.List).Methods("GET")
	api.HandleFunc("/customers/{id}", customerHandler.Retrieve).Methods("GET")
	api.HandleFunc("/customers/{id}", customerHandler.Update).Methods("POST")
	api.HandleFunc("/customers/{id}", customerHandler.Delete).Methods("DELETE")
	api.HandleFunc("/customers/{id}/sources", customerHandler.CreateSource).Methods("POST")
	api.HandleFunc("/customers/{id}/sources", customerHandler.ListSources).Methods("GET")
	api.HandleFunc("/customers/{id}/sources/{srcID}", customerHandler.RetrieveSource).Methods("GET")
	api.HandleFunc("/customers/{id}/sources/{srcID}", customerHandler.UpdateSource).Methods("POST")
	api.HandleFunc("/customers/{id}/sources/{srcID}", customerHandler.DeleteSource).Methods("DELETE")
	api.HandleFunc("/customers/{id}/sources/{srcID}/verify", customerHandler.VerifySource).Methods("POST")

	startTime := time.Now()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Gateway   string `json:"gateway"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Gateway:   client.Endpoint(),
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // customer listings fan out one gateway call per profile
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (gateway: %s)", cfg.Server.Port, client.Endpoint())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stop
	log.Println("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
