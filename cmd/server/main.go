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

	"github.com/segyhp/rental-manager/internal/app"
	"github.com/segyhp/rental-manager/internal/auth"
	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/handler"
	"github.com/segyhp/rental-manager/pkg/response"

	"github.com/gorilla/mux"
)

type handlers struct {
	auth        *handler.AuthHandler
	split       *handler.SplitHandler
	settlement  *handler.SettlementHandler
	arrears     *handler.ArrearsHandler
	receipt     *handler.ReceiptHandler
	certificate *handler.CertificateHandler
	health      *handler.HealthHandler
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		log.Fatalf("Invalid auth configuration: %v", err)
	}

	setupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a, err := app.New(setupCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	authService := auth.NewService(cfg.Auth.Email, cfg.Auth.PasswordHash, cfg.Auth.JWTSecret, cfg.GetSessionTTL())

	var cachePing, storagePing handler.Pinger
	if a.Cache != nil {
		cachePing = a.Cache
	}
	if a.Storage != nil {
		storagePing = a.Storage
	}

	h := handlers{
		auth:        handler.NewAuthHandler(authService),
		split:       handler.NewSplitHandler(cfg.GetVATRate()),
		settlement:  handler.NewSettlementHandler(a.Settlements),
		arrears:     handler.NewArrearsHandler(a.Arrears),
		receipt:     handler.NewReceiptHandler(a.Receipts),
		certificate: handler.NewCertificateHandler(a.Certificates),
		health:      handler.NewHealthHandler(a.Postgres.DB, cachePing, storagePing, cfg.GetHealthTimeout()),
	}

	// Setup routes
	router := setupRoutes(h, auth.Middleware(authService))

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(response.LoggingMiddleware(router)),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupRoutes(h handlers, requireSession mux.MiddlewareFunc) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", h.health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.health.Ready).Methods("GET")

	// Login is the only unauthenticated API route
	router.HandleFunc("/api/v1/auth/login", h.auth.Login).Methods("POST")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(requireSession)

	api.HandleFunc("/split", h.split.Split).Methods("GET")

	api.HandleFunc("/contracts/{contractId}/settlements", h.settlement.ListSettlements).Methods("GET")
	api.HandleFunc("/contracts/{contractId}/settlements/range", h.settlement.SettleRange).Methods("POST")
	api.HandleFunc("/contracts/{contractId}/settlements/{year:[0-9]+}/{month:[0-9]+}", h.settlement.IsSettled).Methods("GET")
	api.HandleFunc("/contracts/{contractId}/settlements/{year:[0-9]+}/{month:[0-9]+}", h.settlement.SettleMonth).Methods("PUT")
	api.HandleFunc("/contracts/{contractId}/settlements/{year:[0-9]+}/{month:[0-9]+}", h.settlement.UnsettleMonth).Methods("DELETE")

	api.HandleFunc("/contracts/{contractId}/arrears", h.arrears.ContractArrears).Methods("GET")
	api.HandleFunc("/arrears", h.arrears.PortfolioArrears).Methods("GET")

	api.HandleFunc("/receipts", h.receipt.GenerateReceipt).Methods("POST")
	api.HandleFunc("/receipts", h.receipt.ListReceipts).Methods("GET")
	api.HandleFunc("/receipts/{receiptId}", h.receipt.GetReceipt).Methods("GET")
	api.HandleFunc("/receipts/{receiptId}", h.receipt.DeleteReceipt).Methods("DELETE")
	api.HandleFunc("/receipts/{receiptId}/pdf", h.receipt.ReceiptPDF).Methods("GET")

	api.HandleFunc("/owners/{ownerId}/certificates/{year:[0-9]+}", h.certificate.Certificate).Methods("GET")
	api.HandleFunc("/owners/{ownerId}/certificates/{year:[0-9]+}/xlsx", h.certificate.CertificateXLSX).Methods("GET")
	api.HandleFunc("/owners/{ownerId}/certificates/{year:[0-9]+}/pdf", h.certificate.CertificatePDF).Methods("GET")

	return router
}
