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

	"borderpay-payment-api/config"
	"borderpay-payment-api/handlers"
	"borderpay-payment-api/middleware"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/auth"
	"borderpay-payment-api/services/payment"
	"borderpay-payment-api/services/track"
	"borderpay-payment-api/services/transfer"
	"borderpay-payment-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		// Only slow requests and errors are worth a log line.
		elapsed := time.Since(start)
		if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
			log.Printf(
				"%s %s %s %d %v",
				r.Method,
				r.RequestURI,
				r.RemoteAddr,
				wrapper.status,
				elapsed,
			)
		}
	})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	numCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(numCPU)
	log.Printf("Server starting with %d CPUs available", numCPU)

	cfg := config.Load()
	log.Printf("Configuration loaded successfully")

	jobQueue, err := queue.NewQueue(cfg.Redis.URL, "gateway_jobs")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer jobQueue.Close()
	log.Println("Successfully connected to Redis")

	rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}
	defer rateLimiter.Close()

	paymentService := payment.NewService(cfg.Processor)
	transferService := transfer.NewService(cfg.Transfer)
	reconciler := track.NewReconciler(paymentService.Client(), transferService.Client())
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	workerConcurrency := cfg.Redis.WorkerConcurrency
	if workerConcurrency < 2 {
		workerConcurrency = 2
	} else if workerConcurrency > 8 {
		workerConcurrency = 8
	}

	gatewayWorker := worker.NewWorker(jobQueue, paymentService, transferService)
	gatewayWorker.Start(workerConcurrency)
	defer gatewayWorker.Stop()
	log.Printf("Started gateway worker with %d threads", workerConcurrency)

	sessionStore := handlers.NewSessionStore(cfg)

	paymentHandler := handlers.NewPaymentHandler(paymentService, jobQueue, sessionStore)
	transferHandler := handlers.NewTransferHandler(transferService, jobQueue)
	trackHandler := handlers.NewTrackHandler(reconciler, sessionStore)
	estimateHandler := handlers.NewEstimateHandler(cfg.Defaults.Currency)
	bankDetailsHandler := handlers.NewBankDetailsHandler()
	webhookHandler := handlers.NewWebhookHandler(jobQueue, cfg.Processor.WebhookSecret)
	internalHandler := handlers.NewInternalHandler(jwtService, jobQueue, cfg.Auth.InternalSecret)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(rateLimiter.RateLimitMiddleware())

	api := router.PathPrefix("/api").Subrouter()

	// Payment endpoints
	api.HandleFunc("/payments", paymentHandler.SubmitPayment).Methods("POST", "OPTIONS")
	api.HandleFunc("/payments/preauthorize", paymentHandler.PreauthorizePayment).Methods("POST", "OPTIONS")
	api.HandleFunc("/payments/{id}/cancel", paymentHandler.CancelPayment).Methods("POST", "OPTIONS")
	api.HandleFunc("/payments/{id}", paymentHandler.GetPayment).Methods("GET", "OPTIONS")
	api.HandleFunc("/balance", paymentHandler.GetBalance).Methods("GET", "OPTIONS")

	// Estimation and reference data
	api.HandleFunc("/estimate", estimateHandler.EstimateFees).Methods("POST", "OPTIONS")
	api.HandleFunc("/currencies", estimateHandler.ListCurrencies).Methods("GET", "OPTIONS")
	api.HandleFunc("/bank-details/{currency}", bankDetailsHandler.GetBankDetails).Methods("GET", "OPTIONS")
	api.HandleFunc("/deposit-details/{currency}", transferHandler.GetDepositDetails).Methods("GET", "OPTIONS")

	// Transfer endpoints
	api.HandleFunc("/transfers", transferHandler.InitiateTransfer).Methods("POST", "OPTIONS")
	api.HandleFunc("/transfers/{id}", transferHandler.GetTransfer).Methods("GET", "OPTIONS")
	api.HandleFunc("/transfers/{id}/estimate", transferHandler.GetDeliveryEstimate).Methods("GET", "OPTIONS")

	// Tracking
	api.HandleFunc("/track", trackHandler.Track).Methods("GET", "OPTIONS")
	api.HandleFunc("/track/recent", trackHandler.RecentReferences).Methods("GET", "OPTIONS")

	// Webhook endpoint
	api.HandleFunc("/processor/webhook", webhookHandler.HandleProcessorEvent).Methods("POST")

	// Internal endpoints
	internal := router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/generate-token", internalHandler.GenerateToken).Methods("POST")

	protected := internal.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.HandleFunc("/jobs/{id}/retry", internalHandler.RetryFailedJob).Methods("POST")

	startTime := time.Now()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Redis     string `json:"redis"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Redis:     "connected",
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer redisCancel()

		if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
			health.Status = "degraded"
			health.Redis = "error"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
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

	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Stopping gateway worker...")
	gatewayWorker.Stop()

	// Give in-flight jobs a moment to finish.
	time.Sleep(2 * time.Second)

	log.Println("Closing Redis connections...")
	jobQueue.Close()
	rateLimiter.Close()

	log.Println("Server exited properly")
}
