// Command webhook-listener is a reference receiver for Loculabs webhook
// deliveries. It verifies the signature of every request, optionally drops
// replayed deliveries through a Redis-backed cache, and logs the decoded
// events.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/loculabs/api-client/internal/config"
	"github.com/loculabs/api-client/internal/dedupe"
	"github.com/loculabs/api-client/internal/logging"
	"github.com/loculabs/api-client/webhooks"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.NewZapLogger(logging.Config{
		Level: logging.ParseLevel(cfg.LogLevel),
		Name:  "webhook-listener",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logging.SetGlobalLogger(logger)

	mwConfig := webhooks.MiddlewareConfig{
		Secret: cfg.WebhookSecret,
		Header: cfg.SignatureHeader,
		MaxAge: cfg.SignatureMaxAge,
	}

	if cfg.RedisAddress != "" {
		store, err := dedupe.New(&dedupe.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SignatureMaxAge + time.Minute,
		})
		if err != nil {
			log.Fatalf("Failed to initialize replay cache: %v", err)
		}
		defer store.Close()
		mwConfig.Deduper = store
		logging.Info("replay cache enabled", logging.String("redis_address", cfg.RedisAddress))
	}

	verify, err := webhooks.NewSignatureMiddleware(mwConfig)
	if err != nil {
		log.Fatalf("Failed to initialize signature middleware: %v", err)
	}

	router := mux.NewRouter()
	router.Handle("/webhooks", verify(http.HandlerFunc(handleWebhook))).Methods("POST")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("webhook listener started", logging.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server failed", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error("shutdown failed", err)
	}
	logging.Info("webhook listener stopped")
}

// handleWebhook runs after the signature middleware has accepted the
// delivery, so the body can be trusted and decoding failures are hard
// errors on the sender's side.
func handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := webhooks.PreserveRequestBody(r)
	if err != nil {
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	payload, err := webhooks.DecodePayload[json.RawMessage](body)
	if err != nil {
		logging.Warn("malformed webhook payload", logging.Err(err))
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	logging.Info("webhook received",
		logging.String("event", payload.Event),
		logging.String("timestamp", payload.Timestamp),
		logging.Int("data_bytes", len(payload.Data)),
	)
	w.WriteHeader(http.StatusNoContent)
}
