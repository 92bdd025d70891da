package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"chat-service/internal/config"
	"chat-service/internal/delivery/http_delivery"
	"chat-service/internal/delivery/websocket"
	"chat-service/internal/domain"
	"chat-service/internal/kafka"
	"chat-service/internal/presence"
	"chat-service/internal/redisx"
	"chat-service/internal/repository"
	"chat-service/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func(context.Context) error { return nil }
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("chat-service"),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()
	shutdownTracing := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	cfg := config.Load()

	db, err := config.Connect()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := config.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rds := redisx.NewClient(cfg.RedisAddr)

	var publisher domain.MessagePublisher
	if cfg.KafkaBootstrap != "" {
		writer := kafka.NewWriter(cfg.KafkaBootstrap, cfg.KafkaTopic)
		defer writer.Close()
		publisher = writer
	}

	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	chatUsecase := usecase.NewChatUsecase(roomRepo, messageRepo, rds, publisher)

	registry := presence.NewRegistry(presence.ParsePolicy(cfg.PresencePolicy))

	var store websocket.MessageStore
	if cfg.PersistOnSend {
		store = chatUsecase
	}
	hub := websocket.NewHub(registry, store)
	go hub.Run()

	wsHandler := websocket.NewHandler(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	auth := http_delivery.AuthMiddleware(cfg.JWTSecret, userRepo)
	http_delivery.NewHandler(chatUsecase).Routes(mux, auth)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("chat-service listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	close(hub.Shutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	log.Println("Server exited properly")
}
