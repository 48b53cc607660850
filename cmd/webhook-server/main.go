package main

import (
	"context"
	"log"
	"net/http"

	"nextalk-desk/internal/config"
	"nextalk-desk/internal/repository"
	"nextalk-desk/internal/services"
	"nextalk-desk/internal/utils"
	"nextalk-desk/internal/webhook"
	"nextalk-desk/internal/whatsapp"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// The webhook endpoint must keep answering Meta even when MongoDB is
	// down, otherwise the subscription gets disabled. Degraded mode accepts
	// and drops payloads instead of failing the handshake.
	degraded := false
	var ticketRepo *repository.TicketRepository
	var contactService *services.ContactService

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.BuildMongoURI()))
	if err == nil {
		err = mongoClient.Ping(ctx, nil)
	}
	if err != nil {
		log.Printf("MongoDB unavailable, running degraded: %v", err)
		degraded = true
	} else {
		db := mongoClient.Database(cfg.MongoDB)
		ticketRepo = repository.NewTicketRepository(db)
		contactService = services.NewContactService(repository.NewContactRepository(db), ticketRepo)
		shutdownManager.Register(func(ctx context.Context) error {
			log.Println("[SHUTDOWN] Closing MongoDB connection...")
			return mongoClient.Disconnect(ctx)
		})
	}

	var publisher services.EventPublisher = services.NoopPublisher{}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, events will not be published: %v", err)
	} else {
		publisher = services.NewRedisPublisher(rdb)
		shutdownManager.Register(func(ctx context.Context) error {
			log.Println("[SHUTDOWN] Closing Redis connection...")
			return rdb.Close()
		})
	}

	waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIVersion)

	var processor *webhook.Processor
	if !degraded {
		processor = webhook.NewProcessor(ticketRepo, publisher, waClient, contactService)
	}
	webhookHandler := webhook.NewHandler(processor, cfg.WebhookVerifyToken, degraded)

	router := mux.NewRouter()
	router.HandleFunc("/", webhookHandler.Info).Methods(http.MethodGet)
	router.HandleFunc("/health", webhookHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/webhook", webhookHandler.Verify).Methods(http.MethodGet)
	router.HandleFunc("/webhook", webhookHandler.Receive).Methods(http.MethodPost)

	server := &http.Server{
		Addr:    ":" + cfg.WebhookPort,
		Handler: router,
	}

	go func() {
		log.Printf("Webhook server listening on port %s", cfg.WebhookPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Stopping HTTP server...")
		return server.Shutdown(ctx)
	})

	shutdownManager.Wait()
}
