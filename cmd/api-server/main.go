package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"nextalk-desk/internal/config"
	"nextalk-desk/internal/handler"
	"nextalk-desk/internal/models"
	"nextalk-desk/internal/payments"
	"nextalk-desk/internal/realtime"
	"nextalk-desk/internal/repository"
	"nextalk-desk/internal/services"
	"nextalk-desk/internal/utils"
	"nextalk-desk/internal/whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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

	// MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.BuildMongoURI()))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	// Redis is optional: without it the API still serves requests, it just
	// stops fanning out realtime events and caching settings.
	var rdb *redis.Client
	var publisher services.EventPublisher = services.NoopPublisher{}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, realtime events disabled: %v", err)
	} else {
		rdb = redisClient
		publisher = services.NewRedisPublisher(rdb)
		shutdownManager.Register(func(ctx context.Context) error {
			log.Println("[SHUTDOWN] Closing Redis connection...")
			return rdb.Close()
		})
	}

	ticketRepo := repository.NewTicketRepository(db)
	contactRepo := repository.NewContactRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := ticketRepo.EnsureIndexes(indexCtx); err != nil {
		log.Printf("Failed to create ticket indexes: %v", err)
	}
	cancel()

	waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIVersion)
	paymentClient := payments.NewClient(cfg.PaymentServiceURL, cfg.InternalSecret)

	ticketService := services.NewTicketService(ticketRepo, publisher, waClient)
	contactService := services.NewContactService(contactRepo, ticketRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	settingsService := services.NewSettingsService(settingsRepo, rdb)

	ticketHandler := handler.NewTicketHandler(ticketService, catalogService)
	contactHandler := handler.NewContactHandler(contactService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	paymentHandler := handler.NewPaymentHandler(paymentClient)

	// Realtime hub fed by the Redis channel both servers publish to.
	hub := realtime.NewHub()
	go hub.Run()
	if rdb != nil {
		go realtime.SubscribeToRedis(ctx, rdb, hub)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "online",
			"service": "NexTalk Desk API",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	api := router.Group("/api")
	{
		tickets := api.Group("/tickets")
		{
			tickets.GET("", ticketHandler.List)
			tickets.GET("/stats", ticketHandler.Stats)
			tickets.GET("/:id", ticketHandler.Get)
			tickets.POST("", ticketHandler.Create)
			tickets.PUT("/:id", ticketHandler.Update)
			tickets.DELETE("/:id", ticketHandler.Delete)
			tickets.POST("/:id/messages", ticketHandler.SendMessage)
			tickets.PUT("/:id/pickup", ticketHandler.PickUp)
			tickets.PUT("/:id/close", ticketHandler.Close)
			tickets.PUT("/:id/transfer", ticketHandler.Transfer)
			tickets.PUT("/:id/reopen", ticketHandler.Reopen)
		}

		contacts := api.Group("/contacts")
		{
			contacts.GET("", contactHandler.List)
			contacts.GET("/:id", contactHandler.Get)
			contacts.POST("", contactHandler.Create)
			contacts.PUT("/:id", contactHandler.Update)
			contacts.DELETE("/:id", contactHandler.Delete)
			contacts.PUT("/:id/block", contactHandler.Block)
			contacts.GET("/:id/conversations", contactHandler.Conversations)
			contacts.GET("/:id/activity-logs", contactHandler.ActivityLogs)
		}

		for _, collection := range models.CatalogCollections {
			h := handler.NewCatalogHandler(catalogService, collection)
			group := api.Group("/" + collection)
			group.GET("", h.List)
			group.POST("", h.Create)
			group.PUT("/:id", h.Update)
			group.DELETE("/:id", h.Delete)
		}

		api.GET("/settings/general", settingsHandler.Get)
		api.PUT("/settings/general", settingsHandler.Update)

		api.POST("/asaas/create-payment", paymentHandler.CreatePayment)
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("API server listening on port %s", cfg.APIPort)
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
