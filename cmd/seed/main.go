// Seed fills an empty database with the reference data a fresh install
// needs: departments, default users, tags, close reasons, quick responses
// and the general settings document. Collections that already hold data
// are left alone, so running it twice is safe.
package main

import (
	"context"
	"log"
	"time"

	"nextalk-desk/internal/config"
	"nextalk-desk/internal/models"
	"nextalk-desk/internal/repository"
	"nextalk-desk/internal/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.BuildMongoURI()))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(cfg.MongoDB)
	catalogRepo := repository.NewCatalogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	seedCollection(ctx, catalogRepo, models.ColDepartments, []models.CatalogItem{
		{Name: "Suporte", Description: "Atendimento geral", Color: "#2563eb"},
		{Name: "Financeiro", Description: "Cobranças e pagamentos", Color: "#16a34a"},
		{Name: "Comercial", Description: "Vendas e propostas", Color: "#ea580c"},
	})

	seedCollection(ctx, catalogRepo, models.ColUsers, defaultUsers())

	seedCollection(ctx, catalogRepo, models.ColTags, []models.CatalogItem{
		{Name: "VIP", Color: "#facc15"},
		{Name: "Inadimplente", Color: "#dc2626"},
		{Name: "Novo cliente", Color: "#22c55e"},
	})

	seedCollection(ctx, catalogRepo, models.ColReasons, []models.CatalogItem{
		{Name: "Resolvido"},
		{Name: "Sem resposta"},
		{Name: "Duplicado"},
	})

	seedCollection(ctx, catalogRepo, models.ColQuickResponses, []models.CatalogItem{
		{Name: "Saudação", Text: "Olá! Como posso ajudar?", Shortcut: "/ola"},
		{Name: "Aguarde", Text: "Um momento, por favor.", Shortcut: "/aguarde"},
		{Name: "Encerramento", Text: "Obrigado pelo contato. Qualquer coisa, estamos à disposição!", Shortcut: "/tchau"},
	})

	seedSettings(ctx, settingsRepo)

	log.Println("Seed finished")
}

func defaultUsers() []models.CatalogItem {
	users := []models.CatalogItem{
		{Name: "Administrador", Email: "admin@nextalk.local", Role: "admin", Password: "admin123"},
		{Name: "Atendente", Email: "agente@nextalk.local", Role: "agent", Password: "agente123"},
	}
	for i := range users {
		hash, err := utils.HashPassword(users[i].Password)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		users[i].Password = hash
	}
	return users
}

func seedCollection(ctx context.Context, repo *repository.CatalogRepository, collection string, items []models.CatalogItem) {
	count, err := repo.Count(ctx, collection)
	if err != nil {
		log.Fatalf("Failed to count %s: %v", collection, err)
	}
	if count > 0 {
		log.Printf("Collection %s already has %d documents, skipping", collection, count)
		return
	}

	for i := range items {
		if err := repo.Insert(ctx, collection, &items[i]); err != nil {
			log.Fatalf("Failed to seed %s: %v", collection, err)
		}
	}
	log.Printf("Seeded %s with %d documents", collection, len(items))
}

func seedSettings(ctx context.Context, repo *repository.SettingsRepository) {
	if _, err := repo.GetGeneral(ctx); err == nil {
		log.Println("Settings already present, skipping")
		return
	}
	if err := repo.UpsertGeneral(ctx, &models.Settings{}); err != nil {
		log.Fatal("Failed to seed settings:", err)
	}
	log.Println("Seeded general settings")
}
