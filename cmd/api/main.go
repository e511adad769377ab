package main

import (
	"context"
	"log"

	"github.com/justsurfingit/jobseeker-portal/internal/auth"
	"github.com/justsurfingit/jobseeker-portal/internal/config"
	"github.com/justsurfingit/jobseeker-portal/internal/database"
	"github.com/justsurfingit/jobseeker-portal/internal/feed"
	"github.com/justsurfingit/jobseeker-portal/internal/handlers"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

const chatChannel = "portal:chat:changed"

func main() {
	ctx := context.Background()

	// 1. Load configuration
	cfg := config.Load()

	// 2. Storage: Postgres for shared data, Redis (or memory) for client state
	var (
		messageLog services.MessageLog
		benefits   services.BenefitRepository
	)
	if cfg.DatabaseURL == "memory" {
		log.Println("⚠️  DATABASE_URL=memory, chat and benefit submissions are not persisted")
		messageLog = services.NewMemoryMessageLog()
		benefits = services.NewMemoryBenefitRepository()
	} else {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		messageLog = database.NewMessageLog(db)
		benefits = database.NewBenefitRepository(db)
	}

	var (
		kv       storage.KV
		notifier feed.Notifier
	)
	if cfg.RedisURL != "" {
		rdb := storage.NewRedisClient(cfg.RedisURL)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		log.Println("✅ Redis connected")
		kv = storage.NewRedisKV(rdb)
		notifier = feed.NewRedisNotifier(rdb, chatChannel)
	} else {
		log.Println("⚠️  REDIS_URL not set, client state is kept in memory")
		kv = storage.NewMemoryKV()
		notifier = feed.NewLocalNotifier()
	}

	// 3. AI: in-process Gemini, or a remote chat-assist endpoint
	var (
		followUps handlers.FollowUpGenerator
		assistant services.Assistant
	)
	if cfg.GeminiAPIKey != "" {
		llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal("Failed to create LLM client: ", err)
		}
		followUps = llmService
		assistant = llmService
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, follow-up generation is disabled")
	}
	if cfg.AIAssistURL != "" {
		assistant = services.NewAssistClient(cfg.AIAssistURL)
	}

	// 4. Core services
	chatService := services.NewChatService(ctx, messageLog, notifier)
	mentions := services.NewMentionDispatcher(chatService, assistant)
	jobSearch := services.NewJobSearchService(cfg.RapidAPIKey, cfg.RapidAPIHost)
	emailService := services.NewEmailService(cfg.GmailEndpoint)
	benefitService := services.NewBenefitService(benefits, cfg.SubmissionCooldown)

	// 5. Handlers & routes
	router := &handlers.Router{
		Jobs:         handlers.NewJobHandler(jobSearch, followUps, assistant),
		Applications: handlers.NewApplicationHandler(emailService),
		Chat:         handlers.NewChatHandler(chatService, mentions),
		Accounts:     handlers.NewAccountHandler(auth.NewGoogleIdentity(""), benefitService),
	}
	r := router.Engine(kv)

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
