package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// LLM
	GeminiAPIKey string
	GeminiModel  string
	AIAssistURL  string // remote chat-assist endpoint; empty means in-process LLM

	// Job search (RapidAPI)
	RapidAPIKey  string
	RapidAPIHost string

	GmailEndpoint string

	SubmissionCooldown time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Could not load .env file (%v), using environment variables", err)
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", "host=localhost user=postgres password=password dbname=jobseeker port=5432 sslmode=disable"),
		RedisURL:      os.Getenv("REDIS_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		AIAssistURL:   os.Getenv("AI_ASSIST_URL"),
		RapidAPIKey:   os.Getenv("RAPIDAPI_KEY"),
		RapidAPIHost:  getenv("RAPIDAPI_HOST", "linkedin-job-search-api.p.rapidapi.com"),
		GmailEndpoint: os.Getenv("GMAIL_ENDPOINT"),

		SubmissionCooldown: 10 * time.Minute,
	}

	if raw := os.Getenv("SUBMISSION_COOLDOWN"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("⚠️  Invalid SUBMISSION_COOLDOWN %q, keeping %v", raw, cfg.SubmissionCooldown)
		} else {
			cfg.SubmissionCooldown = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
