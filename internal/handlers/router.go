package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobseeker-portal/internal/auth"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

type Router struct {
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Chat         *ChatHandler
	Accounts     *AccountHandler
}

// Engine wires every route under /api/v1. kv is the shared client store that
// auth.ClientScope partitions per X-Client-ID.
func (rt *Router) Engine(kv storage.KV) *gin.Engine {
	r := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // For development only
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", auth.ClientIDHeader}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		// no client state
		api.GET("/jobs", rt.Jobs.SearchJobs)
		api.POST("/generate-followup", rt.Jobs.GenerateFollowUp)
		api.POST("/ai/chat-assist", rt.Jobs.ChatAssist)
		api.POST("/resume/extract", rt.Jobs.ExtractResume)
		api.GET("/apply/steps", rt.Accounts.ApplySteps)
		api.GET("/chat/messages", rt.Chat.Messages)
		api.GET("/chat/ws", rt.Chat.Stream)

		// client state only when an applicationId is given
		api.POST("/gmail/send", auth.OptionalClientScope(kv), rt.Applications.SendEmail)
	}

	client := api.Group("", auth.ClientScope(kv))
	{
		client.POST("/auth/login", rt.Accounts.Login)
		client.POST("/auth/logout", rt.Accounts.Logout)
		client.GET("/auth/me", rt.Accounts.Me)
		client.POST("/apply", rt.Accounts.Apply)

		client.GET("/applications", rt.Applications.List)
		client.POST("/applications", rt.Applications.Create)
		client.GET("/applications/stats", rt.Applications.Stats)
		client.GET("/applications/applied/:jobId", rt.Applications.Applied)
		client.GET("/applications/:id", rt.Applications.Get)
		client.PATCH("/applications/:id", rt.Applications.Update)
		client.DELETE("/applications/:id", rt.Applications.Delete)

		client.POST("/chat/messages", auth.RequireUser(), rt.Chat.Post)
	}

	return r
}
