package http

import (
	"github.com/gin-gonic/gin"
	"github.com/skillswap/skillswap-backend/internal/delivery/http/handler"
)

type Router struct {
	profileHandler *handler.ProfileHandler
	matchHandler   *handler.MatchHandler
	sessionHandler *handler.SessionHandler
	eventsHandler  *handler.EventsHandler
}

func NewRouter(
	profileHandler *handler.ProfileHandler,
	matchHandler *handler.MatchHandler,
	sessionHandler *handler.SessionHandler,
	eventsHandler *handler.EventsHandler,
) *Router {
	return &Router{
		profileHandler: profileHandler,
		matchHandler:   matchHandler,
		sessionHandler: sessionHandler,
		eventsHandler:  eventsHandler,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), cors())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", r.profileHandler.SubmitProfile)
			profiles.GET("", r.profileHandler.ListProfiles)
		}

		matches := v1.Group("/matches")
		{
			matches.GET("", r.matchHandler.ListMatches)
			matches.GET("/random", r.matchHandler.RandomMatch)
			matches.GET("/new", r.matchHandler.NewMatchIDs)
			matches.DELETE("/new", r.matchHandler.ClearNew)
		}

		v1.GET("/stats", r.sessionHandler.Stats)
		v1.POST("/session/reset", r.sessionHandler.Reset)

		if r.eventsHandler != nil {
			v1.GET("/events", r.eventsHandler.Stream)
		}
	}

	return router
}
