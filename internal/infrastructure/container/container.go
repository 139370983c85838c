package container

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/delivery/http"
	"github.com/skillswap/skillswap-backend/internal/delivery/http/handler"
	"github.com/skillswap/skillswap-backend/internal/infrastructure/database"
	"github.com/skillswap/skillswap-backend/internal/infrastructure/events"
	"github.com/skillswap/skillswap-backend/internal/infrastructure/server"
	"github.com/skillswap/skillswap-backend/internal/repository/memory"
	"github.com/skillswap/skillswap-backend/internal/usecase/exchange"
	"github.com/skillswap/skillswap-backend/internal/usecase/match"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Redis    *redis.Client
	Exchange *exchange.ExchangeUseCase
	Hub      *events.WSHub
	Engine   *gin.Engine
	Server   *server.Server

	expirer     *exchange.HighlightExpirer
	dispatcher  *events.Dispatcher
	unsubscribe func()
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis publisher when enabled
	var redisClient *redis.Client
	var publishers []events.Publisher
	if cfg.Redis.Enabled {
		client, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		redisClient = client
		publishers = append(publishers, events.NewRedisPublisher(client, cfg.Redis.Channel))
		log.Info().Str("channel", cfg.Redis.Channel).Msg("Redis event publishing enabled")
	}

	// Initialize session stores
	profileRepo := memory.NewProfileRepository()
	matchRepo := memory.NewMatchRepository()
	newMatches := memory.NewNewMatchSet()

	// Initialize use cases
	exchangeUseCase := exchange.NewExchangeUseCase(
		profileRepo,
		matchRepo,
		newMatches,
		match.NewEngine(),
	)

	expirer := exchange.NewHighlightExpirer(exchangeUseCase, cfg.Highlight.Duration)
	expirer.Start()

	// Initialize event fan-out
	hub := events.NewWSHub()
	dispatcher := events.NewDispatcher(hub, publishers...)
	unsubscribe := exchangeUseCase.Subscribe(dispatcher.OnSubmission)

	// Initialize handlers
	profileHandler := handler.NewProfileHandler(exchangeUseCase, cfg.Server.SubmitDelay)
	matchHandler := handler.NewMatchHandler(exchangeUseCase)
	sessionHandler := handler.NewSessionHandler(exchangeUseCase, dispatcher.OnReset)
	eventsHandler := handler.NewEventsHandler(hub)

	// Initialize router
	router := http.NewRouter(
		profileHandler,
		matchHandler,
		sessionHandler,
		eventsHandler,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config:      cfg,
		Redis:       redisClient,
		Exchange:    exchangeUseCase,
		Hub:         hub,
		Engine:      ginRouter,
		Server:      srv,
		expirer:     expirer,
		dispatcher:  dispatcher,
		unsubscribe: unsubscribe,
	}, nil
}

// Close releases subscriptions, client connections and Redis
func (c *Container) Close() error {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	if c.expirer != nil {
		c.expirer.Stop()
	}
	if c.dispatcher != nil {
		c.dispatcher.Close()
	}
	if c.Hub != nil {
		c.Hub.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	return nil
}
