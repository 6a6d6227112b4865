package api

import (
	"fmt"
	"net/http"

	"evento/internal/cache"
	"evento/internal/config"
	"evento/internal/database"
	"evento/internal/handlers"
	"evento/internal/logger"
	"evento/internal/messaging"
	"evento/internal/middleware"
	"evento/internal/qr"
	"evento/internal/repository"
	"evento/internal/search"
	"evento/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// Valkey and Elasticsearch are optional: the API degrades to
	// Postgres-only auth and search when they are not configured.
	var valkeyClient *cache.ValkeyClient
	if cfg.Valkey.Addr != "" {
		valkeyClient, err = cache.NewValkeyClient(cfg.Valkey)
		if err != nil {
			logger.Fatal("Failed to connect to Valkey", "error", err)
		}
	}

	var eventIndex *search.EventIndex
	if cfg.Search.Enabled() {
		eventIndex, err = search.NewEventIndex(cfg.Search)
		if err != nil {
			logger.Fatal("Failed to connect to Elasticsearch", "error", err)
		}
	}

	renderer, err := qr.NewRenderer(cfg.QRLevel, cfg.QRSize)
	if err != nil {
		logger.Fatal("Invalid QR configuration", "error", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, eventIndex, renderer, cfg.TicketExpiry)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/ticket-types", h.ListTicketTypes)
			events.POST("", middleware.RequireStaff(), h.CreateEvent)
			events.POST("/:id/ticket-types", middleware.RequireStaff(), h.CreateTicketType)
			events.PATCH("/:id", middleware.RequireStaff(), h.UpdateEvent)
			events.DELETE("/:id", middleware.RequireStaff(), h.DeleteEvent)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("", h.PurchaseTickets)
			tickets.GET("", h.ListMyTickets)
			tickets.PATCH("/seat", h.AssignSeat)
			tickets.PATCH("/pay", h.PayTicket)
			tickets.GET("/:id/qr", h.TicketQR)
			tickets.GET("/:id/payment", h.GetPayment)
		}

		api.POST("/verify", middleware.RequireStaff(), h.VerifyTicket)

		admin := api.Group("/admin", middleware.RequireStaff())
		{
			admin.GET("/stats", h.DashboardStats)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "evento-api",
		"version": "1.0.0",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
