package server

import (
	"context"
	"net/http"

	"foodshop/internal/auth"
	"foodshop/internal/catalog"
	"foodshop/internal/config"
	"foodshop/internal/email"
	"foodshop/internal/notify"
	"foodshop/internal/order"
	"foodshop/internal/payment"
	"foodshop/internal/restaurant"
	"foodshop/internal/user"
	"foodshop/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, processor payment.Client, publisher notify.Publisher) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	restaurantHandler := restaurant.NewHandler(db)
	catalogHandler := catalog.NewHandler(db)
	walletHandler := wallet.NewHandler(db, processor, publisher)

	walletRepo := wallet.NewRepository(db)
	orderService := order.NewService(
		order.NewRepository(db, walletRepo),
		restaurant.NewRepository(db),
		order.NewEngine(catalog.NewRepository(db)),
		processor,
		walletRepo,
		user.NewRepository(db),
		publisher,
		emailService,
	)
	orderHandler := order.NewHandler(orderService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	router.GET("/restaurants", restaurantHandler.List)
	router.GET("/restaurants/:restaurantID/menu", catalogHandler.GetMenu)
	router.GET("/restaurants/:restaurantID/hours", restaurantHandler.GetHours)
	router.GET("/restaurants/:restaurantID/pickup-slots", restaurantHandler.GetPickupSlots)

	// The processor delivers both GET redirects and server-to-server POSTs.
	router.GET("/payments/callback", orderHandler.ProcessorCallback)
	router.POST("/payments/callback", orderHandler.ProcessorCallback)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.POST("/restaurants/:restaurantID/checkout", orderHandler.Checkout)
		protected.GET("/orders", orderHandler.ListMine)
		protected.GET("/orders/:orderID", orderHandler.GetMine)
		protected.GET("/restaurants/:restaurantID/wallet", walletHandler.GetBalance)
		protected.GET("/restaurants/:restaurantID/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/restaurants/:restaurantID/wallet/topup", walletHandler.TopUp)
	}

	staff := router.Group("/staff")
	staff.Use(authMiddleware, auth.RequireRole(auth.RoleStaff))
	{
		staff.GET("/orders", orderHandler.ListForStaff)
		staff.POST("/orders/:orderID/advance", orderHandler.Advance)
		staff.POST("/orders/:orderID/cancel", orderHandler.CancelOrder)
		staff.POST("/orders/:orderID/collect", orderHandler.CollectCash)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/wallets/credit", walletHandler.AdminCredit)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
