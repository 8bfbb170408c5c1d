package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/config"
	"github.com/irurudev/nexus-pos/internal/handler"
	"github.com/irurudev/nexus-pos/internal/middleware"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/service"
	"github.com/irurudev/nexus-pos/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	categorySvc := service.NewCategoryService(categoryRepo, itemRepo)
	itemSvc := service.NewItemService(itemRepo, categoryRepo, sequenceRepo, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo, sequenceRepo, dispatcher)
	inventorySvc := service.NewInventoryService(itemRepo, movementRepo, dispatcher)
	saleSvc := service.NewSaleService(saleRepo, sequenceRepo, customerRepo, inventorySvc, dispatcher)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)
	auditSvc := service.NewAuditService(auditRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	itemsH := handler.NewItemsHandler(itemSvc, inventorySvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	salesH := handler.NewSalesHandler(saleSvc, saleRepo, cfg.PDFStoragePath)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	auditH := handler.NewAuditLogsHandler(auditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleCashier)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Sales — the commit path is open to both roles
		v1.POST("/sales", anyRole, salesH.CreateSale)
		v1.GET("/sales", anyRole, salesH.ListSales)
		v1.GET("/sales/:invoice_id", anyRole, salesH.GetSale)
		v1.GET("/sales/:invoice_id/receipt", anyRole, salesH.Receipt)

		// Catalog — both roles read, admin writes
		v1.GET("/items", anyRole, itemsH.List)
		v1.GET("/items/:code", anyRole, itemsH.Get)
		v1.GET("/items/:code/movements", anyRole, itemsH.Movements)
		items := v1.Group("/items", adminOnly)
		{
			items.POST("", itemsH.Create)
			items.PUT("/:code", itemsH.Update)
			items.DELETE("/:code", itemsH.Delete)
			items.POST("/:code/stock", itemsH.AdjustStock)
		}

		v1.GET("/categories", anyRole, categoriesH.List)
		categories := v1.Group("/categories", adminOnly)
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		// Customers — both roles read and create (walk-ins registered at the till)
		v1.GET("/customers", anyRole, customersH.List)
		v1.GET("/customers/:code", anyRole, customersH.Get)
		v1.POST("/customers", anyRole, customersH.Create)
		customers := v1.Group("/customers", adminOnly)
		{
			customers.PUT("/:code", customersH.Update)
			customers.DELETE("/:code", customersH.Delete)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.POST("/:id/reactivate", authH.ReactivateUser)
		}

		// Analytics + audit trail — admin only
		analytics := v1.Group("/analytics", adminOnly)
		{
			analytics.GET("/summary", analyticsH.Summary)
			analytics.GET("/categories", analyticsH.TopCategories)
			analytics.GET("/cashiers", analyticsH.CashierPerformance)
		}
		v1.GET("/audit-logs", adminOnly, auditH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
