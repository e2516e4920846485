package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sitebeam/construction-system/internal/api/handler"
	"github.com/sitebeam/construction-system/internal/api/middleware"
	"github.com/sitebeam/construction-system/internal/core/domain"
	"github.com/sitebeam/construction-system/internal/core/ports"
)

// RouterConfig carries everything the router needs. Services are constructed
// by the caller so their lifecycles (and the feed dispatcher's) stay outside
// the HTTP layer.
type RouterConfig struct {
	JWTSecret string
	Logger    zerolog.Logger

	// Probed by the readiness endpoint.
	DB  *mongo.Database
	RDB *redis.Client

	// Auth middleware loads the full principal on every request.
	Principals ports.PrincipalRepository

	Auth     ports.AuthService
	Sites    ports.SiteService
	Payments ports.PaymentService
	Expenses ports.ExpenseService
	Activity ports.ActivityService
	Receipts handler.ReceiptRenderer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(rc RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(rc.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("construction"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(rc.Auth)
	siteHandler := handler.NewSiteHandler(rc.Sites)
	paymentHandler := handler.NewPaymentHandler(rc.Payments)
	expenseHandler := handler.NewExpenseHandler(rc.Expenses)
	feedHandler := handler.NewFeedHandler(rc.Activity)
	receiptHandler := handler.NewReceiptHandler(rc.Receipts)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(rc.DB, rc.RDB)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(rc.JWTSecret, rc.Principals))

	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)

	v1.POST("/users/invite", authHandler.Invite, adminOnly)
	v1.POST("/users/:id/site-access", authHandler.GrantSiteAccess, adminOnly)

	v1.POST("/sites", siteHandler.Create, adminOnly)
	v1.GET("/sites", siteHandler.List)
	v1.GET("/sites/:id", siteHandler.Get)

	v1.POST("/sites/:id/payments", paymentHandler.Create)
	v1.GET("/sites/:id/payments", paymentHandler.List)
	v1.GET("/payments/:id", paymentHandler.Get)
	v1.PATCH("/payments/:id/paid", paymentHandler.MarkPaid, adminOnly)
	v1.PATCH("/payments/:id/status", paymentHandler.SetStatus, adminOnly)
	v1.POST("/payments/:id/remind", paymentHandler.Remind, staff)
	v1.GET("/payments/:id/receipt", receiptHandler.Download)

	v1.POST("/sites/:id/expenses", expenseHandler.Create)
	v1.GET("/sites/:id/expenses", expenseHandler.List)
	v1.GET("/expenses/:id", expenseHandler.Get)
	v1.PATCH("/expenses/:id/status", expenseHandler.SetStatus, adminOnly)
	v1.PATCH("/expenses/:id/payment-status", expenseHandler.SetPaymentStatus, adminOnly)
	v1.POST("/expenses/:id/invoice", expenseHandler.AttachInvoice)
	v1.GET("/expenses/:id/invoice", expenseHandler.DownloadInvoice)

	v1.GET("/feed", feedHandler.List)

	return e
}
