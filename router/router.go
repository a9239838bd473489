package router

import (
	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/handlers"
	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds everything required to wire the routes.
type Dependencies struct {
	Config           *config.Config
	CartHandler      *handlers.CartHandler
	ReceiptHandler   *handlers.ReceiptHandler
	PurchaseHandler  *handlers.PurchaseHandler
	ExpenseHandler   *handlers.ExpenseHandler
	EstimatorHandler *handlers.EstimatorHandler
	UploadHandler    *handlers.UploadHandler
	DeliveryHandler  *handlers.DeliveryHandler
	HealthHandler    *handlers.HealthHandler
	Metrics          *middleware.HTTPMetrics
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		panic(err)
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(&deps.Config.Server))
	r.Use(middleware.NoCache())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public estimator and quoting endpoints.
	api := r.Group("/api")
	api.Use(middleware.Session())
	{
		api.POST("/chat", deps.EstimatorHandler.Chat)
		api.POST("/bom/extract", deps.EstimatorHandler.ExtractBOM)
		api.POST("/uploads", deps.UploadHandler.Upload)
		api.POST("/delivery-quote", deps.DeliveryHandler.Quote)
	}

	// Staff endpoints require a valid staff token.
	staffAuth := middleware.StaffAuth(deps.Config.Server.JwtSecretKey)

	staffAPI := api.Group("/staff")
	staffAPI.Use(staffAuth)
	{
		cartRoutes := staffAPI.Group("/cart")
		{
			cartRoutes.GET("", deps.CartHandler.GetBill)
			cartRoutes.POST("/add", deps.CartHandler.AddItem)
			cartRoutes.POST("/quantity", deps.CartHandler.SetQuantity)
			cartRoutes.POST("/remove", deps.CartHandler.RemoveItem)
			cartRoutes.POST("/clear", deps.CartHandler.ClearCart)
		}

		receiptRoutes := staffAPI.Group("/receipts")
		{
			receiptRoutes.POST("", deps.ReceiptHandler.CreateReceipt)
			receiptRoutes.GET("", deps.ReceiptHandler.ListReceipts)
			receiptRoutes.GET("/:id", deps.ReceiptHandler.GetReceipt)
		}

		purchaseRoutes := staffAPI.Group("/purchases")
		{
			purchaseRoutes.POST("", deps.PurchaseHandler.Save)
			purchaseRoutes.GET("", deps.PurchaseHandler.List)
			purchaseRoutes.GET("/:id", deps.PurchaseHandler.Get)
			purchaseRoutes.POST("/extract", deps.PurchaseHandler.Extract)
			purchaseRoutes.POST("/ai-parse-text", deps.PurchaseHandler.ParseText)
		}

		expenseRoutes := staffAPI.Group("/expenses")
		{
			expenseRoutes.POST("", deps.ExpenseHandler.SaveBatch)
			expenseRoutes.GET("", deps.ExpenseHandler.List)
			expenseRoutes.POST("/extract", deps.ExpenseHandler.Extract)
			expenseRoutes.POST("/ai-parse-text", deps.ExpenseHandler.ParseText)
		}
	}

	// Print view lives outside /api: it is a browser page, not a JSON endpoint.
	printRoutes := r.Group("/staff")
	printRoutes.Use(staffAuth)
	{
		printRoutes.GET("/receipts/:id/print", deps.ReceiptHandler.PrintReceipt)
	}

	return r
}
