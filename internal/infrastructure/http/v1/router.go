// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"facturier/internal/domain/documents/bonlivraison"
	"facturier/internal/domain/documents/conversion"
	"facturier/internal/domain/documents/devis"
	"facturier/internal/domain/documents/invoice"
	"facturier/internal/domain/reports"
	"facturier/internal/infrastructure/http/v1/handlers"
	"facturier/internal/infrastructure/http/v1/middleware"
	"facturier/internal/infrastructure/numerator"
	"facturier/internal/infrastructure/pdf"
	"facturier/internal/infrastructure/storage/postgres"
	"facturier/internal/infrastructure/storage/postgres/document_repo"
	"facturier/internal/infrastructure/storage/postgres/report_repo"
	"facturier/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	// Pool is the database connection pool (health checks use it directly).
	Pool *postgres.Pool

	// TxManager drives all transactional work.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// Workshop details printed on generated PDFs.
	Workshop pdf.Workshop

	// CORSOrigins restricts browser origins; empty allows all.
	CORSOrigins []string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Wiring: repositories -> services -> handlers
	gen := numerator.NewWithTxManager(cfg.TxManager)

	devisRepo := document_repo.NewDevisRepo(cfg.TxManager)
	invoiceRepo := document_repo.NewInvoiceRepo(cfg.TxManager)
	blRepo := document_repo.NewBonLivraisonRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	devisService := devis.NewService(devisRepo, gen, cfg.TxManager)
	invoiceService := invoice.NewService(invoiceRepo, gen, cfg.TxManager)
	blService := bonlivraison.NewService(blRepo, gen, cfg.TxManager)
	converter := conversion.NewService(devisRepo, invoiceRepo, gen, cfg.TxManager)
	reportsService := reports.NewService(reportRepo)

	renderer := pdf.NewRenderer(cfg.Workshop)

	base := handlers.NewBaseHandler()
	devisHandler := handlers.NewDevisHandler(base, devisService, converter, renderer)
	invoiceHandler := handlers.NewInvoiceHandler(base, invoiceService, renderer)
	blHandler := handlers.NewBonLivraisonHandler(base, blService, renderer)
	reportsHandler := handlers.NewReportsHandler(base, reportsService)

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		devisGroup := apiV1.Group("/devis")
		{
			devisGroup.POST("", devisHandler.Create)
			devisGroup.GET("", devisHandler.List)
			devisGroup.GET("/:id", devisHandler.Get)
			devisGroup.PUT("/:id", devisHandler.Update)
			devisGroup.PATCH("/:id/status", devisHandler.UpdateStatus)
			devisGroup.DELETE("/:id", devisHandler.Delete)
			devisGroup.POST("/:id/convert", devisHandler.Convert)
			devisGroup.GET("/:id/pdf", devisHandler.PDF)
			devisGroup.GET("/:id/whatsapp", devisHandler.WhatsAppLink)
		}

		invoices := apiV1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.PATCH("/:id/status", invoiceHandler.UpdateStatus)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/payments", invoiceHandler.AddPayment)
			invoices.GET("/:id/pdf", invoiceHandler.PDF)
			invoices.GET("/:id/whatsapp", invoiceHandler.WhatsAppLink)
		}

		bons := apiV1.Group("/bons-livraison")
		{
			bons.POST("", blHandler.Create)
			bons.GET("", blHandler.List)
			bons.GET("/:id", blHandler.Get)
			bons.PUT("/:id", blHandler.Update)
			bons.PATCH("/:id/status", blHandler.UpdateStatus)
			bons.DELETE("/:id", blHandler.Delete)
			bons.GET("/:id/pdf", blHandler.PDF)
			bons.GET("/:id/whatsapp", blHandler.WhatsAppLink)
		}

		analytics := apiV1.Group("/analytics")
		{
			analytics.GET("/summary", reportsHandler.Summary)
			analytics.GET("/status", reportsHandler.StatusDistribution)
			analytics.GET("/monthly", reportsHandler.MonthlyRevenue)
			analytics.GET("/today", reportsHandler.TodayStats)
		}
	}

	return router
}
