package main

import (
	"log/slog"
	"os"

	"github.com/altanet-mx/crm_backend/internal/adapters/restclient"
	portssvc "github.com/altanet-mx/crm_backend/internal/core/ports/services"
	"github.com/altanet-mx/crm_backend/internal/core/services"
	"github.com/altanet-mx/crm_backend/internal/handlers"
	"github.com/altanet-mx/crm_backend/internal/middleware"
	"github.com/altanet-mx/crm_backend/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Record-service adapters
	workOrders := restclient.NewWorkOrderClient(cfg.WorkOrdersURL, cfg.ClientTimeout)
	accounts := restclient.NewAccountClient(cfg.AccountsURL, cfg.ClientTimeout)
	receipts := restclient.NewReceiptClient(cfg.ReceiptsURL, cfg.ClientTimeout)
	events := restclient.NewEventClient(cfg.EventsURL, cfg.ClientTimeout)
	contracts := restclient.NewContractClient(cfg.ContractsURL, cfg.ClientTimeout)

	serviceContainer := &portssvc.ServiceContainer{
		WorkOrderApproval: services.NewWorkOrderApprovalCoordinator(workOrders, accounts, receipts, events, contracts),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
