package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blood-bank-dashboard/internal/config"
	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/database"
	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/events"
	"blood-bank-dashboard/internal/handler"
	"blood-bank-dashboard/internal/logger"
	"blood-bank-dashboard/internal/mailer"
	"blood-bank-dashboard/internal/metrics"
	"blood-bank-dashboard/internal/middleware"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "blood-bank-dashboard"

func main() {
	// 1. Load configuration and logger
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// 3. Connect to PostgreSQL and Redis
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Database unavailable", zap.Error(err))
	}
	rdb, err := database.ConnectRedis(cfg, log)
	if err != nil {
		log.Fatal("Redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	// 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 5. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	donorRepo := repository.NewDonorRepo(db)
	requestRepo := repository.NewRequestRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)
	hospitalRepo := repository.NewHospitalRepo(db)

	// 6. Session events, token state and outbound integrations
	sessions := session.NewManager(session.NewRedisBus(rdb, log), log, session.WithRetention(cfg.JWT.AccessTokenExpiry))
	tokens := session.NewTokenStore(rdb)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.Info("Publishing request events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	if cfg.Mailer.WebhookURL == "" {
		log.Warn("MAILER_WEBHOOK_URL is not set, password reset mails will fail")
	}
	mail := mailer.NewClient(cfg.Mailer.WebhookURL, cfg.Mailer.Sender, cfg.Mailer.ResetRedirectURL, log)

	// 7. Initialize services
	authService := service.NewAuthService(userRepo, auditRepo, tokens, mail, sessions, cfg.Mailer.ResetTokenTTL, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	inventoryService := service.NewInventoryService(inventoryRepo, auditRepo, notificationService, log)
	donorService := service.NewDonorService(donorRepo, log)
	requestService := service.NewRequestService(requestRepo, auditRepo, publisher, m, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	hospitalService := service.NewHospitalService(hospitalRepo)
	workerService := service.NewWorkerService(inventoryRepo, notificationService, m, cfg.Worker.SnapshotInterval, log)

	views := dashboard.NewRegistry(dashboard.Services{
		Inventory:     inventoryService,
		Requests:      requestService,
		Notifications: notificationService,
		Donors:        donorService,
		Analytics:     analyticsService,
	}, dashboard.Deps{Group: datasync.NewGroup(), Observer: m}, cfg.Dashboard.ViewMaxAge, log)
	sessions.AddListener(views)

	// 8. Start the session subscriber and background worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sessions.Start(ctx); err != nil {
		log.Fatal("Failed to start session manager", zap.Error(err))
	}
	defer sessions.Close()

	go workerService.Start(ctx)
	go views.Sweep(ctx, cfg.Dashboard.SweepInterval, cfg.Dashboard.ViewIdleTTL)

	// 9. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg))

	authHandler := handler.NewAuthHandler(authService, cfg.Server.GinMode == gin.ReleaseMode, log)
	dashboardHandler := handler.NewDashboardHandler(views, log)
	inventoryHandler := handler.NewInventoryHandler(views, inventoryService, log)
	requestHandler := handler.NewRequestHandler(views, requestService, log)
	donorHandler := handler.NewDonorHandler(views, log)
	notificationHandler := handler.NewNotificationHandler(views, notificationService, log)
	analyticsHandler := handler.NewAnalyticsHandler(views, analyticsService, log)
	hospitalHandler := handler.NewHospitalHandler(hospitalService, log)

	acm := middleware.NewAccessControlMiddleware(donorService)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	// 10. Define routes
	r.GET("/health", handler.Health(serviceName, sessions))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.OptionalAuth(tokens), authHandler.Logout)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/confirm-reset", authHandler.ConfirmReset)
	}

	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(tokens), middleware.RefreshSession(sessions))
	{
		api.GET("/auth/me", authHandler.Me)
		api.PUT("/auth/password", authHandler.UpdatePassword)

		api.GET("/dashboard", dashboardHandler.Home)
		api.POST("/dashboard/refresh/:panel", dashboardHandler.Refresh)

		api.GET("/inventory", inventoryHandler.List)
		api.GET("/inventory/history", inventoryHandler.History)
		api.PATCH("/inventory/:id", staffOnly, inventoryHandler.Update)

		api.GET("/hospitals", hospitalHandler.GetAllHospitals)
		api.GET("/hospitals/:id", hospitalHandler.GetHospital)

		api.GET("/requests", requestHandler.List)
		api.POST("/requests", requestHandler.Create)
		api.PATCH("/requests/:id", staffOnly, requestHandler.Update)
		api.POST("/requests/:id/approve", staffOnly, requestHandler.Approve)
		api.POST("/requests/:id/reject", staffOnly, requestHandler.Reject)
		api.POST("/requests/:id/urgent", staffOnly, requestHandler.MarkUrgent)

		donors := api.Group("/donors/:id", acm.CheckDonorAccess())
		{
			donors.GET("", donorHandler.GetDonor)
			donors.PATCH("", donorHandler.UpdateDonor)
			donors.GET("/medical", donorHandler.GetMedicalInfo)
			donors.PUT("/medical", donorHandler.UpdateMedicalInfo)
			donors.GET("/donations", donorHandler.Donations)
			donors.GET("/donations/export", donorHandler.ExportDonations)
			donors.GET("/appointments", donorHandler.Appointments)
			donors.POST("/appointments", donorHandler.ScheduleAppointment)
		}

		api.PATCH("/appointments/:id", acm.CheckAppointmentAccess(), donorHandler.UpdateAppointment)
		api.POST("/appointments/:id/cancel", acm.CheckAppointmentAccess(), donorHandler.CancelAppointment)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.DELETE("/notifications/:id", notificationHandler.Delete)
		api.DELETE("/notifications", notificationHandler.ClearAll)

		api.GET("/analytics", analyticsHandler.Get)
		api.GET("/analytics/donations", analyticsHandler.DonationTrends)
		api.GET("/analytics/requests", analyticsHandler.RequestTrends)
	}

	// 11. Serve with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	cancel()
	log.Info("Server exited")
}
