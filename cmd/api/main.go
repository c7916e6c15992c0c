package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/controllers"
	"faculty-management-api/middleware"
	"faculty-management-api/models"
	"faculty-management-api/monitor"
	"faculty-management-api/routes"
	"faculty-management-api/services"
	"faculty-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	defer config.Log.Sync() //nolint:errcheck

	if os.Getenv("JWT_SECRET") == "" {
		config.Log.Fatal("JWT_SECRET is not set")
	}

	if err := config.InitDB(); err != nil {
		config.Log.Fatal("database unavailable", zap.Error(err))
	}
	if config.GetenvBool("DB_AUTO_MIGRATE", true) {
		if err := config.DB.AutoMigrate(models.All()...); err != nil {
			config.Log.Fatal("auto migrate failed", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := config.InitRedis(ctx)
	if err != nil {
		config.Log.Warn("redis disabled", zap.Error(err))
	}

	// Events: always a local hub; Redis fans out across instances when present.
	hub := services.NewEventHub(config.GetenvInt("EVENT_BUFFER", 128))
	var publisher services.EventPublisher = hub
	origin := ""
	if rdb != nil {
		bus := services.NewRedisEventBus(rdb, hub)
		publisher = bus
		origin = bus.Origin()
		go func() {
			if err := bus.Run(ctx); err != nil {
				config.Log.Error("redis event relay stopped", zap.Error(err))
			}
		}()
	}

	workflows := services.NewWorkflows(services.WorkflowPolicy{
		AllowDirectHire: config.GetenvBool("FACULTY_HIRE_FAST_PATH", false),
	})

	leaveStore := services.NewGormRequestStore[models.LeaveApplication](config.DB, "Submitter")
	scheduleStore := services.NewGormRequestStore[models.ScheduleChangeRequest](config.DB, "Submitter")
	applicationStore := services.NewGormRequestStore[models.FacultyApplication](config.DB)

	userService := services.NewUserService(config.DB)
	notificationService := services.NewNotificationService(config.DB)
	leaveService := services.NewLeaveService(leaveStore, workflows, publisher)
	scheduleService := services.NewScheduleChangeService(scheduleStore, workflows, publisher)
	applicationService := services.NewFacultyApplicationService(applicationStore, workflows, publisher)

	var mailer services.Mailer
	if settings := config.LoadMailSettings(); settings.Configured() {
		mailer = config.NewSMTPMailer(settings)
	} else {
		config.Log.Info("SMTP not configured, email notifications disabled")
	}
	notifier := services.NewNotifier(notificationService, userService, mailer, applicationStore).WithOrigin(origin)
	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	go notifier.Run(ctx, events)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.UseWithGin()

	router := gin.New()
	router.Use(middleware.RequestLogger(config.Log))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware())
	router.Use(monitor.HTTPMetrics())

	monitor.RegisterMetricsRoute(router)
	monitor.RegisterLogsRoute(router)

	var rateLimit gin.HandlerFunc
	if rdb != nil {
		rateLimit = middleware.RateLimitMiddleware(rdb, int64(config.GetenvInt("RATE_LIMIT_PER_MINUTE", 120)), config.Log)
	}

	routes.SetupRoutes(router, routes.Handlers{
		Users:               userService,
		Auth:                controllers.NewAuthController(userService),
		UserAdmin:           controllers.NewUserController(userService),
		Leaves:              controllers.NewLeaveController(leaveService),
		ScheduleChanges:     controllers.NewScheduleChangeController(scheduleService),
		FacultyApplications: controllers.NewFacultyApplicationController(applicationService),
		Publications:        controllers.NewPublicationController(services.NewPublicationService(config.DB)),
		Subjects:            controllers.NewSubjectController(services.NewSubjectService(config.DB)),
		Gallery:             controllers.NewGalleryController(services.NewGalleryService(config.DB)),
		Notifications:       controllers.NewNotificationController(notificationService),
		Events:              controllers.NewEventStream(hub),
		RateLimit:           rateLimit,
	})

	port := config.Getenv("SERVER_PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Log.Info("server starting",
			zap.String("port", port),
			zap.Bool("redis", rdb != nil),
			zap.Bool("email", mailer != nil),
			zap.Bool("direct_hire", workflows[models.KindFacultyApplication].CanTransition(models.StatusPending, models.StatusHired)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Log.Error("graceful shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
