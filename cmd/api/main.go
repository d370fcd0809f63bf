package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"

	httpadp "lendingportal-backend/internal/adapter/http"
	mw "lendingportal-backend/internal/adapter/middleware"
	"lendingportal-backend/internal/adapter/repository/mysql"
	"lendingportal-backend/internal/config"
	appDomain "lendingportal-backend/internal/domain/application"
	auditDomain "lendingportal-backend/internal/domain/audit"
	notifDomain "lendingportal-backend/internal/domain/notification"
	rlDomain "lendingportal-backend/internal/domain/ratelimit"
	userDomain "lendingportal-backend/internal/domain/user"
	"lendingportal-backend/internal/infrastructure/auth"
	"lendingportal-backend/internal/infrastructure/cache"
	"lendingportal-backend/internal/infrastructure/db"
	"lendingportal-backend/internal/infrastructure/queue"
	"lendingportal-backend/internal/infrastructure/sender"
	"lendingportal-backend/internal/usecase/accounts"
	"lendingportal-backend/internal/usecase/application"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/limiter"
	"lendingportal-backend/internal/usecase/notify"
	"lendingportal-backend/internal/usecase/scoring"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&appDomain.Application{},
		&appDomain.StatusHistoryEntry{},
		&appDomain.ExistingLoan{},
		&appDomain.AdminAssignment{},
		&auditDomain.Entry{},
		&rlDomain.Window{},
		&userDomain.User{},
		&userDomain.BankAccount{},
		&notifDomain.Preference{},
		&notifDomain.InAppNotification{},
		&notifDomain.WebhookRegistration{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer amqpConn.Close()
	publisher, err := queue.NewPublisher(amqpConn, cfg.QueueName)
	if err != nil {
		log.Fatalf("rabbitmq queue: %v", err)
	}

	appRepo := mysql.NewApplicationRepository(gdb)
	auditRepo := mysql.NewAuditRepository(gdb)
	rlRepo := mysql.NewRateLimitRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	notifRepo := mysql.NewNotificationRepository(gdb)

	auditor := auditlog.NewRecorder(auditRepo)
	gate := authz.NewGate(userRepo, logger)
	limiterUC := limiter.NewUsecase(rlRepo, logger)

	dispatcher := notify.NewDispatcher(
		notifRepo,
		userRepo,
		sender.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom),
		sender.NewTwilioSMSSender(cfg.TwilioFromNumber),
		sender.NewHTTPWebhookPoster(),
		logger,
	)
	bulk := notify.NewBulkSender(publisher, logger)

	appUC := application.NewUsecase(appRepo, auditor, gate, dispatcher, scoring.DefaultConfig(), logger)
	accUC := accounts.NewUsecase(userRepo, gate, auditor, logger)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	h := httpadp.NewHandler()
	appH := httpadp.NewApplicationHandler(appUC, logger)
	adminH := httpadp.NewAdminHandler(appUC, accUC, logger)
	notifH := httpadp.NewNotificationHandler(dispatcher, bulk, notifRepo, gate, auditor, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	e.GET("/health", h.Health)

	budgets := config.DefaultBudgets()
	rl := func(endpoint string) echo.MiddlewareFunc {
		return mw.RateLimit(limiterUC, auditor, logger, endpoint, budgets[endpoint])
	}

	api := e.Group("/api",
		mw.AuthMiddleware(verifier),
		mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger),
	)

	api.POST("/applications/validate", appH.Validate, rl(config.EndpointValidate))
	api.POST("/applications/eligibility", appH.Eligibility, rl(config.EndpointEligibility))
	api.POST("/applications", appH.Create, rl(config.EndpointSubmit))
	api.GET("/applications", appH.List)
	api.GET("/applications/export", appH.ExportCSV)
	api.GET("/applications/:application_id", appH.Get)
	api.GET("/bank-accounts", adminH.BankAccounts)
	api.GET("/notifications", notifH.ListInApp)

	admin := api.Group("/admin")
	admin.PATCH("/applications/:application_id/status", adminH.UpdateStatus, rl(config.EndpointStatusUpdate))
	admin.POST("/applications/status/batch", adminH.BatchUpdateStatus, rl(config.EndpointStatusUpdate))
	admin.POST("/applications/:application_id/assign", adminH.Assign)
	admin.PATCH("/users/:user_id/roles", adminH.UpdateRoles)
	admin.POST("/notifications/send", notifH.Send, rl(config.EndpointNotificationSend))
	admin.POST("/notifications/bulk", notifH.BulkSend, rl(config.EndpointBulkSend))
	admin.POST("/webhooks/dispatch", notifH.DispatchWebhooks, rl(config.EndpointWebhookDispatch))

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
