package bootstrap

import (
	"context"
	"log"

	"escribanos-be/internal/config"
	"escribanos-be/internal/controller"
	"escribanos-be/internal/handler"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/pkg/mailer"
	"escribanos-be/internal/pkg/mercadopago"
	"escribanos-be/internal/pkg/serverutils"
	"escribanos-be/internal/repository/implementation"
	"escribanos-be/internal/repository/unitofwork"
	"escribanos-be/internal/service"
	"escribanos-be/internal/websocket"

	pkgNats "escribanos-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	EscribanoController controller.IEscribanoController
	BillingController   controller.IBillingController
	WebhookController   controller.IWebhookController
	CronController      controller.ICronController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Mercado Pago
	gateway, err := mercadopago.NewGateway(cfg.MercadoPago.AccessToken)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Mercado Pago client: %v", err)
	}
	verifier := mercadopago.NewSignatureVerifier(cfg.MercadoPago.WebhookSecret)
	if !verifier.Enabled() {
		log.Printf("[WARN] MP_WEBHOOK_SECRET not set, webhook signatures will NOT be verified")
	}

	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.JWT.Secret)

	// 3. Services
	reconciler := service.NewSubscriptionReconciler(uowFactory, natsPub, sysLogger)
	webhookService := service.NewWebhookService(uowFactory, gateway, verifier, reconciler, rdb, sysLogger)
	sweepService := service.NewSweepService(uowFactory, natsPub, sysLogger)
	billingService := service.NewBillingService(uowFactory, gateway, reconciler, cfg.App.ClientURL, sysLogger)
	escribanoService := service.NewEscribanoService(uowFactory, sysLogger)
	authService := service.NewAuthService(uowFactory, emailService, cfg.JWT.Secret, cfg.JWT.ExpiryMinutes, sysLogger)

	// Notification delivery worker
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, uowFactory, natsSub, wsHub, emailService, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, cfg.JWT.Secret, jwtMiddleware, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		EscribanoController: controller.NewEscribanoController(escribanoService, jwtMiddleware),
		BillingController:   controller.NewBillingController(billingService, jwtMiddleware),
		WebhookController:   controller.NewWebhookController(webhookService, sysLogger),
		CronController:      controller.NewCronController(sweepService, cfg.Cron.Secret, sysLogger),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Logger: sysLogger,
	}
}
