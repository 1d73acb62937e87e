package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingapp "github.com/servicehub/admin/internal/application/billing"
	catalogapp "github.com/servicehub/admin/internal/application/catalog"
	identityapp "github.com/servicehub/admin/internal/application/identity"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	projectapp "github.com/servicehub/admin/internal/application/project"
	qualificationapp "github.com/servicehub/admin/internal/application/qualification"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/auth"
	"github.com/servicehub/admin/internal/infrastructure/cache"
	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/servicehub/admin/internal/infrastructure/event"
	"github.com/servicehub/admin/internal/infrastructure/logger"
	"github.com/servicehub/admin/internal/infrastructure/payment"
	"github.com/servicehub/admin/internal/infrastructure/persistence"
	"github.com/servicehub/admin/internal/infrastructure/printing"
	"github.com/servicehub/admin/internal/infrastructure/storage"
	"github.com/servicehub/admin/internal/infrastructure/telemetry"
	"github.com/servicehub/admin/internal/interfaces/http/handler"
	"github.com/servicehub/admin/internal/interfaces/http/middleware"
	"github.com/servicehub/admin/internal/interfaces/http/router"

	_ "github.com/servicehub/admin/docs"
)

//	@title			ServiceHub Admin API
//	@version		1.0
//	@description	Administration API for the service marketplace: catalog, partner companies and wallets, projects, billing and partner qualification.

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		core := providers.LogCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Telemetry.LogsLevel))
		if log, err = logger.New(logCfg, core); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()
	zap.ReplaceGlobals(log)

	log.Info("Starting ServiceHub admin API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret is not configured")
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
		IncludeVars:     cfg.IsDevelopment(),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	meter := providers.Meter.Meter("servicehub-admin")
	var httpMeter = meter
	if !providers.Meter.IsEnabled() {
		httpMeter = nil
	}
	if httpMeter != nil {
		dbMetrics, err := telemetry.NewDBMetrics(meter, cfg.Telemetry.DBSlowQueryThresh, log)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else {
			if err := dbMetrics.RegisterCallbacks(db.DB); err != nil {
				log.Warn("Failed to register database metric callbacks", zap.Error(err))
			}
			if sqlDB, err := db.DB.DB(); err == nil {
				if err := dbMetrics.ObservePool(meter, sqlDB); err != nil {
					log.Warn("Failed to observe connection pool", zap.Error(err))
				}
			}
			defer func() { _ = dbMetrics.Stop() }()
		}
	}

	idempotency, err := cache.NewIdempotencyStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if closer, ok := idempotency.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	// Event bus
	bus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(256))

	// Repositories
	specialtyRepo := persistence.NewGormSpecialtyRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	walletTxRepo := persistence.NewGormWalletTransactionRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	qualificationRepo := persistence.NewGormQualificationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	hasher := auth.NewBcryptHasher(0)
	jwtService := auth.NewJWTService(cfg.JWT)
	revoker := auth.NewTokenRevoker(idempotency)

	// Services
	calculator := catalog.NewPriceCalculator(catalog.PriceTable{
		QualificationFeePct: decimal.NewFromFloat(cfg.Pricing.QualificationFeePct),
		TaxPct:              decimal.NewFromFloat(cfg.Pricing.TaxPct),
		OperationalFeePct:   decimal.NewFromFloat(cfg.Pricing.OperationalFeePct),
	})

	specialtyService := catalogapp.NewSpecialtyService(specialtyRepo, productRepo)
	specialtyService.SetEventPublisher(bus)

	productService := catalogapp.NewProductService(productRepo, specialtyRepo, calculator, nil)
	productService.SetEventPublisher(bus)
	productService.SetLogger(log)

	companyService := partnerapp.NewCompanyService(companyRepo, hasher)
	companyService.SetEventPublisher(bus)

	walletService := partnerapp.NewWalletService(companyRepo, walletTxRepo, idempotency, cfg.Idempotency.TTL)
	walletService.SetEventPublisher(bus)
	walletService.SetLogger(log)

	gateway, err := newPaymentGateway(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize card payments", zap.Error(err))
	}
	topUpService := partnerapp.NewTopUpService(companyRepo, walletTxRepo, walletService, gateway, partnerapp.TopUpPolicy{
		Currency: cfg.Stripe.Currency,
		Min:      decimal.NewFromFloat(cfg.Stripe.MinTopUp),
		Max:      decimal.NewFromFloat(cfg.Stripe.MaxTopUp),
	})
	topUpService.SetLogger(log)

	projectService := projectapp.NewProjectService(projectRepo, companyRepo, productRepo)
	projectService.SetEventPublisher(bus)

	invoiceService := billingapp.NewInvoiceService(invoiceRepo, invoiceRepo, companyRepo, projectRepo)
	invoiceService.SetEventPublisher(bus)
	invoiceService.SetLogger(log)

	var renderer *printing.ChromedpRenderer
	if cfg.Printing.Enabled {
		renderer, err = newInvoicePrinting(cfg, invoiceService, log)
		if err != nil {
			log.Fatal("Failed to initialize invoice printing", zap.Error(err))
		}
		defer func() { _ = renderer.Close() }()
	}

	attachments, err := newAttachmentStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize attachment storage", zap.Error(err))
	}
	qualificationService := qualificationapp.NewQualificationService(qualificationRepo, companyRepo, specialtyRepo, attachments)
	qualificationService.SetEventPublisher(bus)
	qualificationService.SetLogger(log)
	qualificationService.SetUploadExpiry(cfg.Storage.PresignExpiry)

	authService := identityapp.NewAuthService(userRepo, hasher, jwtService, revoker, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.JWT.MaxLoginAttempts,
		LockDuration:     cfg.JWT.LockDuration,
	}, log)
	authService.SetEventPublisher(bus)

	// Event handlers
	repricer := catalogapp.NewSpecialtyRatesChangedHandler(productService, log)
	bus.Subscribe(event.NewIdempotentHandler(repricer, idempotency, cfg.Idempotency.TTL, log), repricer.EventTypes()...)

	if httpMeter != nil {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:    meter,
			Logger:   log,
			Provider: telemetry.NewGormSnapshotProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			bus.Subscribe(businessMetrics, businessMetrics.EventTypes()...)
			businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
			defer businessMetrics.Stop()
		}
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	bootstrapAdmin(ctx, cfg, authService, log)

	// Handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Specialty:     handler.NewSpecialtyHandler(specialtyService),
		Product:       handler.NewProductHandler(productService),
		Company:       handler.NewCompanyHandler(companyService),
		Wallet:        handler.NewWalletHandler(walletService),
		TopUp:         handler.NewTopUpHandler(topUpService),
		Project:       handler.NewProjectHandler(projectService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Qualification: handler.NewQualificationHandler(qualificationService),
		System:        handler.NewSystemHandler(cfg.App.Name, version, db),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.Options{
		Logger:          log,
		JWTService:      jwtService,
		Revocations:     revoker,
		HTTP:            cfg.HTTP,
		Swagger:         cfg.Swagger,
		DefaultTenantID: cfg.Bootstrap.TenantID,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     providers.Tracer.IsEnabled(),
		},
		Profiling: providers.Profiler.IsEnabled(),
		Meter:     httpMeter,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newInvoicePrinting attaches the HTML/PDF printer to the invoice service
func newInvoicePrinting(cfg *config.Config, invoices *billingapp.InvoiceService, log *zap.Logger) (*printing.ChromedpRenderer, error) {
	paperSize, err := printing.ParsePaperSize(cfg.Printing.PaperSize)
	if err != nil {
		return nil, err
	}
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.RemoteURL,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}
	printer, err := printing.NewInvoicePrinter(renderer, printing.InvoicePrinterConfig{
		PaperSize: paperSize,
		Currency:  cfg.Printing.Currency,
	})
	if err != nil {
		_ = renderer.Close()
		return nil, err
	}
	invoices.SetPrinter(printer, cfg.App.Name)
	log.Info("Invoice printing enabled",
		zap.String("paper_size", string(paperSize)),
		zap.Bool("remote_browser", cfg.Printing.RemoteURL != ""))
	return renderer, nil
}

func newAttachmentStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (qualificationapp.AttachmentStorage, error) {
	if cfg.Storage.Backend != "s3" {
		log.Info("Using stub attachment storage")
		return storage.NewStubObjectStorage(), nil
	}
	s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Attachment bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3, nil
}

// newPaymentGateway returns nil when Stripe is switched off; top-ups then answer 503
func newPaymentGateway(cfg *config.Config, log *zap.Logger) (partnerapp.PaymentGateway, error) {
	if !cfg.Stripe.Enabled {
		log.Info("Card top-ups disabled")
		return nil, nil
	}
	gateway, err := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("Card top-ups enabled", zap.String("currency", cfg.Stripe.Currency))
	return gateway, nil
}

// bootstrapAdmin creates the first administrator of the default tenant when a password is configured
func bootstrapAdmin(ctx context.Context, cfg *config.Config, authService *identityapp.AuthService, log *zap.Logger) {
	if cfg.Bootstrap.AdminPassword == "" {
		return
	}
	tenantID, err := uuid.Parse(cfg.Bootstrap.TenantID)
	if err != nil {
		log.Fatal("Invalid bootstrap tenant id", zap.String("tenant_id", cfg.Bootstrap.TenantID), zap.Error(err))
	}
	created, err := authService.Bootstrap(ctx, identityapp.BootstrapInput{
		TenantID: tenantID,
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
		Email:    cfg.Bootstrap.AdminEmail,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			log.Fatal("Bootstrap administrator rejected", zap.String("code", domainErr.Code), zap.Error(err))
		}
		log.Fatal("Failed to bootstrap administrator", zap.Error(err))
	}
	if !created {
		log.Debug("Bootstrap skipped, tenant already has users", zap.String("tenant_id", tenantID.String()))
	}
}
