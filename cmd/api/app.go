package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/docs"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/controller"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/route"
	"github.com/hugohenrick/gestao-obras/internal/adapter/report"
	"github.com/hugohenrick/gestao-obras/internal/adapter/repository"
	"github.com/hugohenrick/gestao-obras/internal/config"
	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/hugohenrick/gestao-obras/internal/infrastructure/database"
	"github.com/hugohenrick/gestao-obras/internal/infrastructure/scheduler"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/hugohenrick/gestao-obras/pkg/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	cfg        *config.Config
	logger     logger.Logger
	router     *gin.Engine
	server     *http.Server
	db         *database.PostgresDB
	overdueJob *scheduler.OverdueJob

	authController     *controller.AuthController
	purchaseController *controller.PurchaseController
	materialController *controller.MaterialController
	healthController   *controller.HealthController
	jwtService         *auth.JWTService
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	// Migrações automáticas são opcionais; em produção use cmd/migration
	if cfg.Database.AutoMigrate {
		if err := migrate(cfg, log); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Criar repositórios
	userRepo := repository.NewUserRepository(db.Pool())
	materialRepo := repository.NewMaterialRepository(db.Pool())
	purchaseRepo := repository.NewPurchaseRepository(db.Pool(), log)

	frequency := purchase.Frequency{
		Unit:     purchase.FrequencyUnit(strings.ToUpper(cfg.Installments.FrequencyUnit)),
		Interval: cfg.Installments.FrequencyInterval,
	}
	if err := frequency.Validate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("periodicidade padrão inválida: %w", err)
	}
	manager := purchase.NewManager(purchaseRepo, materialRepo, frequency, log)

	app := &App{
		cfg:                cfg,
		logger:             log,
		db:                 db,
		jwtService:         jwtService,
		authController:     controller.NewAuthController(userRepo, jwtService, log),
		purchaseController: controller.NewPurchaseController(manager, report.NewScheduleExporter(), log),
		materialController: controller.NewMaterialController(materialRepo, log),
		healthController:   controller.NewHealthController(db, version),
	}

	if cfg.Scheduler.Enabled {
		job, err := scheduler.NewOverdueJob(manager, cfg.Scheduler.OverdueSpec, cfg.Scheduler.Timezone, log)
		if err != nil {
			db.Close()
			return nil, err
		}
		app.overdueJob = job
	}

	app.setupRouter()
	return app, nil
}

func migrate(cfg *config.Config, log logger.Logger) error {
	migrator, err := database.NewMigrator(cfg.Database.MigrationsPath, cfg.Database.ConnectionURL(), log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

func (a *App) setupRouter() {
	if a.cfg.Server.Mode != "" {
		gin.SetMode(a.cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(a.logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	if len(a.cfg.Server.AllowedOrigins) == 0 || (len(a.cfg.Server.AllowedOrigins) == 1 && a.cfg.Server.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = a.cfg.Server.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	docs.SwaggerInfo.BasePath = a.cfg.Server.BasePath
	docs.SwaggerInfo.Version = version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(a.cfg.Server.BasePath)
	api.GET("/health", a.healthController.Check)

	route.SetupSetupRoutes(api, a.authController)
	route.SetupAuthRoutes(api, a.authController, a.jwtService)
	route.SetupMaterialRoutes(api, a.materialController, a.jwtService)
	route.SetupPurchaseRoutes(api, a.purchaseController, a.jwtService)

	a.router = router
}

// Start inicia o servidor HTTP e o agendador; bloqueia até o servidor parar
func (a *App) Start() error {
	if a.overdueJob != nil {
		a.overdueJob.Start()
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	a.logger.Info("servidor iniciado", "porta", a.cfg.Server.Port, "base_path", a.cfg.Server.BasePath)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("erro ao iniciar servidor: %w", err)
	}
	return nil
}

// Shutdown encerra o servidor, o agendador e o banco de dados
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.server != nil {
		err = a.server.Shutdown(ctx)
	}
	if a.overdueJob != nil {
		a.overdueJob.Stop(ctx)
	}
	a.Close()
	return err
}

// Router retorna o router da aplicação
func (a *App) Router() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}
