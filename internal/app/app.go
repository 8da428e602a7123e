package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/controller"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/repository"
	"github.com/hassan-tfive/TFiveMVP-sub000/internal/service"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/database"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/logger"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/monitoring"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/security"
	"github.com/hassan-tfive/TFiveMVP-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	organization *repository.OrganizationRepository
	team         *repository.TeamRepository
	invitation   *repository.InvitationRepository
	program      *repository.ProgramRepository
	loop         *repository.LoopRepository
	session      *repository.SessionRepository
	reflection   *repository.ReflectionRepository
	progress     *repository.ProgressRepository
	achievement  *repository.AchievementRepository
	chat         *repository.ChatRepository
	pointLog     *repository.PointLogRepository
	topicVideo   *repository.TopicVideoRepository
}

type services struct {
	storage      *service.StorageService
	ai           *service.AIService
	auth         *service.AuthService
	user         *service.UserService
	achievement  *service.AchievementService
	session      *service.SessionService
	reflection   *service.ReflectionService
	chat         *service.ChatService
	stats        *service.StatsService
	program      *service.ProgramService
	enrichment   *service.EnrichmentService
	workflow     *service.WorkflowService
	organization *service.OrganizationService
	invitation   *service.InvitationService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	session      *controller.SessionController
	reflection   *controller.ReflectionController
	program      *controller.ProgramController
	workflow     *controller.WorkflowController
	chat         *controller.ChatController
	stats        *controller.StatsController
	organization *controller.OrganizationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig propagates a reloaded config to registered listeners.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		organization: repository.NewOrganizationRepository(db),
		team:         repository.NewTeamRepository(db),
		invitation:   repository.NewInvitationRepository(db),
		program:      repository.NewProgramRepository(db),
		loop:         repository.NewLoopRepository(db),
		session:      repository.NewSessionRepository(db),
		reflection:   repository.NewReflectionRepository(db),
		progress:     repository.NewProgressRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		chat:         repository.NewChatRepository(db, rdb),
		pointLog:     repository.NewPointLogRepository(db),
		topicVideo:   repository.NewTopicVideoRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	rule := service.NewPointsRule(cfg.Gamification)

	s.storage = service.NewStorageService(cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.auth = service.NewAuthService(repos.user, repos.invitation, cfg.JWT)
	s.user = service.NewUserService(repos.user, rule)
	s.achievement = service.NewAchievementService(repos.achievement, repos.session, repos.user)
	s.session = service.NewSessionService(
		repos.session,
		repos.loop,
		repos.program,
		repos.user,
		repos.progress,
		repos.pointLog,
		repos.reflection,
		s.achievement,
		rule,
	)
	s.reflection = service.NewReflectionService(repos.reflection, repos.session, repos.user, repos.pointLog, s.ai, rule)
	s.chat = service.NewChatService(s.ai, repos.chat, repos.user)
	s.stats = service.NewStatsService(repos.session, repos.user, repos.pointLog, rule, rdb)
	s.program = service.NewProgramService(repos.program, repos.loop, repos.progress, repos.topicVideo)
	s.enrichment = service.NewEnrichmentService(s.ai, s.storage, repos.loop, repos.topicVideo, repos.program)
	s.workflow = service.NewWorkflowService(s.ai, repos.program, repos.loop, s.enrichment)
	s.organization = service.NewOrganizationService(repos.organization, repos.team, repos.user, repos.session, repos.pointLog)
	s.invitation = service.NewInvitationService(repos.invitation, repos.user, repos.team)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		session:      controller.NewSessionController(s.session),
		reflection:   controller.NewReflectionController(s.reflection),
		program:      controller.NewProgramController(s.program),
		workflow:     controller.NewWorkflowController(s.workflow),
		chat:         controller.NewChatController(s.chat, s.user),
		stats:        controller.NewStatsController(s.stats, s.achievement),
		organization: controller.NewOrganizationController(s.organization, s.invitation),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	// Downstream middleware reads the live config from the request context.
	router.Use(func(c *gin.Context) {
		c.Set("config", a.Config)
		c.Next()
	})

	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.AutoMigrateEnabled())
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caches disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("tfive-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == "local" {
		router.Static("/media", cfg.Storage.LocalPath)
	}

	services.session.RestoreTimers()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Persist every live countdown before the process goes away.
	if a.services != nil && a.services.session != nil {
		a.services.session.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Sync()
	log.Println("Server exiting")
}
