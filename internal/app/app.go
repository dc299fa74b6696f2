package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school_hub_backend/internal/config"
	"school_hub_backend/internal/controller"
	"school_hub_backend/internal/event"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/service"
	"school_hub_backend/pkg/database"
	"school_hub_backend/pkg/logger"
	"school_hub_backend/pkg/monitoring"
	"school_hub_backend/pkg/security"
	"school_hub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Bus    *event.Bus
}

type repositories struct {
	user               *repository.UserRepository
	profile            *repository.StudentProfileRepository
	ledger             *repository.XpTransactionRepository
	course             *repository.CourseRepository
	progress           *repository.LessonProgressRepository
	exercise           *repository.ExerciseRepository
	exerciseSubmission *repository.ExerciseSubmissionRepository
	quiz               *repository.QuizRepository
	quizSubmission     *repository.QuizSubmissionRepository
	badge              *repository.BadgeRepository
	counter            *repository.CounterRepository
	class              *repository.ClassRepository
	attendance         *repository.AttendanceRepository
	sandbox            *repository.SandboxRepository
}

type services struct {
	auth         *service.AuthService
	xp           *service.XpService
	progress     *service.ProgressService
	grading      *service.GradingService
	badge        *service.BadgeService
	stats        *service.StatsService
	achievement  *service.AchievementService
	class        *service.ClassService
	sandbox      *service.SandboxService
	notification *service.NotificationService
}

type controllers struct {
	auth        *controller.AuthController
	progress    *controller.ProgressController
	submission  *controller.SubmissionController
	achievement *controller.AchievementController
	class       *controller.ClassController
	content     *controller.ContentController
	badge       *controller.BadgeController
	sandbox     *controller.SandboxController
	parent      *controller.ParentController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:               repository.NewUserRepository(db),
		profile:            repository.NewStudentProfileRepository(db),
		ledger:             repository.NewXpTransactionRepository(db),
		course:             repository.NewCourseRepository(db),
		progress:           repository.NewLessonProgressRepository(db),
		exercise:           repository.NewExerciseRepository(db),
		exerciseSubmission: repository.NewExerciseSubmissionRepository(db),
		quiz:               repository.NewQuizRepository(db),
		quizSubmission:     repository.NewQuizSubmissionRepository(db),
		badge:              repository.NewBadgeRepository(db),
		counter:            repository.NewCounterRepository(db),
		class:              repository.NewClassRepository(db),
		attendance:         repository.NewAttendanceRepository(db),
		sandbox:            repository.NewSandboxRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, bus *event.Bus) *services {
	s := &services{}

	s.xp = service.NewXpService(repos.profile, repos.ledger, bus, db)
	s.auth = service.NewAuthService(repos.user, repos.profile, s.xp, bus, cfg)
	s.progress = service.NewProgressService(repos.course, repos.progress, s.xp, bus, db)
	s.grading = service.NewGradingService(repos.exercise, repos.exerciseSubmission, repos.quiz, repos.quizSubmission, s.xp, bus)
	s.stats = service.NewStatsService(repos.class, repos.profile, repos.attendance, repos.course, repos.progress)
	s.achievement = service.NewAchievementService(repos.profile, repos.badge, repos.ledger, repos.user, rdb)
	s.class = service.NewClassService(repos.class, repos.profile, repos.attendance)
	s.sandbox = service.NewSandboxService(repos.sandbox, bus)

	// 事件订阅方：徽章评估与通知投递挂到总线上
	s.badge = service.NewBadgeService(repos.badge, repos.counter, bus)
	s.badge.RegisterHooks()
	s.notification = service.NewNotificationService(bus)
	s.notification.RegisterHooks()

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, repos.user, repos.profile),
		progress:    controller.NewProgressController(s.progress, s.stats),
		submission:  controller.NewSubmissionController(s.grading),
		achievement: controller.NewAchievementController(s.achievement, s.xp),
		class:       controller.NewClassController(s.class, s.stats),
		content:     controller.NewContentController(repos.course, repos.exercise, repos.quiz),
		badge:       controller.NewBadgeController(repos.badge),
		sandbox:     controller.NewSandboxController(s.sandbox),
		parent:      controller.NewParentController(repos.user, s.stats),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
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
	router.Use(security.RateLimiter(maxRequests, window, "/api/health", "/metrics"))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb := database.InitRedis(&cfg.Redis)

	bus := event.NewBus()

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Bus:    bus,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb, bus)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("school-hub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
