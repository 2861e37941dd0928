package app

import (
	"context"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/controller"
	"interview_prep_backend/internal/middleware"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/pkg/configwatcher"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"
	"interview_prep_backend/pkg/security"
	"interview_prep_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	repos  *repositories
	tracer *sdktrace.TracerProvider
}

type repositories struct {
	questions *repository.QuestionRepository
	sessions  *repository.SessionRepository
}

type services struct {
	scoring   *service.ScoringService
	local     *service.LocalEvaluator
	interview *service.InterviewService
}

type controllers struct {
	session *controller.SessionController
	health  *controller.HealthController
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	questions := repository.NewQuestionRepository()

	if cfg.QuestionBank.Path != "" {
		if err := questions.LoadFile(cfg.QuestionBank.Path); err != nil {
			// 文件题库加载失败时继续使用内置题库，面试必须始终可开始
			logger.Log.Warn("failed to load question bank file, using builtin bank",
				zap.String("path", cfg.QuestionBank.Path),
				zap.Error(err))
		} else {
			logger.Log.Info("question bank loaded",
				zap.String("path", cfg.QuestionBank.Path),
				zap.Int("size", questions.Size()))
		}
	}

	return &repositories{
		questions: questions,
		sessions:  repository.NewSessionRepository(),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.scoring = service.NewScoringService()
	s.local = service.NewLocalEvaluator(repos.questions, s.scoring)

	var primary service.Evaluator = s.local
	if cfg.Engine.Provider == "gemini" {
		gemini, err := service.NewGeminiEvaluator(context.Background(), cfg.Gemini)
		if err != nil {
			logger.Log.Error("failed to initialize gemini evaluator, using local engine",
				zap.Error(err))
		} else {
			primary = gemini
		}
	}

	s.interview = service.NewInterviewService(repos.sessions, primary, s.local)
	logger.Log.Info("evaluation engine ready", zap.String("provider", s.interview.Provider()))

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		session: controller.NewSessionController(s.interview),
		health:  controller.NewHealthController(repos.questions, repos.sessions, s.interview),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	router.Use(middleware.RequestID())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(cfg *config.Config, repos *repositories) {
	// 过期会话清理
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if removed := repos.sessions.DeleteExpired(cfg.Session.TTL); removed > 0 {
				logger.Log.Info("expired sessions removed", zap.Int("count", removed))
			}
		}
	}()

	// 题库文件热更新：只影响之后创建的会话
	if cfg.QuestionBank.Path != "" && cfg.QuestionBank.Watch {
		go configwatcher.WatchFile(cfg.QuestionBank.Path, func(path string) {
			if err := repos.questions.LoadFile(path); err != nil {
				logger.Log.Error("failed to reload question bank", zap.Error(err))
				return
			}
			logger.Log.Info("question bank reloaded", zap.Int("size", repos.questions.Size()))
		})
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode, cfg.Log.File)

	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	repos := app.initRepositories(cfg)
	app.repos = repos
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("interview-prep", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)

	app.startBackgroundTasks(cfg, repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
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

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
