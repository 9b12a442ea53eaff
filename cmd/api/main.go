package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/escolar-mx/secundaria-api/api/swagger"
	"github.com/escolar-mx/secundaria-api/internal/handler"
	"github.com/escolar-mx/secundaria-api/internal/middleware"
	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/repository"
	"github.com/escolar-mx/secundaria-api/internal/service"
	"github.com/escolar-mx/secundaria-api/internal/store"
	"github.com/escolar-mx/secundaria-api/pkg/cache"
	"github.com/escolar-mx/secundaria-api/pkg/clock"
	"github.com/escolar-mx/secundaria-api/pkg/config"
	"github.com/escolar-mx/secundaria-api/pkg/database"
	"github.com/escolar-mx/secundaria-api/pkg/jobs"
	"github.com/escolar-mx/secundaria-api/pkg/logger"
	corsmiddleware "github.com/escolar-mx/secundaria-api/pkg/middleware/cors"
	reqidmiddleware "github.com/escolar-mx/secundaria-api/pkg/middleware/requestid"
)

// @title Control Escolar API
// @version 1.0.0
// @description Academic period lifecycle and cycle promotion for a secundaria
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	civil, err := clock.NewCivil(cfg.School.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("failed to load school timezone", "timezone", cfg.School.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots := repository.NewSnapshotRepository(db)
	notifier := repository.NewSnapshotNotifier(redisClient, cfg.Redis.Channel, logr)
	metrics := service.NewMetricsService()

	initial, err := loadOrSeed(ctx, snapshots, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to load school document", "error", err)
	}

	persistQueue := jobs.NewQueue("snapshot-persist", func(jobCtx context.Context, job jobs.Job) error {
		state := job.Payload.(models.SchoolState)
		saveCtx, cancel := context.WithTimeout(jobCtx, 10*time.Second)
		defer cancel()
		return snapshots.Save(saveCtx, cfg.School.ID, state)
	}, jobs.QueueConfig{
		Workers: 1,
		Logger:  logr,
		OnFailure: func(job jobs.Job, err error) {
			class := repository.ClassifySaveError(err)
			metrics.ObserveSaveFailure(class)
			logr.Warn("snapshot save failed",
				zap.String("class", string(class)),
				zap.Error(err))
		},
	})
	persistQueue.Start(ctx)
	defer persistQueue.Stop()

	st := store.New(*initial, func(state models.SchoolState) {
		// Runs under the store lock: enqueue only, no I/O. Listeners
		// reload the remote document, so the publish can happen off the
		// lock without ordering it.
		if err := persistQueue.Enqueue(jobs.Job{ID: state.Revision, Type: "save-snapshot", Payload: state}); err != nil {
			logr.Warn("failed to enqueue snapshot save", zap.Error(err))
		}
		go notifier.Publish(ctx, state.Revision)
	}, logr)

	go notifier.Listen(ctx, func(revision string) {
		if revision == st.Revision() {
			return
		}
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		remote, err := snapshots.Load(loadCtx, cfg.School.ID)
		cancel()
		if err != nil {
			logr.Warn("failed to reload remote snapshot", zap.Error(err))
			return
		}
		st.Replace(*remote)
	})

	monitor := service.NewDeadlineMonitor(st, civil, cfg.Monitor.Interval, logr, metrics)
	monitor.Start(ctx)
	defer monitor.Stop()

	validate := validator.New()
	authSvc := service.NewAuthService(st, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	periodSvc := service.NewPeriodService(st, logr)
	gradeSvc := service.NewGradeService(st, validate, logr, metrics)
	promotionSvc := service.NewPromotionService(st, logr, metrics, cfg.School.DefaultCycle)
	schoolSvc := service.NewSchoolService(st, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, civil, authSvc, periodSvc, gradeSvc, promotionSvc, schoolSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "cycle", initial.Cycle)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	civil *clock.Civil,
	authSvc *service.AuthService,
	periodSvc *service.PeriodService,
	gradeSvc *service.GradeService,
	promotionSvc *service.PromotionService,
	schoolSvc *service.SchoolService,
) {
	authHandler := handler.NewAuthHandler(authSvc)
	periodHandler := handler.NewPeriodHandler(periodSvc, civil)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	promotionHandler := handler.NewPromotionHandler(promotionSvc)
	studentHandler := handler.NewStudentHandler(schoolSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)

	v1 := r.Group(cfg.APIPrefix)

	v1.POST("/auth/login", authHandler.Login)

	secured := v1.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/cycle", schoolHandler.Cycle)

	secured.GET("/periods", periodHandler.List)
	periods := secured.Group("/periods", middleware.RequireCapability(models.CapabilityManagePeriods))
	periods.POST("/:id/open", periodHandler.Open)
	periods.POST("/:id/close", periodHandler.Close)
	periods.PUT("/:id/deadline", periodHandler.SetDeadline)
	periods.DELETE("/:id/deadline", periodHandler.ClearDeadline)

	roster := secured.Group("", middleware.RequireCapability(models.CapabilityViewRoster))
	roster.GET("/students", studentHandler.List)
	roster.GET("/students/:id", studentHandler.Get)
	roster.GET("/subjects", studentHandler.Subjects)
	roster.GET("/schedule", schoolHandler.GetSchedule)
	roster.GET("/citations", schoolHandler.ListCitations)
	roster.GET("/minutas", schoolHandler.ListMinutas)

	secured.PUT("/students/:id/grades",
		middleware.RequireCapability(models.CapabilityCaptureGrades), gradeHandler.Capture)

	secured.PUT("/schedule",
		middleware.RequireCapability(models.CapabilityManagePeriods), schoolHandler.ReplaceSchedule)

	visits := secured.Group("", middleware.RequireCapability(models.CapabilityRecordVisits))
	visits.POST("/citations", schoolHandler.CreateCitation)
	visits.POST("/minutas", schoolHandler.CreateMinuta)

	promotion := secured.Group("/promotion", middleware.RequireCapability(models.CapabilityPromoteCycle))
	promotion.GET("/preview", promotionHandler.Preview)
	promotion.POST("", promotionHandler.Promote)
}

// loadOrSeed reads the school document from the shared store, seeding a
// fresh cycle with the default curriculum and a bootstrap director account
// when no document exists yet.
func loadOrSeed(ctx context.Context, snapshots *repository.SnapshotRepository, cfg *config.Config, logr *zap.Logger) (*models.SchoolState, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	state, err := snapshots.Load(loadCtx, cfg.School.ID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	seeded := models.DefaultSchoolState(cfg.School.DefaultCycle)
	if cfg.School.BootstrapEmail != "" && cfg.School.BootstrapPass != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.School.BootstrapPass), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		seeded.Users = append(seeded.Users, models.User{
			ID:           uuid.NewString(),
			Email:        cfg.School.BootstrapEmail,
			PasswordHash: string(hash),
			FullName:     "Dirección",
			Role:         models.RoleDirector,
			Active:       true,
			CreatedAt:    time.Now().UTC(),
		})
	}
	seeded.Revision = uuid.NewString()

	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := snapshots.Save(saveCtx, cfg.School.ID, seeded); err != nil {
		return nil, err
	}
	logr.Sugar().Infow("seeded new school document", "cycle", seeded.Cycle, "school", cfg.School.ID)
	return &seeded, nil
}
