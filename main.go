package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noteflow/config"
	"noteflow/handler"
	"noteflow/middleware"
	"noteflow/repository"
	"noteflow/services"
	"noteflow/usecase"
	"noteflow/utils"
)

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoMaxPool).
		SetMaxConnIdleTime(cfg.MongoIdleTime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

type dependencies struct {
	tokens   *services.TokenService
	auth     *handler.AuthHandler
	notes    *handler.NotesHandler
	reminder *handler.ReminderHandler
	cron     *handler.CronHandler
	upload   *handler.UploadHandler
	ai       *handler.AIHandler
	export   *handler.ExportHandler
	health   *handler.HealthHandler
}

func setupRouter(cfg *config.Config, log zerolog.Logger, deps *dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigin))
	router.Use(middleware.SessionMiddleware(deps.tokens))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", deps.health.Health)

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/phone/signin", deps.auth.PhoneSignIn)
			auth.POST("/phone/signup", deps.auth.PhoneSignUp)
			auth.POST("/google/signin", deps.auth.GoogleSignIn)
			auth.POST("/google/signup", deps.auth.GoogleSignUp)
			auth.GET("/me", deps.auth.Me)
			auth.POST("/logout", deps.auth.Logout)
		}

		// The cron trigger carries its own bearer secret instead of a session.
		cron := public.Group("/cron")
		{
			cron.GET("/process-reminders", deps.cron.ProcessReminders)
			cron.POST("/process-reminders", deps.cron.ProcessReminders)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		notes := protected.Group("/notes")
		{
			notes.GET("", deps.notes.List)
			notes.POST("", deps.notes.Create)
			notes.PUT("/:id", deps.notes.Update)
			notes.DELETE("/:id", deps.notes.Delete)

			notes.POST("/:id/reminder", deps.reminder.Set)
			notes.DELETE("/:id/reminder", deps.reminder.Cancel)

			notes.GET("/:id/export", deps.export.ExportPDF)

			notes.POST("/upload",
				middleware.RequestSizeLimiter(6<<20), deps.upload.Upload)
			notes.POST("/ai/rewrite", deps.ai.Rewrite)
		}
	}

	return router
}

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	utils.InitValidator()

	ctx := context.Background()

	mongoClient, err := connectMongo(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	usersRepo := repository.NewUserRepo(db)
	notesRepo := repository.NewNotesRepo(db)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	mailer := services.NewBrevoMailer(cfg.BrevoAPIKey, cfg.BrevoSender, log)

	var lock services.JobLock = services.NoopJobLock{}
	if cfg.RedisURL != "" {
		redisLock, err := services.NewRedisJobLock(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		lock = redisLock
	}

	phoneVerifier, err := services.NewFirebasePhoneVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init phone verifier")
	}
	googleVerifier := services.NewGoogleIDTokenVerifier(cfg.GoogleClientID)

	uploader, err := services.NewS3Uploader(ctx, services.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init object storage")
	}

	rewriter := services.NewGroqRewriter(cfg.GroqAPIKey, cfg.GroqModel)

	notesService := &usecase.NotesService{
		Notes:   notesRepo,
		Users:   usersRepo,
		Mailer:  mailer,
		BaseURL: cfg.BaseURL,
		Log:     log,
	}
	reminderService := &usecase.ReminderService{
		Notes:   notesRepo,
		Users:   usersRepo,
		Mailer:  mailer,
		Lock:    lock,
		BaseURL: cfg.BaseURL,
		Log:     log,
	}
	authService := &usecase.AuthService{
		Users:  usersRepo,
		Tokens: tokens,
		Phone:  phoneVerifier,
		Google: googleVerifier,
		Mailer: mailer,
		Log:    log,
	}

	deps := &dependencies{
		tokens:   tokens,
		auth:     handler.NewAuthHandler(authService, cfg.SessionTTL, cfg.CookieSecure),
		notes:    handler.NewNotesHandler(notesService),
		reminder: handler.NewReminderHandler(notesService),
		cron:     handler.NewCronHandler(reminderService, cfg.CronSecret),
		upload:   handler.NewUploadHandler(uploader),
		ai:       handler.NewAIHandler(rewriter),
		export:   handler.NewExportHandler(notesService),
		health:   handler.NewHealthHandler(),
	}

	router := setupRouter(cfg, log, deps)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server starting")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
