package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/akulinich/recipe-api/internal/handlers"
	"github.com/akulinich/recipe-api/internal/jwt"
	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/migrations"
	"github.com/akulinich/recipe-api/internal/repositories"
	"github.com/akulinich/recipe-api/internal/services"
	"github.com/akulinich/recipe-api/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title recipe-api
// @version 1.0.0
// @description REST service for managing recipes, tags, ingredients, and user accounts
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		mediaRoot,
		jwtSecret, tokenExpSecond,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		mediaRoot,
		jwtSecret, tokenExpSecond,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, media, and token configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	mediaRoot string,
	jwtSecret string, tokenExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "recipes")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config; empty host disables the token cache
	redisHost = getEnv("REDIS_HOST", "")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config; empty address disables event publishing
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "recipe-events")

	// Media config
	mediaRoot = getEnv("MEDIA_ROOT", "./media")

	// Token config
	jwtSecret = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if tokenExpSecond, err = strconv.Atoi(getEnv("AUTH_TOKEN_EXP_SECOND", "2592000")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	mediaRoot string,
	jwtSecret string, tokenExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	// Apply migrations
	if err := migrations.Up(ctx, db.DB); err != nil {
		logger.Log.Errorw("failed to apply migrations", "error", err)
		return err
	}

	// Connect to Redis when configured
	var rdb *redis.Client
	if redisHost != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
			Password: redisPassword,
			DB:       redisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Errorw("Redis connection error", "error", err)
			return err
		}
		defer rdb.Close()
	}

	// Connect Kafka writer when configured
	var kafkaWriter services.KafkaWriter
	if kafkaAddr != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize token generator and file store
	tokenExp := time.Duration(tokenExpSecond) * time.Second
	jwtService := jwt.New(jwtSecret, tokenExp)
	fileStore := storage.NewFileStore(mediaRoot, nil)

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	tokenReadRepo := repositories.NewTokenReadRepository(db)
	tokenWriteRepo := repositories.NewTokenWriteRepository(db, txGetter)
	tokenCache := repositories.NewTokenCache(rdb)
	recipeReadRepo := repositories.NewRecipeReadRepository(db)
	recipeWriteRepo := repositories.NewRecipeWriteRepository(db, txGetter)
	tagReadRepo := repositories.NewAttributeReadRepository(db, repositories.TagTables)
	tagWriteRepo := repositories.NewAttributeWriteRepository(db, txGetter, repositories.TagTables)
	ingredientReadRepo := repositories.NewAttributeReadRepository(db, repositories.IngredientTables)
	ingredientWriteRepo := repositories.NewAttributeWriteRepository(db, txGetter, repositories.IngredientTables)

	// Initialize services
	userService := services.NewUserService(userReadRepo, userWriteRepo)
	authService := services.NewAuthService(userReadRepo, tokenWriteRepo, tokenReadRepo, tokenCache, jwtService, tokenExp)
	recipeService := services.NewRecipeService(
		recipeReadRepo, recipeWriteRepo,
		tagWriteRepo, ingredientWriteRepo,
		tagReadRepo, ingredientReadRepo,
		fileStore, kafkaWriter,
	)
	tagService := services.NewAttributeService(tagReadRepo, tagWriteRepo)
	ingredientService := services.NewAttributeService(ingredientReadRepo, ingredientWriteRepo)

	// Initialize handlers
	createUserHandler := handlers.NewCreateUserHandler(userService)
	createTokenHandler := handlers.NewCreateTokenHandler(authService)
	getMeHandler := handlers.NewGetMeHandler(userService)
	updateMeHandler := handlers.NewUpdateMeHandler(userService)
	listRecipesHandler := handlers.NewListRecipesHandler(recipeService)
	createRecipeHandler := handlers.NewCreateRecipeHandler(recipeService)
	getRecipeHandler := handlers.NewGetRecipeHandler(recipeService)
	updateRecipeHandler := handlers.NewUpdateRecipeHandler(recipeService)
	deleteRecipeHandler := handlers.NewDeleteRecipeHandler(recipeService)
	uploadImageHandler := handlers.NewUploadRecipeImageHandler(recipeService)
	listTagsHandler := handlers.NewListAttributesHandler(tagService)
	updateTagHandler := handlers.NewUpdateAttributeHandler(tagService)
	deleteTagHandler := handlers.NewDeleteAttributeHandler(tagService)
	listIngredientsHandler := handlers.NewListAttributesHandler(ingredientService)
	updateIngredientHandler := handlers.NewUpdateAttributeHandler(ingredientService)
	deleteIngredientHandler := handlers.NewDeleteAttributeHandler(ingredientService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Post("/user/create", createUserHandler)
	r.Post("/user/token", createTokenHandler)

	// Protected routes; mutations of recipe relations run inside a
	// per-request transaction
	authMiddleware := middlewares.AuthMiddleware(jwtService, authService)
	txMiddleware := middlewares.TxMiddleware(db)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/user/me", getMeHandler)
		r.Patch("/user/me", updateMeHandler)

		r.Get("/recipe/recipes", listRecipesHandler)
		r.With(txMiddleware).Post("/recipe/recipes", createRecipeHandler)
		r.Get("/recipe/recipes/{recipeID}", getRecipeHandler)
		r.With(txMiddleware).Put("/recipe/recipes/{recipeID}", updateRecipeHandler)
		r.With(txMiddleware).Patch("/recipe/recipes/{recipeID}", updateRecipeHandler)
		r.With(txMiddleware).Delete("/recipe/recipes/{recipeID}", deleteRecipeHandler)
		r.Post("/recipe/recipes/{recipeID}/upload-image", uploadImageHandler)

		r.Get("/recipe/tags", listTagsHandler)
		r.Put("/recipe/tags/{attrID}", updateTagHandler)
		r.Patch("/recipe/tags/{attrID}", updateTagHandler)
		r.Delete("/recipe/tags/{attrID}", deleteTagHandler)

		r.Get("/recipe/ingredients", listIngredientsHandler)
		r.Put("/recipe/ingredients/{attrID}", updateIngredientHandler)
		r.Patch("/recipe/ingredients/{attrID}", updateIngredientHandler)
		r.Delete("/recipe/ingredients/{attrID}", deleteIngredientHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
