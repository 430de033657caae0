package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/migrations"
	"github.com/akulinich/recipe-api/internal/repositories"
	"github.com/akulinich/recipe-api/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// createsuperuser provisions an administrative account from the command
// line, for bootstrapping a fresh deployment.
func main() {
	configPath := flag.String("c", "config.env", "Path to configuration file")
	email := flag.String("email", "", "Email address of the superuser")
	password := flag.String("password", "", "Password of the superuser")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createsuperuser -email <email> -password <password> [-c config.env]")
		os.Exit(2)
	}

	if err := run(context.Background(), *configPath, *email, *password); err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}

	fmt.Printf("Superuser %s created\n", *email)
}

func run(ctx context.Context, configPath, email, password string) error {
	_ = godotenv.Load(configPath)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	if err := logger.Initialize(getEnv("APP_LOG_LEVEL", "error")); err != nil {
		return err
	}
	defer logger.Sync()

	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		return err
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		getEnv("POSTGRES_USER", "user"),
		getEnv("POSTGRES_PASSWORD", "password"),
		getEnv("POSTGRES_HOST", "localhost"),
		pgPort,
		getEnv("POSTGRES_DB", "recipes"),
	)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(ctx, db.DB); err != nil {
		return err
	}

	userService := services.NewUserService(
		repositories.NewUserReadRepository(db),
		repositories.NewUserWriteRepository(db, nil),
	)

	_, err = userService.CreateSuperuser(ctx, email, password)
	return err
}
