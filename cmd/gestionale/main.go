package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/doviland/gestionale/internal/api"
	"github.com/doviland/gestionale/internal/cli"
	"github.com/doviland/gestionale/internal/db"
	"github.com/doviland/gestionale/internal/models"
	"github.com/doviland/gestionale/internal/security"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const bootstrapPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	location := mustLoadLocation(getEnv("TZ", "UTC"), log)
	time.Local = location

	secretKey := getEnv("SECRET_KEY", "change_me_in_production")
	dbPath := getEnv("DB_PATH", filepath.Join("data", "gestionale.db"))
	port := getEnv("PORT", "8080")

	if len(os.Args) > 2 && os.Args[1] == "reset-password" {
		if err := cli.RunResetPasswordCommand(dbPath, os.Args[2]); err != nil {
			log.Fatal().Err(err).Msg("password reset failed")
		}
		return
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	repos := db.NewRepositories(database)

	if err := seedAdmin(repos, log); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	handler := api.NewHandler(repos, []byte(secretKey), location, log)

	app := fiber.New(fiber.Config{
		AppName:               "Gestionale",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().
		Str("port", port).
		Str("db", dbPath).
		Str("tz", location.String()).
		Msg("gestionale listening")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// seedAdmin creates the first admin account on an empty database. The
// generated password is printed once; change it after the first login.
func seedAdmin(repos *db.Repositories, log zerolog.Logger) error {
	count, err := repos.Users.CountUsers()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := getEnv("ADMIN_EMAIL", "admin@gestionale.local")
	password := os.Getenv("ADMIN_PASSWORD")
	generated := password == ""
	if generated {
		password, err = security.RandomString(16, bootstrapPasswordAlphabet)
		if err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		Permissions:  models.AllPermissions(),
		IsActive:     true,
	}
	if err := repos.Users.Create(&admin); err != nil {
		return err
	}

	event := log.Info().Str("email", email)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("created initial admin account")
	return nil
}

func mustLoadLocation(name string, log zerolog.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Str("tz", name).Msg("invalid TZ, falling back to UTC")
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
