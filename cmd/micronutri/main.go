package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/terraincognita07/micronutri/internal/api"
	"github.com/terraincognita07/micronutri/internal/cli"
	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/i18n"
	"github.com/terraincognita07/micronutri/internal/services"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location
	dbPath := getEnv("DB_PATH", filepath.Join("data", "micronutri.db"))

	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:], dbPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	port, err := resolvePort()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	sessionTTL, err := resolveSessionTTL()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	debug := getEnvBool("DEBUG", false)
	cookieSecure := getEnvBool("COOKIE_SECURE", false)
	defaultLanguage := getEnv("DEFAULT_LANGUAGE", i18n.LangPT)

	database, err := db.OpenSQLite(dbPath, debug)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer db.Close(database)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.Ping(pingCtx, database)
	cancelPing()
	if err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	i18nManager, err := i18n.NewManager(defaultLanguage)
	if err != nil {
		log.Fatalf("i18n init failed: %v", err)
	}

	handler, err := api.NewHandler(database, secretKey, filepath.Join("internal", "templates"), i18nManager, cookieSecure, sessionTTL)
	if err != nil {
		log.Fatalf("handler init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "MicroNutri",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	app.Static("/static", filepath.Join("web", "static"))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("MicroNutri listening on http://0.0.0.0:%s (db: %s, tz: %s, session ttl: %s)", port, dbPath, location.String(), sessionTTL)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func runCommand(name string, args []string, dbPath string) error {
	switch name {
	case "purge-sessions":
		return cli.RunPurgeSessionsCommand(dbPath, os.Stdout)
	case "leads":
		flags := flag.NewFlagSet("leads", flag.ContinueOnError)
		limit := flags.Int("limit", cli.DefaultLeadReportLimit, "maximum number of leads to print")
		if err := flags.Parse(args); err != nil {
			return err
		}
		return cli.RunLeadsReportCommand(dbPath, *limit, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (expected purge-sessions or leads)", name)
	}
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an example placeholder")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("PORT must be a number between 1 and 65535, got %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveSessionTTL() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL"))
	if raw == "" {
		return services.DefaultSessionTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", raw)
	}
	return ttl, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
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

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return value
}
