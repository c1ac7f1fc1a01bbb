package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/techmania/registration-service/config"
	"github.com/techmania/registration-service/internal/auth"
	"github.com/techmania/registration-service/internal/handler"
	"github.com/techmania/registration-service/internal/middleware"
	"github.com/techmania/registration-service/internal/repository"
	"github.com/techmania/registration-service/internal/service"
	"github.com/techmania/registration-service/pkg/database"
	"github.com/techmania/registration-service/pkg/rabbitmq"
	"github.com/techmania/registration-service/pkg/storage"
)

func main() {
	cfg := config.Load()

	// Persistence collaborator for the registration store
	var store storage.Store
	switch cfg.StorageBackend {
	case "postgres":
		db := database.NewPostgresDB(cfg.DSN())
		store = storage.NewGormStore(db)
	default:
		store = storage.NewFileStore(cfg.StorageFile)
	}

	repo := repository.NewRegistrationRepository(store)
	if err := repo.Load(context.Background()); err != nil {
		log.Printf("[Store] failed to load registrations, starting empty: %v", err)
	}

	// Optional: registration.created notifications
	var publisher service.Publisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	authenticator := auth.NewStaticAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
	svc := service.NewRegistrationService(repo, publisher, cfg.ConfirmationDelay)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "registration-service"})
	})

	handler.NewRegistrationHandler(svc, authenticator).RegisterRoutes(e)

	log.Printf("Registration Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
