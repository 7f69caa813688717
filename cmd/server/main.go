package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gym-service/internal/api"
	"gym-service/internal/events"
	"gym-service/internal/repository"
	"gym-service/internal/service"
	"gym-service/internal/tracing"
	_ "gym-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("gym-service")

	shutdownTracer, err := tracing.InitTracerProvider("gym-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	classRepo := repository.NewPostgresClassRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	membershipRepo := repository.NewPostgresMembershipRepository(db)

	bookingService := service.NewBookingService(userRepo, classRepo, bookingRepo, eventPublisher)
	memberService := service.NewMemberService(userRepo, membershipRepo)

	bookingHandler := api.NewBookingHandler(bookingService)
	memberHandler := api.NewMemberHandler(memberService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "gym-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1")

	v1.Get("/plans", memberHandler.ListPlans)

	meRoutes := v1.Group("/me")
	meRoutes.Use(api.AuthMiddleware())
	meRoutes.Get("/", memberHandler.GetMe)
	meRoutes.Put("/plan", memberHandler.ChoosePlan)

	classRoutes := v1.Group("/classes")
	classRoutes.Use(api.AuthMiddleware())
	classRoutes.Get("/", bookingHandler.ListClasses)
	classRoutes.Get("/:id/eligibility", bookingHandler.GetEligibility)
	classRoutes.Post("/:id/book", bookingHandler.Book)

	bookingRoutes := v1.Group("/bookings")
	bookingRoutes.Use(api.AuthMiddleware())
	bookingRoutes.Get("/", bookingHandler.ListBookings)
	bookingRoutes.Post("/:id/cancel", bookingHandler.Cancel)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8001"
	}

	log.Printf("Listening gym-service on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
