package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	backoffice "github.com/bohemiyan/backoffice"
	"github.com/bohemiyan/backoffice/internal/config"
	"github.com/bohemiyan/backoffice/internal/db"
	"github.com/bohemiyan/backoffice/internal/routes"
	"github.com/bohemiyan/backoffice/realtime"
	"github.com/bohemiyan/backoffice/zapLogger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize zapLogger
	logFile := zapLogger.Init(cfg.LogFile)

	gormDB, err := db.NewSQLiteDB(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to open SQLite database: %v", err)
	}
	zapLogger.Log.Info("Successfully opened SQLite database")
	defer db.CloseDB(gormDB)

	redisDB, err := db.NewRedisClient(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize Redis: %v", err)
	}
	if redisDB != nil {
		zapLogger.Log.Info("Successfully connected to Redis")
		defer redisDB.Close()
	}

	svc, err := backoffice.NewService(backoffice.Config{
		DB:          gormDB,
		RedisClient: redisDB,
		CacheTTL:    cfg.CacheTTL,
		CachePrefix: "backoffice:",
		AutoMigrate: true,
		Logger:      zapLogger.Log,
	})
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize back-office service: %v", err)
	}

	// The hub reads snapshots from the service; the service publishes
	// mutations into the hub.
	hub := realtime.NewHub(svc, zapLogger.Log)
	defer hub.Stop()
	svc.SetPublisher(hub)

	// Set up Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(zapLogger.FiberLoggingMiddleware(logFile))

	// Set up routes
	routes.Setup(app, svc, hub)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.AppPort)
	zapLogger.Log.Infof("Server started on port %d", cfg.AppPort)
	log.Fatal(app.Listen(addr))
}
