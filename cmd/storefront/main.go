package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	jsoniter "github.com/json-iterator/go"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	store, err := repos.Open(cfg.StoreDSN)
	if err != nil {
		log.Fatal(err)
	}
	if s, ok := store.(*repos.SQLStore); ok {
		defer s.DB().Close()
	}
	if cfg.SeedCatalog {
		if err := repos.SeedCatalog(store); err != nil {
			log.Fatal(err)
		}
	}

	// Order events go to RabbitMQ when configured, nowhere otherwise.
	var pub events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		pool, err := events.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Printf("[warn] rabbitmq unavailable, order events disabled: %v", err)
		} else {
			defer pool.Close()
			pub = events.NewAMQPPublisher(pool, cfg.RabbitMQQueue)
			log.Printf("[events] publishing to queue %s", cfg.RabbitMQQueue)
		}
	}

	engine := html.New(cfg.TemplatesDir, ".html")

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		Views:        engine,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited", "message": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(store, pub)
	deps.Mount(app)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		applog.Info(nil, "server.shutdown", nil)
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "store": cfg.StoreDSN})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
