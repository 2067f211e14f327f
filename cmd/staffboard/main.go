package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hireprivate/staffboard/internal/pkg/cache"
	"github.com/hireprivate/staffboard/internal/pkg/database"
	"github.com/hireprivate/staffboard/internal/pkg/env"
	"github.com/hireprivate/staffboard/internal/pkg/mail"
	"github.com/hireprivate/staffboard/internal/pkg/payment"
	"github.com/hireprivate/staffboard/internal/pkg/router"
	"github.com/hireprivate/staffboard/internal/pkg/scheduler"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Shared collaborators, constructed once and injected everywhere.
	gateway := payment.NewStripeGateway(
		env.GetEnv("STRIPE_API_KEY", ""),
		env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	)
	subscriptionService := subscription.NewServiceFromDB(database.GetDB(), gateway, mail.SendMail)

	// Daily auto-renewal pass.
	scheduler.Initialize(subscriptionService).Start()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "StaffBoard",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Subscription: subscriptionService,
		Gateway:      gateway,
	})

	return app
}
