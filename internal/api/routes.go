package api

import (
	"github.com/bilgisen/finsmart/internal/middleware"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1", middleware.Region(h.location))

	api.Get("/health", h.HealthCheck)
	api.Get("/location", h.GetLocation)
	api.Get("/home", h.GetHome)

	categories := api.Group("/categories")
	{
		categories.Get("", h.ListCategories)
		categories.Get("/:slug", h.GetCategory)
	}

	// Anything that reaches the generation service counts against the quota
	quota := middleware.Quota(h.quota, h.config.AIQuotaLimit, h.config.AIQuotaWindow)

	api.Get("/trending", quota, h.GetTrending)
	api.Get("/view", h.GetView)

	articles := api.Group("/articles")
	{
		articles.Get("", h.ListArticles)
		articles.Get("/:slug", quota, h.GetArticle)
		articles.Post("/:slug/ask", middleware.ValidateBody[AskRequest](), h.RequireAskable, quota, h.AskQuestion)
	}

	api.Get("/tools/mortgage", middleware.ValidateQuery[models.LoanInputs](), h.Mortgage)
	api.Post("/newsletter", middleware.ValidateBody[SubscribeRequest](), h.Subscribe)

	pages := api.Group("/pages")
	{
		pages.Get("", h.ListPages)
		pages.Get("/:slug", h.GetPage)
	}

	admin := api.Group("/admin", middleware.AdminOnly(h.config.AdminAPIKey))
	{
		admin.Get("/subscribers", h.ListSubscribers)
		admin.Delete("/subscribers/:email", h.DeleteSubscriber)
	}

	if h.config.StaticDir != "" {
		app.Static("/", h.config.StaticDir)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
