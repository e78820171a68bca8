package api

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/bilgisen/finsmart/internal/article"
	"github.com/bilgisen/finsmart/internal/cache"
	"github.com/bilgisen/finsmart/internal/calculator"
	"github.com/bilgisen/finsmart/internal/catalog"
	"github.com/bilgisen/finsmart/internal/config"
	"github.com/bilgisen/finsmart/internal/location"
	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/middleware"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/newsletter"
	"github.com/bilgisen/finsmart/internal/pages"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const latestCount = 3

// TrendingSource produces headline ideas for a region
type TrendingSource interface {
	GenerateTrendingTopics(ctx context.Context, region models.Region) ([]models.TrendingTopic, error)
}

// Deps are the services the handlers are built from
type Deps struct {
	Config     *config.Config
	Catalog    *catalog.Catalog
	Trending   TrendingSource
	Sessions   *article.Sessions
	Location   *location.Detector
	Newsletter *newsletter.Service
	Pages      *pages.Library
	Quota      cache.Counter
}

type Handlers struct {
	config     *config.Config
	catalog    *catalog.Catalog
	trending   TrendingSource
	sessions   *article.Sessions
	location   *location.Detector
	newsletter *newsletter.Service
	pages      *pages.Library
	quota      cache.Counter
}

func NewHandlers(d Deps) *Handlers {
	h := &Handlers{
		config:     d.Config,
		catalog:    d.Catalog,
		trending:   d.Trending,
		sessions:   d.Sessions,
		location:   d.Location,
		newsletter: d.Newsletter,
		pages:      d.Pages,
		quota:      d.Quota,
	}
	if h.config == nil {
		h.config = config.FromEnv()
	}
	if h.quota == nil {
		h.quota = cache.NewMemoryCounter()
	}
	return h
}

// AskRequest is the body of POST /articles/:slug/ask
type AskRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// SubscribeRequest is the body of POST /newsletter
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type categorySummary struct {
	Name     models.Category `json:"name"`
	Slug     string          `json:"slug"`
	Articles int             `json:"articles"`
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  "1.0.0",
		"time":     time.Now().Format(time.RFC3339),
		"sessions": h.sessions.Len(),
	})
}

// GetLocation handles GET /location
func (h *Handlers) GetLocation(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"server":         h.location.State(),
		"request_region": middleware.RegionFrom(c),
	})
}

// GetHome handles GET /home
func (h *Handlers) GetHome(c *fiber.Ctx) error {
	resp := fiber.Map{
		"latest":     h.catalog.Latest(latestCount),
		"categories": h.categorySummaries(),
	}
	if featured, ok := h.catalog.Featured(); ok {
		resp["featured"] = featured
	}
	return c.JSON(resp)
}

func (h *Handlers) categorySummaries() []categorySummary {
	out := make([]categorySummary, 0, len(models.Categories))
	for _, cat := range models.Categories {
		out = append(out, categorySummary{
			Name:     cat,
			Slug:     cat.Slug(),
			Articles: len(h.catalog.ByCategory(cat)),
		})
	}
	return out
}

// ListCategories handles GET /categories
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	return c.JSON(h.categorySummaries())
}

// GetCategory handles GET /categories/:slug
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	cat, ok := models.ParseCategorySlug(c.Params("slug"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	return c.JSON(fiber.Map{
		"name":  cat,
		"slug":  cat.Slug(),
		"items": h.catalog.ByCategory(cat),
	})
}

// GetTrending handles GET /trending. A failed generation is reported as
// degraded with an empty list.
func (h *Handlers) GetTrending(c *fiber.Ctx) error {
	region := middleware.RegionFrom(c)
	topics, err := h.trending.GenerateTrendingTopics(c.UserContext(), region)
	return c.JSON(fiber.Map{
		"region":   region,
		"topics":   topics,
		"degraded": err != nil,
	})
}

// ListArticles handles GET /articles, the editorial catalog
func (h *Handlers) ListArticles(c *fiber.Ctx) error {
	items := h.catalog.All()
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// GetArticle handles GET /articles/:slug, navigating the caller's session
// view to slug
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	id, view := h.sessions.Get(c.Get(middleware.SessionHeader))
	c.Set(middleware.SessionHeader, id)

	// The view keeps the slug after the request buffer is recycled
	slug := utils.CopyString(c.Params("slug"))

	snap, err := view.Navigate(c.UserContext(), slug, middleware.RegionFrom(c))
	switch {
	case err == nil:
		return c.JSON(snap)
	case errors.Is(err, article.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(snap)
	case errors.Is(err, article.ErrEmptySlug):
		return c.Status(fiber.StatusBadRequest).JSON(snap)
	default:
		return c.Status(fiber.StatusBadGateway).JSON(snap)
	}
}

// GetView handles GET /view, returning the session's current snapshot
func (h *Handlers) GetView(c *fiber.Ctx) error {
	view, ok := h.sessions.Lookup(c.Get(middleware.SessionHeader))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return c.JSON(view.Snapshot())
}

const viewKey = "view"

// RequireAskable stops questions the session's view can't take yet, so
// they never reach the quota
func (h *Handlers) RequireAskable(c *fiber.Ctx) error {
	view, ok := h.sessions.Lookup(c.Get(middleware.SessionHeader))
	if !ok {
		return fiber.NewError(fiber.StatusConflict, article.ErrNotReady.Error())
	}

	if snap, err := view.CanAsk(c.Params("slug")); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
			"view":  snap,
		})
	}

	c.Locals(viewKey, view)
	return c.Next()
}

// AskQuestion handles POST /articles/:slug/ask
func (h *Handlers) AskQuestion(c *fiber.Ctx) error {
	req, _ := middleware.Validated[AskRequest](c)

	view, ok := c.Locals(viewKey).(*article.View)
	if !ok {
		return fiber.NewError(fiber.StatusConflict, article.ErrNotReady.Error())
	}

	snap, err := view.Ask(c.UserContext(), c.Params("slug"), req.Question, middleware.RegionFrom(c))
	switch {
	case err == nil:
		return c.JSON(snap)
	case errors.Is(err, article.ErrEmptyQuestion):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
			"view":  snap,
		})
	}
}

// Mortgage handles GET /tools/mortgage
func (h *Handlers) Mortgage(c *fiber.Ctx) error {
	in, _ := middleware.Validated[models.LoanInputs](c)

	result, err := calculator.Calculate(*in)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(result)
}

// Subscribe handles POST /newsletter
func (h *Handlers) Subscribe(c *fiber.Ctx) error {
	req, _ := middleware.Validated[SubscribeRequest](c)

	sub, created, err := h.newsletter.Subscribe(c.UserContext(), req.Email, middleware.RegionFrom(c))
	if errors.Is(err, newsletter.ErrInvalidEmail) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return err
	}

	if created {
		logger.Get().Info().Str("region", sub.Region.String()).Msg("New newsletter subscriber")
		return c.Status(fiber.StatusCreated).JSON(sub)
	}
	return c.JSON(sub)
}

// ListSubscribers handles GET /admin/subscribers
func (h *Handlers) ListSubscribers(c *fiber.Ctx) error {
	subs, err := h.newsletter.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(subs),
		"items": subs,
	})
}

// DeleteSubscriber handles DELETE /admin/subscribers/:email
func (h *Handlers) DeleteSubscriber(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid email")
	}

	err = h.newsletter.Unsubscribe(c.UserContext(), email)
	if errors.Is(err, newsletter.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Subscriber not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "deleted",
		"message": "Subscriber removed successfully",
	})
}

// ListPages handles GET /pages
func (h *Handlers) ListPages(c *fiber.Ctx) error {
	return c.JSON(h.pages.List())
}

// GetPage handles GET /pages/:slug
func (h *Handlers) GetPage(c *fiber.Ctx) error {
	page, err := h.pages.Get(c.Params("slug"))
	if errors.Is(err, pages.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(page)
}
