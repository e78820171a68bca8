package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bilgisen/finsmart/internal/article"
	"github.com/bilgisen/finsmart/internal/cache"
	"github.com/bilgisen/finsmart/internal/catalog"
	"github.com/bilgisen/finsmart/internal/config"
	"github.com/bilgisen/finsmart/internal/location"
	"github.com/bilgisen/finsmart/internal/middleware"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/bilgisen/finsmart/internal/newsletter"
	"github.com/bilgisen/finsmart/internal/pages"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	mu          sync.Mutex
	trendingErr error
	regions     []models.Region
}

func (f *fakeAI) GenerateArticleBody(ctx context.Context, title string, category models.Category, region models.Region) (string, error) {
	return "<p>body of " + title + "</p>", nil
}

func (f *fakeAI) GenerateArticleMetadata(ctx context.Context, slug string, region models.Region) (*models.ArticleMetadata, error) {
	if slug == "broken" {
		return nil, errors.New("upstream unavailable")
	}
	return &models.ArticleMetadata{
		Title:    "Generated " + slug,
		Category: "Loans",
		Summary:  "A generated summary",
	}, nil
}

func (f *fakeAI) AnswerQuestion(ctx context.Context, question, articleBody string, region models.Region) (string, error) {
	return "answer to " + question, nil
}

func (f *fakeAI) GenerateTrendingTopics(ctx context.Context, region models.Region) ([]models.TrendingTopic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, region)
	if f.trendingErr != nil {
		return []models.TrendingTopic{}, f.trendingErr
	}
	return []models.TrendingTopic{
		{Title: "Rate cuts and your mortgage", Category: models.CategoryLoans, Slug: "rate-cuts-and-your-mortgage"},
	}, nil
}

type testServer struct {
	app *fiber.App
	ai  *fakeAI
}

func newTestServer(t *testing.T, quotaLimit int) *testServer {
	t.Helper()

	cfg := &config.Config{
		AIQuotaLimit:  quotaLimit,
		AIQuotaWindow: time.Minute,
		AdminAPIKey:   "admin-key",
	}

	ai := &fakeAI{}
	cat := catalog.Default()
	store, err := newsletter.NewFileStore(t.TempDir())
	require.NoError(t, err)
	lib, err := pages.Load()
	require.NoError(t, err)

	detector := location.NewDetector(func() (string, error) { return "America/New_York", nil })
	detector.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = detector.Wait(ctx)
	require.NoError(t, err)

	h := NewHandlers(Deps{
		Config:     cfg,
		Catalog:    cat,
		Trending:   ai,
		Sessions:   article.NewSessions(article.NewResolver(cat, ai), time.Hour),
		Location:   detector,
		Newsletter: newsletter.NewService(store),
		Pages:      lib,
		Quota:      cache.NewMemoryCounter(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, h)
	return &testServer{app: app, ai: ai}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (s *testServer) list(t *testing.T, path string) []any {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthAndLocation(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	_, body = s.do(t, http.MethodGet, "/api/v1/location", "", map[string]string{middleware.TimeZoneHeader: "Europe/Rome"})
	server := body["server"].(map[string]any)
	assert.Equal(t, "North America", server["region"])
	assert.Equal(t, "America/New_York", server["time_zone"])
	assert.Equal(t, false, server["is_locating"])
	assert.Equal(t, "Europe", body["request_region"])
}

func TestHomeAndCategories(t *testing.T) {
	s := newTestServer(t, 10)

	_, body := s.do(t, http.MethodGet, "/api/v1/home", "", nil)
	featured := body["featured"].(map[string]any)
	assert.Equal(t, "best-travel-credit-cards-2025", featured["slug"])
	assert.Len(t, body["latest"], 3)

	cats := s.list(t, "/api/v1/categories")
	require.Len(t, cats, 5)
	loans := cats[2].(map[string]any)
	assert.Equal(t, "loans-mortgages", loans["slug"])
	assert.Equal(t, float64(2), loans["articles"])

	_, body = s.do(t, http.MethodGet, "/api/v1/articles", "", nil)
	assert.Equal(t, float64(8), body["total"])

	resp, body := s.do(t, http.MethodGet, "/api/v1/categories/loans-mortgages", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Loans & Mortgages", body["name"])
	assert.Len(t, body["items"], 2)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/categories/crypto", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTrending(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/trending", "", map[string]string{middleware.TimeZoneHeader: "Asia/Singapore"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Asia", body["region"])
	assert.Equal(t, false, body["degraded"])
	assert.Len(t, body["topics"], 1)

	s.ai.trendingErr = errors.New("quota exhausted upstream")
	_, body = s.do(t, http.MethodGet, "/api/v1/trending", "", nil)
	assert.Equal(t, true, body["degraded"])
	assert.Equal(t, []any{}, body["topics"])
	assert.Equal(t, "North America", body["region"])
}

func TestArticleFlow(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/articles/index-funds-for-beginners", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	session := resp.Header.Get(middleware.SessionHeader)
	require.NotEmpty(t, session)

	assert.Equal(t, "ready", body["state"])
	item := body["article"].(map[string]any)
	assert.Equal(t, "<p>body of Index Funds for Beginners: Building a Retirement Portfolio</p>", item["content"])
	assert.Nil(t, item["is_generated"])

	headers := map[string]string{middleware.SessionHeader: session}

	resp, body = s.do(t, http.MethodPost, "/api/v1/articles/index-funds-for-beginners/ask", `{"question":"Are fees important?"}`, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "answer to Are fees important?", body["answer"])
	assert.Equal(t, false, body["asking"])

	resp, body = s.do(t, http.MethodGet, "/api/v1/view", "", headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "index-funds-for-beginners", body["slug"])
	assert.Equal(t, "answer to Are fees important?", body["answer"])

	// Same session, new article: the old answer is gone
	resp, body = s.do(t, http.MethodGet, "/api/v1/articles/Paying_Off_Student_Loans", "", headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, session, resp.Header.Get(middleware.SessionHeader))
	assert.Nil(t, body["answer"])
	item = body["article"].(map[string]any)
	assert.Equal(t, "paying-off-student-loans", item["slug"])
	assert.Equal(t, "Generated paying-off-student-loans", item["title"])
	assert.Equal(t, "Loans & Mortgages", item["category"])
	assert.Equal(t, true, item["is_generated"])

	// Asking about an article that isn't on display
	resp, _ = s.do(t, http.MethodPost, "/api/v1/articles/index-funds-for-beginners/ask", `{"question":"Still there?"}`, headers)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestArticleFailure(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/articles/broken", "", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "failed", body["state"])
	assert.Equal(t, article.FailureMessage, body["error"])

	resp, body = s.do(t, http.MethodGet, "/api/v1/articles/---", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "failed", body["state"])
}

func TestAskValidation(t *testing.T) {
	s := newTestServer(t, 10)

	resp, _ := s.do(t, http.MethodPost, "/api/v1/articles/index-funds-for-beginners/ask", `{"question":"Hi?"}`, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/articles/index-funds-for-beginners/ask", `{"question":""}`, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/view", "", map[string]string{middleware.SessionHeader: "unknown"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMortgage(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/tools/mortgage?principal=300000&rate=6.5&years=30", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.InDelta(t, 1896.20, body["monthly_payment"], 0.01)
	assert.Equal(t, "$1,896", body["display"])
	assert.Nil(t, body["schedule"])

	_, body = s.do(t, http.MethodGet, "/api/v1/tools/mortgage?principal=300000&rate=6.5&years=30&schedule=true", "", nil)
	assert.Len(t, body["schedule"], 30)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/tools/mortgage?principal=0&rate=6.5&years=30", "", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNewsletter(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"Saver@Example.com"}`, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "saver@example.com", body["email"])
	assert.Equal(t, "North America", body["region"])

	resp, _ = s.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"saver@example.com"}`, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/newsletter", `{"email":"nope"}`, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/admin/subscribers", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/v1/admin/subscribers", "", map[string]string{"X-API-Key": "admin-key"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	admin := map[string]string{"X-API-Key": "admin-key"}
	resp, _ = s.do(t, http.MethodDelete, "/api/v1/admin/subscribers/saver%40example.com", "", admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodDelete, "/api/v1/admin/subscribers/saver@example.com", "", admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/pages/about", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "About FinSmart", body["title"])
	assert.Contains(t, body["html"], "<h1")

	assert.Len(t, s.list(t, "/api/v1/pages"), 3)

	resp, body = s.do(t, http.MethodGet, "/api/v1/pages/terms", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Page not found", body["error"])
}

func TestQuotaOnGenerationRoutes(t *testing.T) {
	s := newTestServer(t, 1)

	resp, _ := s.do(t, http.MethodGet, "/api/v1/trending", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/v1/articles/index-funds-for-beginners", "", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// Catalog browsing isn't metered
	resp, _ = s.do(t, http.MethodGet, "/api/v1/home", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRejectedQuestionsAreNotMetered(t *testing.T) {
	s := newTestServer(t, 2)

	resp, _ := s.do(t, http.MethodGet, "/api/v1/articles/Paying_Off_Student_Loans", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	headers := map[string]string{middleware.SessionHeader: resp.Header.Get(middleware.SessionHeader)}

	for i := 0; i < 3; i++ {
		resp, _ = s.do(t, http.MethodPost, "/api/v1/articles/index-funds-for-beginners/ask", `{"question":"Wrong page?"}`, headers)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	}

	resp, body := s.do(t, http.MethodPost, "/api/v1/articles/Paying_Off_Student_Loans/ask", `{"question":"How fast?"}`, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "answer to How fast?", body["answer"])

	resp, _ = s.do(t, http.MethodPost, "/api/v1/articles/Paying_Off_Student_Loans/ask", `{"question":"Again?"}`, headers)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestUnknownEndpoint(t *testing.T) {
	s := newTestServer(t, 10)

	resp, body := s.do(t, http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Endpoint not found", body["error"])
}
