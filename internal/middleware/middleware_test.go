package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bilgisen/finsmart/internal/cache"
	"github.com/bilgisen/finsmart/internal/location"
	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestAdminOnly(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminOnly("s3cret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "nope", fiber.StatusForbidden},
		{"valid", "s3cret", fiber.StatusOK},
		{"bearer", "Bearer s3cret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminOnlyWithoutConfiguredKey(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminOnly(""), func(c *fiber.Ctx) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-API-Key", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

type signup struct {
	Email string `json:"email" validate:"required,email"`
}

func TestValidateBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", ValidateBody[signup](), func(c *fiber.Ctx) error {
		in, ok := Validated[signup](c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(in.Email)
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"email":"a@example.com"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = post(`{"email":"nope"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, map[string]any{"Email": "email"}, out["fields"])

	resp = post(`{`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// An empty body must not pick up the previous request's email
	resp = post(`{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestValidateQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/", ValidateQuery[models.LoanInputs](), func(c *fiber.Ctx) error {
		in, _ := Validated[models.LoanInputs](c)
		return c.JSON(in)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?principal=300000&rate=6.5&years=30", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/?principal=300000&rate=6.5&years=12", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegion(t *testing.T) {
	detector := location.NewDetector(func() (string, error) { return "Asia/Tokyo", nil })

	app := fiber.New()
	app.Get("/", Region(detector), func(c *fiber.Ctx) error {
		return c.SendString(RegionFrom(c).String())
	})

	get := func(tz string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tz != "" {
			req.Header.Set(TimeZoneHeader, tz)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	// Still locating
	assert.Equal(t, "Global", get(""))
	assert.Equal(t, "Europe", get("Europe/Berlin"))

	detector.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := detector.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Asia", get(""))
	assert.Equal(t, "North America", get("America/Chicago"))
	assert.Equal(t, "Global", get("Etc/UTC"))
}

func TestQuota(t *testing.T) {
	app := fiber.New()
	app.Get("/", Quota(cache.NewMemoryCounter(), 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

type brokenCounter struct{}

func (brokenCounter) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func (brokenCounter) Close() error { return nil }

func TestQuotaFailsOpen(t *testing.T) {
	app := fiber.New()
	app.Get("/", Quota(brokenCounter{}, 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequestLoggerAndErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	logger.SetWriter(&buf)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger())
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "no such page")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(SessionHeader, "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no such page", decode(t, resp)["error"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", decode(t, resp)["error"])

	logs := buf.String()
	assert.Contains(t, logs, `"level":"warn"`)
	assert.Contains(t, logs, `"session":"abc"`)
	assert.Contains(t, logs, `"status":500`)
	assert.Contains(t, logs, "kaboom")
}
