package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"kbapi/internal/model"
	serviceMocks "kbapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRequireAuth(t *testing.T) {
	claims := &model.Claims{
		Role:             "agent",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "wesley"},
	}

	newApp := func(auth *serviceMocks.MockAuthService) *fiber.App {
		app := fiber.New()
		app.Get("/secure", RequireAuth(auth), func(c *fiber.Ctx) error {
			got := ClaimsFromCtx(c)
			return c.SendString(got.Subject)
		})
		return app
	}

	t.Run("valid bearer token", func(t *testing.T) {
		mAuth := new(serviceMocks.MockAuthService)
		mAuth.On("VerifyToken", "good-token").Return(claims, nil)
		app := newApp(mAuth)

		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "wesley", buf.String())
	})

	t.Run("missing header", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockAuthService))

		req := httptest.NewRequest("GET", "/secure", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected token", func(t *testing.T) {
		mAuth := new(serviceMocks.MockAuthService)
		mAuth.On("VerifyToken", "bad-token").Return(nil, errors.New("invalid"))
		app := newApp(mAuth)

		req := httptest.NewRequest("GET", "/secure", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer bad-token")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireCapability(t *testing.T) {
	claims := &model.Claims{
		Role:             "agent",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "wesley"},
	}

	newApp := func(auth *serviceMocks.MockAuthService) *fiber.App {
		app := fiber.New()
		app.Get("/admin",
			func(c *fiber.Ctx) error {
				c.Locals(ClaimsLocalKey, claims)
				return c.Next()
			},
			RequireCapability(auth, "admin"),
			func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
		)
		return app
	}

	t.Run("authorized", func(t *testing.T) {
		mAuth := new(serviceMocks.MockAuthService)
		mAuth.On("Authorize", claims, "admin").Return(nil)
		app := newApp(mAuth)

		resp, _ := app.Test(httptest.NewRequest("GET", "/admin", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("forbidden", func(t *testing.T) {
		mAuth := new(serviceMocks.MockAuthService)
		mAuth.On("Authorize", claims, "admin").Return(errors.New("no"))
		app := newApp(mAuth)

		resp, _ := app.Test(httptest.NewRequest("GET", "/admin", nil))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("no claims in context", func(t *testing.T) {
		mAuth := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Get("/admin", RequireCapability(mAuth, "admin"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, _ := app.Test(httptest.NewRequest("GET", "/admin", nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
