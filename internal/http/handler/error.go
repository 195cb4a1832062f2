package handler

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"kbapi/internal/http/middleware"
	"kbapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors. The message must be safe for clients; underlying causes
// are logged server-side only.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service-layer errors onto the HTTP error taxonomy.
// Anything unrecognized becomes a generic 500; the raw error never reaches
// the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return writeError(c, fiber.StatusBadRequest, verr.Code, verr.Message)
	}
	var tooLarge *service.PayloadTooLargeError
	if errors.As(err, &tooLarge) {
		return writeError(c, fiber.StatusBadRequest, "PAYLOAD_TOO_LARGE", tooLarge.Error())
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNoContent):
		return writeError(c, fiber.StatusBadRequest, "NO_BINARY_CONTENT", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	}
	logInternalError(c, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// logInternalError records the underlying cause of an unexpected failure
// as a one-line JSON log entry keyed by request_id. The cause stays
// server-side only; clients see the generic envelope.
func logInternalError(c *fiber.Ctx, err error) {
	entry := map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "error",
		"msg":        "request_failed",
		"request_id": requestIDFromCtx(c),
		"method":     c.Method(),
		"path":       c.Path(),
		"error":      err.Error(),
	}
	if b, marshalErr := json.Marshal(entry); marshalErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors that escape the handlers (404 routes, body-limit
// rejections, auth middleware failures).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		if status >= fiber.StatusInternalServerError {
			logInternalError(c, err)
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "INVALID_CREDENTIALS", "invalid credentials")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "access to this resource is restricted")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			// The transport body limit rejects oversized uploads before any
			// handler runs; surface it in the documented 400 shape.
			return writeError(c, fiber.StatusBadRequest, "PAYLOAD_TOO_LARGE", "request body exceeds the upload limit")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
