package handler

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"kbapi/internal/service"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type loginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	Role          string `json:"role"`
	Token         string `json:"token"`
}

// Login handles POST /api/auth/login. Failures are always the same generic
// 401, whether the login is unknown or the password is wrong.
//
// @Summary Authenticate and obtain a bearer token
// @Accept json
// @Produce json
// @Success 200
// @Router /api/auth/login [post]
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}
		if err := req.Validate(); err != nil {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELD", err.Error())
		}

		res, err := authSvc.Authenticate(c.UserContext(), req.Login, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(loginResponse{
			Authenticated: true,
			Identity:      res.Identity,
			Role:          res.Role,
			Token:         res.Token,
		})
	}
}
