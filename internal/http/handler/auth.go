package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"formsapi/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/signup. Any backend failure surfaces as a generic
// 400: the response never reveals whether the email is already registered.
func SignUp(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid request body")
		}

		session, err := svc.SignUp(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			}
			return writeError(c, fiber.StatusBadRequest, "SIGNUP_FAILED", "could not sign up")
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// Login handles POST /auth/login. Bad credentials are a 401, never a generic
// failure.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid request body")
		}

		session, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(session)
	}
}
