package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"formsapi/internal/service"
)

// logsError maps audit-trail errors to HTTP responses. Unlike the forms
// surface, unclassified query failures here surface as a 400.
func logsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		return writeError(c, fiber.StatusBadRequest, "QUERY_FAILED", "could not query forms logs")
	}
}

// ListFormsLogs handles GET /forms_logs.
func ListFormsLogs(svc service.FormsLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := svc.FindAll(c.UserContext())
		if err != nil {
			return logsError(c, err)
		}
		return c.JSON(logs)
	}
}

// GetFormsLog handles GET /forms_logs/:id.
func GetFormsLog(svc service.FormsLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid id format")
		}
		l, err := svc.FindOne(c.UserContext(), id)
		if err != nil {
			return logsError(c, err)
		}
		return c.JSON(l)
	}
}

// ListUserFormsLogs handles GET /forms_logs/user/:id, filtering by performer.
func ListUserFormsLogs(svc service.FormsLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logs, err := svc.FindUserLogs(c.UserContext(), c.Params("id"))
		if err != nil {
			return logsError(c, err)
		}
		return c.JSON(logs)
	}
}

// ListFormFormsLogs handles GET /forms_logs/form/:id, filtering by form.
func ListFormFormsLogs(svc service.FormsLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		formID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil || formID <= 0 {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid form id format")
		}
		logs, err := svc.FindFormLogs(c.UserContext(), formID)
		if err != nil {
			return logsError(c, err)
		}
		return c.JSON(logs)
	}
}

// DeleteFormsLog handles DELETE /forms_logs/:id.
func DeleteFormsLog(svc service.FormsLogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid id format")
		}
		if err := svc.Remove(c.UserContext(), id); err != nil {
			return logsError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
