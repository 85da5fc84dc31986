package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/campusreport/identity-server/internal/model"
)

// respondError maps workflow errors to HTTP responses. Unrecognized errors
// collapse to 500 without leaking their message.
func respondError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func respondBadBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrMissingMailer),
		errors.Is(err, model.ErrPasswordMismatch),
		errors.Is(err, model.ErrDomainRejected),
		errors.Is(err, model.ErrPasswordTooShort),
		errors.Is(err, model.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest

	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrSessionExpired),
		errors.Is(err, model.ErrSessionMalformed):
		return http.StatusUnauthorized

	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, model.ErrMailDelivery):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
