package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
)

type specialDayPayload struct {
	Title string `json:"title" validate:"required,max=100"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Type  string `json:"type" validate:"omitempty,oneof=COUNTDOWN ANNIVERSARY countdown anniversary"`
}

func (payload specialDayPayload) input() services.SpecialDayInput {
	return services.SpecialDayInput{
		Title: payload.Title,
		Date:  payload.Date,
		Type:  payload.Type,
	}
}

// GetSpecialDays lists every special day with its countdown relative to
// today.
func (handler *Handler) GetSpecialDays(c *fiber.Ctx) error {
	countdowns, err := handler.specialDays.Countdowns(handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(countdowns)
}

func (handler *Handler) CreateSpecialDay(c *fiber.Ctx) error {
	var payload specialDayPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	day, err := handler.specialDays.Create(payload.input())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(day)
}

func (handler *Handler) UpdateSpecialDay(c *fiber.Ctx) error {
	var payload specialDayPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	day, err := handler.specialDays.Update(c.Params("id"), payload.input())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) DeleteSpecialDay(c *fiber.Ctx) error {
	if err := handler.specialDays.Delete(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return sendNoContent(c)
}
