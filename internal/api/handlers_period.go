package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
)

type cycleSettingsPayload struct {
	CycleLength     int    `json:"cycle_length" validate:"gte=1,lte=120"`
	PeriodLength    int    `json:"period_length" validate:"gte=1,lte=31"`
	LastPeriodStart string `json:"last_period_start" validate:"omitempty,datetime=2006-01-02"`
}

type periodLogPayload struct {
	Date     string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Flow     *int     `json:"flow" validate:"omitempty,gte=1,lte=3"`
	Mood     *string  `json:"mood" validate:"omitempty,max=32"`
	Symptoms []string `json:"symptoms" validate:"max=20,dive,max=32"`
}

func (handler *Handler) GetPeriod(c *fiber.Ctx) error {
	overview, err := handler.period.Overview(handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(overview)
}

func (handler *Handler) UpdateCycleSettings(c *fiber.Ctx) error {
	var payload cycleSettingsPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.PeriodLength >= payload.CycleLength {
		return apiError(c, fiber.StatusBadRequest, "period_length must be shorter than cycle_length")
	}

	input := services.CycleSettingsInput{
		CycleLength:  payload.CycleLength,
		PeriodLength: payload.PeriodLength,
	}
	if payload.LastPeriodStart != "" {
		start, ok := handler.parseDayParam(payload.LastPeriodStart)
		if !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid last_period_start")
		}
		if start.After(handler.today()) {
			return apiError(c, fiber.StatusBadRequest, "last_period_start cannot be in the future")
		}
		input.LastPeriodStart = &start
	}

	if _, err := handler.period.UpdateCycleSettings(handler.now(), input); err != nil {
		return handler.serviceError(c, err)
	}
	return handler.GetPeriod(c)
}

// StartPeriod marks today as the first day of a new period.
func (handler *Handler) StartPeriod(c *fiber.Ctx) error {
	if _, _, err := handler.period.MarkPeriodStart(handler.now()); err != nil {
		return handler.serviceError(c, err)
	}
	return handler.GetPeriod(c)
}

func (handler *Handler) UndoPeriodStart(c *fiber.Ctx) error {
	if _, err := handler.period.UndoPeriodStart(handler.now()); err != nil {
		return handler.serviceError(c, err)
	}
	return handler.GetPeriod(c)
}

func (handler *Handler) SavePeriodLog(c *fiber.Ctx) error {
	var payload periodLogPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	day := handler.today()
	if payload.Date != "" {
		parsed, ok := handler.parseDayParam(payload.Date)
		if !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		day = parsed
	}

	entry, err := handler.period.SaveLog(day, services.PeriodLogInput{
		Flow:     payload.Flow,
		Mood:     payload.Mood,
		Symptoms: payload.Symptoms,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) GetPhase(c *fiber.Ctx) error {
	day, ok := handler.parseDayParam(c.Params("date"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	phase, err := handler.period.PhaseOn(day, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"date":  services.FormatDay(day),
		"phase": phase,
	})
}
