package api

import "github.com/gofiber/fiber/v2"

// GetCalendar returns the month view for ?month=YYYY-MM with ?day= selected.
func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	today := handler.today()
	year, month := today.Year(), today.Month()
	if raw := c.Query("month"); raw != "" {
		var ok bool
		if year, month, ok = parseMonthParam(raw); !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid month")
		}
	}
	selected := today
	if raw := c.Query("day"); raw != "" {
		parsed, ok := handler.parseDayParam(raw)
		if !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid day")
		}
		selected = parsed
	}

	view, err := handler.calendar.Month(year, month, selected, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) GetCalendarDay(c *fiber.Ctx) error {
	day, ok := handler.parseDayParam(c.Params("date"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	agenda, err := handler.calendar.Day(day, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(agenda)
}
