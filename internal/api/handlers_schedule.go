package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
)

type scheduleSettingsPayload struct {
	StartHour     int `json:"start_hour" validate:"gte=0,lte=23"`
	StartMinute   int `json:"start_minute" validate:"gte=0,lte=59"`
	ClassDuration int `json:"class_duration" validate:"gte=1,lte=300"`
	BreakDuration int `json:"break_duration" validate:"gte=0,lte=600"`
	TotalSections int `json:"total_sections" validate:"gte=1,lte=16"`
}

type breakPayload struct {
	Minutes *int `json:"minutes" validate:"required,gte=0,lte=600"`
}

type coursePayload struct {
	Name         string `json:"name" validate:"required,max=100"`
	DayOfWeek    int    `json:"day_of_week" validate:"gte=1,lte=7"`
	StartSection int    `json:"start_section" validate:"gte=1"`
	SectionCount int    `json:"section_count" validate:"gte=1"`
	Room         string `json:"room" validate:"max=100"`
	Color        string `json:"color" validate:"max=100"`
}

func (payload coursePayload) input() services.CourseInput {
	return services.CourseInput{
		Name:         payload.Name,
		DayOfWeek:    payload.DayOfWeek,
		StartSection: payload.StartSection,
		SectionCount: payload.SectionCount,
		Room:         payload.Room,
		Color:        payload.Color,
	}
}

func (handler *Handler) GetScheduleSettings(c *fiber.Ctx) error {
	settings, err := handler.schedule.Settings()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) UpdateScheduleSettings(c *fiber.Ctx) error {
	var payload scheduleSettingsPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	settings, err := handler.schedule.UpdateSettings(services.ScheduleSettingsInput{
		StartHour:     payload.StartHour,
		StartMinute:   payload.StartMinute,
		ClassDuration: payload.ClassDuration,
		BreakDuration: payload.BreakDuration,
		TotalSections: payload.TotalSections,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) SetScheduleBreak(c *fiber.Ctx) error {
	section, ok := parsePositiveInt(c.Params("section"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid section")
	}
	var payload breakPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	settings, err := handler.schedule.SetBreak(section, *payload.Minutes)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) RemoveScheduleBreak(c *fiber.Ctx) error {
	section, ok := parsePositiveInt(c.Params("section"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid section")
	}

	settings, err := handler.schedule.RemoveBreak(section)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) GetScheduleWeek(c *fiber.Ctx) error {
	grid, err := handler.schedule.Week(handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(grid)
}

// GetSectionRange resolves ?section=&count= against the stored settings.
// count defaults to one section and the block must end within
// total_sections.
func (handler *Handler) GetSectionRange(c *fiber.Ctx) error {
	section, ok := parsePositiveInt(c.Query("section"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid section")
	}
	count := 1
	if raw := c.Query("count"); raw != "" {
		if count, ok = parsePositiveInt(raw); !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid count")
		}
	}

	settings, err := handler.schedule.Settings()
	if err != nil {
		return handler.serviceError(c, err)
	}
	if section > settings.TotalSections || count > settings.TotalSections-section+1 {
		return apiError(c, fiber.StatusBadRequest, "section range exceeds total_sections")
	}
	sectionRange := services.ResolveSectionRange(section, count, settings)
	return c.JSON(fiber.Map{
		"section": section,
		"count":   count,
		"start":   sectionRange.Start.String(),
		"end":     sectionRange.End.String(),
	})
}

func (handler *Handler) GetCourses(c *fiber.Ctx) error {
	courses, err := handler.schedule.Courses()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(courses)
}

func (handler *Handler) CreateCourse(c *fiber.Ctx) error {
	var payload coursePayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := handler.schedule.CreateCourse(payload.input())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (handler *Handler) UpdateCourse(c *fiber.Ctx) error {
	var payload coursePayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := handler.schedule.UpdateCourse(c.Params("id"), payload.input())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(course)
}

func (handler *Handler) DeleteCourse(c *fiber.Ctx) error {
	if err := handler.schedule.DeleteCourse(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return sendNoContent(c)
}
