package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

var notFoundErrors = []error{
	services.ErrTodoNotFound,
	services.ErrNoteNotFound,
	services.ErrCourseNotFound,
	services.ErrBreakNotFound,
	services.ErrSpecialDayNotFound,
}

var badRequestErrors = []error{
	services.ErrTodoTextRequired,
	services.ErrTodoInvalidDate,
	services.ErrTodoInvalidTime,
	services.ErrNoteContentRequired,
	services.ErrInvalidScheduleSettings,
	services.ErrBreakSectionOutOfRange,
	services.ErrInvalidBreakDuration,
	services.ErrCourseNameRequired,
	services.ErrInvalidCourseDay,
	services.ErrInvalidCourseSections,
	services.ErrSpecialDayTitleRequired,
	services.ErrSpecialDayInvalidDate,
	services.ErrSpecialDayInvalidType,
}

var conflictErrors = []error{
	services.ErrTodoNoReward,
	services.ErrTodoNotCompleted,
	services.ErrNothingToUndo,
}

func statusForServiceError(err error) int {
	for _, candidate := range notFoundErrors {
		if errors.Is(err, candidate) {
			return fiber.StatusNotFound
		}
	}
	for _, candidate := range badRequestErrors {
		if errors.Is(err, candidate) {
			return fiber.StatusBadRequest
		}
	}
	for _, candidate := range conflictErrors {
		if errors.Is(err, candidate) {
			return fiber.StatusConflict
		}
	}
	return fiber.StatusInternalServerError
}

// serviceError maps a service error onto its status. Internal failures are
// logged and reported without detail.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	status := statusForServiceError(err)
	if status == fiber.StatusInternalServerError {
		handler.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return apiError(c, status, "internal error")
	}
	return apiError(c, status, err.Error())
}

func (handler *Handler) parseDayParam(raw string) (time.Time, bool) {
	day, err := services.ParseDay(strings.TrimSpace(raw), handler.location)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// parseMonthParam reads YYYY-MM.
func parseMonthParam(raw string) (int, time.Month, bool) {
	parsed, err := time.Parse("2006-01", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, false
	}
	return parsed.Year(), parsed.Month(), true
}

func parsePositiveInt(raw string) (int, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}

func buildExportFilename(now time.Time, name string, extension string) string {
	return fmt.Sprintf("daybloom-%s-%s.%s", name, now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
