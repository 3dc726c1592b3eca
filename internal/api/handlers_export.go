package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	now := handler.currentTime()
	snapshot, err := handler.export.Snapshot(now)
	if err != nil {
		return handler.serviceError(c, err)
	}

	serialized, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "backup", "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportTimetable(c *fiber.Ctx) error {
	workbook, err := handler.export.TimetableWorkbook()
	if err != nil {
		return handler.serviceError(c, err)
	}

	setExportAttachmentHeaders(c, xlsxContentType, buildExportFilename(handler.currentTime(), "timetable", "xlsx"))
	return c.Send(workbook)
}
