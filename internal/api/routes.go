package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", handler.metricsHandler())

	api := app.Group("/api")
	api.Post("/unlock", handler.Unlock)
	api.Post("/lock", handler.Lock)

	todos := api.Group("/todos", handler.LockRequired)
	todos.Get("", handler.GetTodos)
	todos.Post("", handler.CreateTodo)
	todos.Get("/suggestions", handler.SuggestTodos)
	todos.Put("/:id", handler.UpdateTodo)
	todos.Delete("/:id", handler.DeleteTodo)
	todos.Post("/:id/toggle", handler.ToggleTodo)
	todos.Post("/:id/star", handler.StarTodo)
	todos.Post("/:id/claim", handler.ClaimTodoReward)

	notes := api.Group("/notes", handler.LockRequired)
	notes.Get("", handler.GetNotes)
	notes.Post("", handler.CreateNote)
	notes.Put("/:id", handler.UpdateNote)
	notes.Delete("/:id", handler.DeleteNote)

	schedule := api.Group("/schedule", handler.LockRequired)
	schedule.Get("/settings", handler.GetScheduleSettings)
	schedule.Put("/settings", handler.UpdateScheduleSettings)
	schedule.Put("/breaks/:section", handler.SetScheduleBreak)
	schedule.Delete("/breaks/:section", handler.RemoveScheduleBreak)
	schedule.Get("/week", handler.GetScheduleWeek)
	schedule.Get("/range", handler.GetSectionRange)

	courses := api.Group("/courses", handler.LockRequired)
	courses.Get("", handler.GetCourses)
	courses.Post("", handler.CreateCourse)
	courses.Put("/:id", handler.UpdateCourse)
	courses.Delete("/:id", handler.DeleteCourse)

	calendar := api.Group("/calendar", handler.LockRequired)
	calendar.Get("", handler.GetCalendar)
	calendar.Get("/day/:date", handler.GetCalendarDay)

	period := api.Group("/period", handler.LockRequired)
	period.Get("", handler.GetPeriod)
	period.Put("/settings", handler.UpdateCycleSettings)
	period.Post("/start", handler.StartPeriod)
	period.Post("/undo", handler.UndoPeriodStart)
	period.Post("/logs", handler.SavePeriodLog)
	period.Get("/phase/:date", handler.GetPhase)

	specialDays := api.Group("/special-days", handler.LockRequired)
	specialDays.Get("", handler.GetSpecialDays)
	specialDays.Post("", handler.CreateSpecialDay)
	specialDays.Put("/:id", handler.UpdateSpecialDay)
	specialDays.Delete("/:id", handler.DeleteSpecialDay)

	export := api.Group("/export", handler.LockRequired)
	export.Get("/timetable.xlsx", handler.ExportTimetable)
	export.Get("/json", handler.ExportJSON)
}
