package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
)

type todoPayload struct {
	Text   string `json:"text" validate:"required,max=500"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time   string `json:"time" validate:"omitempty,datetime=15:04"`
	Reward string `json:"reward" validate:"max=200"`
	Points int    `json:"points" validate:"gte=0"`
}

func (payload todoPayload) input() services.TodoInput {
	return services.TodoInput{
		Text:   payload.Text,
		Date:   payload.Date,
		Time:   payload.Time,
		Reward: payload.Reward,
		Points: payload.Points,
	}
}

type notePayload struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// GetTodos returns the board for ?date= (today when absent).
func (handler *Handler) GetTodos(c *fiber.Ctx) error {
	day := handler.today()
	if raw := c.Query("date"); raw != "" {
		parsed, ok := handler.parseDayParam(raw)
		if !ok {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		day = parsed
	}

	board, err := handler.todos.Board(day, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(board)
}

func (handler *Handler) CreateTodo(c *fiber.Ctx) error {
	var payload todoPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	todo, err := handler.todos.Create(payload.input(), handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

func (handler *Handler) UpdateTodo(c *fiber.Ctx) error {
	var payload todoPayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	todo, err := handler.todos.Update(c.Params("id"), payload.input(), handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(todo)
}

func (handler *Handler) DeleteTodo(c *fiber.Ctx) error {
	if err := handler.todos.Delete(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return sendNoContent(c)
}

func (handler *Handler) ToggleTodo(c *fiber.Ctx) error {
	todo, err := handler.todos.ToggleComplete(c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(todo)
}

func (handler *Handler) StarTodo(c *fiber.Ctx) error {
	todo, err := handler.todos.ToggleStar(c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(todo)
}

func (handler *Handler) ClaimTodoReward(c *fiber.Ctx) error {
	todo, err := handler.todos.ClaimReward(c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(todo)
}

// SuggestTodos asks the suggester for new tasks based on today's list.
func (handler *Handler) SuggestTodos(c *fiber.Ctx) error {
	texts, err := handler.todos.TextsForDay(handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": handler.suggester.Suggest(c.UserContext(), texts)})
}

func (handler *Handler) GetNotes(c *fiber.Ctx) error {
	notes, err := handler.todos.ListNotes()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(notes)
}

func (handler *Handler) CreateNote(c *fiber.Ctx) error {
	var payload notePayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := handler.todos.CreateNote(payload.Content, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (handler *Handler) UpdateNote(c *fiber.Ctx) error {
	var payload notePayload
	if err := decodeBody(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	note, err := handler.todos.UpdateNote(c.Params("id"), payload.Content, handler.now())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(note)
}

func (handler *Handler) DeleteNote(c *fiber.Ctx) error {
	if err := handler.todos.DeleteNote(c.Params("id")); err != nil {
		return handler.serviceError(c, err)
	}
	return sendNoContent(c)
}
