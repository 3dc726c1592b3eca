package services

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/daybloom/internal/models"
)

var (
	ErrTodoNotFound        = errors.New("todo not found")
	ErrTodoTextRequired    = errors.New("todo text is required")
	ErrTodoInvalidDate     = errors.New("invalid todo date")
	ErrTodoInvalidTime     = errors.New("invalid todo time")
	ErrTodoNoReward        = errors.New("todo has no reward")
	ErrTodoNotCompleted    = errors.New("todo is not completed")
	ErrTodoLoadFailed      = errors.New("load todos failed")
	ErrTodoSaveFailed      = errors.New("save todo failed")
	ErrNoteNotFound        = errors.New("note not found")
	ErrNoteContentRequired = errors.New("note content is required")
	ErrNoteSaveFailed      = errors.New("save note failed")
	ErrNoteLoadFailed      = errors.New("load notes failed")
	ErrTodoDeleteFailed    = errors.New("delete todo failed")
	ErrNoteDeleteFailed    = errors.New("delete note failed")
)

const (
	HistoryTodayKey     = "今天"
	HistoryYesterdayKey = "昨天"
	todoTimeLayout      = "15:04"
)

type TodoStore interface {
	List() ([]models.TodoItem, error)
	Find(id string) (models.TodoItem, bool, error)
	Create(todo *models.TodoItem) error
	Save(todo *models.TodoItem) error
	Delete(id string) (bool, error)
}

type NoteStore interface {
	List() ([]models.NoteItem, error)
	Find(id string) (models.NoteItem, bool, error)
	Create(note *models.NoteItem) error
	Save(note *models.NoteItem) error
	Delete(id string) (bool, error)
}

type TodoInput struct {
	Text   string
	Date   string
	Time   string
	Reward string
	Points int
}

type TodoStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Uncompleted int `json:"uncompleted"`
	Starred     int `json:"starred"`
}

type TodoGroup struct {
	Key   string            `json:"key"`
	Items []models.TodoItem `json:"items"`
}

type TodoBoard struct {
	Date    string            `json:"date"`
	Items   []models.TodoItem `json:"items"`
	Stats   TodoStats         `json:"stats"`
	Future  []TodoGroup       `json:"future"`
	History []TodoGroup       `json:"history"`
	Vault   []models.TodoItem `json:"vault"`
}

type TodoService struct {
	todos     TodoStore
	notes     NoteStore
	location  *time.Location
	newID     func() string
	noteColor func() string
}

func NewTodoService(todos TodoStore, notes NoteStore, location *time.Location) *TodoService {
	if location == nil {
		location = time.UTC
	}
	return &TodoService{
		todos:     todos,
		notes:     notes,
		location:  location,
		newID:     uuid.NewString,
		noteColor: randomNoteColor,
	}
}

func randomNoteColor() string {
	return models.NoteColors[rand.IntN(len(models.NoteColors))]
}

func (service *TodoService) normalizeTodoInput(input TodoInput, now time.Time) (TodoInput, error) {
	normalized := TodoInput{
		Text:   strings.TrimSpace(input.Text),
		Date:   strings.TrimSpace(input.Date),
		Time:   strings.TrimSpace(input.Time),
		Reward: strings.TrimSpace(input.Reward),
		Points: input.Points,
	}
	if normalized.Text == "" {
		return TodoInput{}, ErrTodoTextRequired
	}
	if normalized.Date == "" {
		normalized.Date = FormatDay(DateAtLocation(now, service.location))
	} else if _, err := ParseDay(normalized.Date, service.location); err != nil {
		return TodoInput{}, ErrTodoInvalidDate
	}
	if normalized.Time != "" {
		if _, err := time.Parse(todoTimeLayout, normalized.Time); err != nil {
			return TodoInput{}, ErrTodoInvalidTime
		}
	}
	if normalized.Points < 0 {
		normalized.Points = 0
	}
	return normalized, nil
}

func (service *TodoService) List() ([]models.TodoItem, error) {
	todos, err := service.todos.List()
	if err != nil {
		return nil, ErrTodoLoadFailed
	}
	return todos, nil
}

func (service *TodoService) Create(input TodoInput, now time.Time) (models.TodoItem, error) {
	normalized, err := service.normalizeTodoInput(input, now)
	if err != nil {
		return models.TodoItem{}, err
	}

	todo := models.TodoItem{
		ID:     service.newID(),
		Text:   normalized.Text,
		Date:   normalized.Date,
		Time:   normalized.Time,
		Reward: normalized.Reward,
		Points: normalized.Points,
	}
	if err := service.todos.Create(&todo); err != nil {
		return models.TodoItem{}, ErrTodoSaveFailed
	}
	return todo, nil
}

func (service *TodoService) Update(id string, input TodoInput, now time.Time) (models.TodoItem, error) {
	normalized, err := service.normalizeTodoInput(input, now)
	if err != nil {
		return models.TodoItem{}, err
	}

	return service.mutate(id, func(todo *models.TodoItem) error {
		todo.Text = normalized.Text
		todo.Date = normalized.Date
		todo.Time = normalized.Time
		todo.Reward = normalized.Reward
		todo.Points = normalized.Points
		return nil
	})
}

func (service *TodoService) ToggleComplete(id string) (models.TodoItem, error) {
	return service.mutate(id, func(todo *models.TodoItem) error {
		todo.Completed = !todo.Completed
		return nil
	})
}

func (service *TodoService) ToggleStar(id string) (models.TodoItem, error) {
	return service.mutate(id, func(todo *models.TodoItem) error {
		todo.IsStarred = !todo.IsStarred
		return nil
	})
}

// ClaimReward moves a completed todo's reward out of the vault.
func (service *TodoService) ClaimReward(id string) (models.TodoItem, error) {
	return service.mutate(id, func(todo *models.TodoItem) error {
		if todo.Reward == "" {
			return ErrTodoNoReward
		}
		if !todo.Completed {
			return ErrTodoNotCompleted
		}
		todo.RewardClaimed = true
		return nil
	})
}

func (service *TodoService) Delete(id string) error {
	deleted, err := service.todos.Delete(strings.TrimSpace(id))
	if err != nil {
		return ErrTodoDeleteFailed
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

func (service *TodoService) mutate(id string, apply func(todo *models.TodoItem) error) (models.TodoItem, error) {
	todo, found, err := service.todos.Find(strings.TrimSpace(id))
	if err != nil {
		return models.TodoItem{}, ErrTodoLoadFailed
	}
	if !found {
		return models.TodoItem{}, ErrTodoNotFound
	}
	if err := apply(&todo); err != nil {
		return models.TodoItem{}, err
	}
	if err := service.todos.Save(&todo); err != nil {
		return models.TodoItem{}, ErrTodoSaveFailed
	}
	return todo, nil
}

func (service *TodoService) Board(day time.Time, now time.Time) (TodoBoard, error) {
	todos, err := service.List()
	if err != nil {
		return TodoBoard{}, err
	}
	return BuildTodoBoard(todos, DateAtLocation(day, service.location), DateAtLocation(now, service.location)), nil
}

// TextsForDay lists the texts of the todos scheduled on day, in board order.
func (service *TodoService) TextsForDay(day time.Time) ([]string, error) {
	todos, err := service.List()
	if err != nil {
		return nil, err
	}
	key := FormatDay(DateAtLocation(day, service.location))
	texts := make([]string, 0)
	for _, todo := range SortTodosForDay(filterTodos(todos, func(todo models.TodoItem) bool { return todo.Date == key })) {
		texts = append(texts, todo.Text)
	}
	return texts, nil
}

// BuildTodoBoard assembles the board for day. History labels are relative to
// today, which is usually but not necessarily the same as day.
func BuildTodoBoard(todos []models.TodoItem, day time.Time, today time.Time) TodoBoard {
	dayKey := FormatDay(day)

	items := SortTodosForDay(filterTodos(todos, func(todo models.TodoItem) bool { return todo.Date == dayKey }))
	future := filterTodos(todos, func(todo models.TodoItem) bool { return todo.Date > dayKey })
	completed := filterTodos(todos, func(todo models.TodoItem) bool { return todo.Completed })
	vault := filterTodos(completed, func(todo models.TodoItem) bool { return todo.Reward != "" && !todo.RewardClaimed })

	return TodoBoard{
		Date:    dayKey,
		Items:   items,
		Stats:   TodoStatsFor(items),
		Future:  GroupFutureTodos(future),
		History: GroupTodoHistory(completed, today),
		Vault:   vault,
	}
}

func TodoStatsFor(todos []models.TodoItem) TodoStats {
	stats := TodoStats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		} else {
			stats.Uncompleted++
		}
		if todo.IsStarred {
			stats.Starred++
		}
	}
	return stats
}

// SortTodosForDay orders uncompleted before completed, then starred first,
// then timed todos by earliest time ahead of untimed ones. Ties keep their
// incoming order.
func SortTodosForDay(todos []models.TodoItem) []models.TodoItem {
	sorted := make([]models.TodoItem, len(todos))
	copy(sorted, todos)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.IsStarred != b.IsStarred {
			return a.IsStarred
		}
		switch {
		case a.Time != "" && b.Time != "":
			return a.Time < b.Time
		case a.Time != "":
			return true
		default:
			return false
		}
	})
	return sorted
}

func GroupFutureTodos(todos []models.TodoItem) []TodoGroup {
	groups := groupTodosByKey(todos, func(todo models.TodoItem) string { return todo.Date })
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// GroupTodoHistory groups completed todos by date, newest first, with today
// and yesterday relabelled.
func GroupTodoHistory(completed []models.TodoItem, today time.Time) []TodoGroup {
	todayKey := FormatDay(today)
	yesterdayKey := FormatDay(dateOnly(today).AddDate(0, 0, -1))

	groups := groupTodosByKey(completed, func(todo models.TodoItem) string {
		switch todo.Date {
		case todayKey:
			return HistoryTodayKey
		case yesterdayKey:
			return HistoryYesterdayKey
		default:
			return todo.Date
		}
	})

	rank := func(key string) string {
		switch key {
		case HistoryTodayKey:
			return "9999-99-99"
		case HistoryYesterdayKey:
			return "9999-99-98"
		default:
			return key
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return rank(groups[i].Key) > rank(groups[j].Key)
	})
	return groups
}

func groupTodosByKey(todos []models.TodoItem, keyOf func(models.TodoItem) string) []TodoGroup {
	index := make(map[string]int)
	groups := make([]TodoGroup, 0)
	for _, todo := range todos {
		key := keyOf(todo)
		position, ok := index[key]
		if !ok {
			position = len(groups)
			index[key] = position
			groups = append(groups, TodoGroup{Key: key})
		}
		groups[position].Items = append(groups[position].Items, todo)
	}
	return groups
}

func filterTodos(todos []models.TodoItem, keep func(models.TodoItem) bool) []models.TodoItem {
	filtered := make([]models.TodoItem, 0, len(todos))
	for _, todo := range todos {
		if keep(todo) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}

func (service *TodoService) ListNotes() ([]models.NoteItem, error) {
	notes, err := service.notes.List()
	if err != nil {
		return nil, ErrNoteLoadFailed
	}
	return notes, nil
}

func (service *TodoService) CreateNote(content string, now time.Time) (models.NoteItem, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.NoteItem{}, ErrNoteContentRequired
	}

	note := models.NoteItem{
		ID:      service.newID(),
		Content: trimmed,
		Date:    now.In(service.location),
		Color:   service.noteColor(),
	}
	if err := service.notes.Create(&note); err != nil {
		return models.NoteItem{}, ErrNoteSaveFailed
	}
	return note, nil
}

// UpdateNote replaces the content and bumps the note's timestamp; the color
// stays.
func (service *TodoService) UpdateNote(id string, content string, now time.Time) (models.NoteItem, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.NoteItem{}, ErrNoteContentRequired
	}

	note, found, err := service.notes.Find(strings.TrimSpace(id))
	if err != nil {
		return models.NoteItem{}, ErrNoteLoadFailed
	}
	if !found {
		return models.NoteItem{}, ErrNoteNotFound
	}

	note.Content = trimmed
	note.Date = now.In(service.location)
	if err := service.notes.Save(&note); err != nil {
		return models.NoteItem{}, ErrNoteSaveFailed
	}
	return note, nil
}

func (service *TodoService) DeleteNote(id string) error {
	deleted, err := service.notes.Delete(strings.TrimSpace(id))
	if err != nil {
		return ErrNoteDeleteFailed
	}
	if !deleted {
		return ErrNoteNotFound
	}
	return nil
}
