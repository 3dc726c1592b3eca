package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/daybloom/internal/db"
	"github.com/terraincognita07/daybloom/internal/services"
	"go.uber.org/zap"
)

// testNow is a Monday morning.
var testNow = time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)

type testAppConfig struct {
	pinHash   string
	suggester services.TaskSuggester
}

type testAppOption func(cfg *testAppConfig)

func withPINHash(hash string) testAppOption {
	return func(cfg *testAppConfig) { cfg.pinHash = hash }
}

func withSuggester(suggester services.TaskSuggester) testAppOption {
	return func(cfg *testAppConfig) { cfg.suggester = suggester }
}

func newTestApp(t *testing.T, options ...testAppOption) *fiber.App {
	t.Helper()

	cfg := testAppConfig{}
	for _, option := range options {
		option(&cfg)
	}

	database, err := db.OpenSQLite(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repos := db.NewRepositories(database)
	todos := services.NewTodoService(repos.Todos, repos.Notes, time.UTC)
	schedule := services.NewScheduleService(repos.Schedule, time.UTC)
	period := services.NewPeriodService(repos.Period, time.UTC)
	specialDays := services.NewSpecialDayService(repos.SpecialDays, time.UTC)

	handler, err := NewHandler(Services{
		Todos:       todos,
		Schedule:    schedule,
		Calendar:    services.NewCalendarService(todos, schedule, specialDays, period, time.UTC),
		Period:      period,
		SpecialDays: specialDays,
		Export:      services.NewExportService(schedule, todos, specialDays, period),
		Suggester:   cfg.suggester,
	}, Options{
		Location:    time.UTC,
		Logger:      zap.NewNop(),
		SecretKey:   []byte("0123456789abcdef0123456789abcdef"),
		LockPINHash: cfg.pinHash,
		Gatherer:    prometheus.NewRegistry(),
		Now:         func() time.Time { return testNow },
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, body interface{}, headers ...string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		request.Header.Set(headers[i], headers[i+1])
	}

	response, err := app.Test(request, -1)
	require.NoError(t, err)
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target interface{}) {
	t.Helper()
	defer response.Body.Close()
	require.NoError(t, json.NewDecoder(response.Body).Decode(target))
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
