package api

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/daybloom/internal/services"
)

func TestStatusForServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing todo", err: services.ErrTodoNotFound, want: fiber.StatusNotFound},
		{name: "wrapped missing course", err: fmt.Errorf("update: %w", services.ErrCourseNotFound), want: fiber.StatusNotFound},
		{name: "bad break section", err: services.ErrBreakSectionOutOfRange, want: fiber.StatusBadRequest},
		{name: "unclaimable reward", err: services.ErrTodoNotCompleted, want: fiber.StatusConflict},
		{name: "nothing to undo", err: services.ErrNothingToUndo, want: fiber.StatusConflict},
		{name: "storage failure", err: errors.New("disk full"), want: fiber.StatusInternalServerError},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := statusForServiceError(test.err); got != test.want {
				t.Fatalf("statusForServiceError(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}

func TestParseMonthParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw       string
		wantYear  int
		wantMonth time.Month
		wantOK    bool
	}{
		{raw: "2024-05", wantYear: 2024, wantMonth: time.May, wantOK: true},
		{raw: " 2025-12 ", wantYear: 2025, wantMonth: time.December, wantOK: true},
		{raw: "2024-13"},
		{raw: "2024/05"},
		{raw: ""},
	}

	for _, test := range tests {
		year, month, ok := parseMonthParam(test.raw)
		if ok != test.wantOK || year != test.wantYear || month != test.wantMonth {
			t.Fatalf("parseMonthParam(%q) = (%d, %v, %t), want (%d, %v, %t)", test.raw, year, month, ok, test.wantYear, test.wantMonth, test.wantOK)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "3", want: 3, wantOK: true},
		{raw: " 12 ", want: 12, wantOK: true},
		{raw: "0"},
		{raw: "-2"},
		{raw: "two"},
	}

	for _, test := range tests {
		got, ok := parsePositiveInt(test.raw)
		if got != test.want || ok != test.wantOK {
			t.Fatalf("parsePositiveInt(%q) = (%d, %t), want (%d, %t)", test.raw, got, ok, test.want, test.wantOK)
		}
	}
}

func TestBuildExportFilename(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 17, 23, 59, 0, 0, time.UTC)
	if got := buildExportFilename(now, "backup", "json"); got != "daybloom-backup-2026-02-17.json" {
		t.Fatalf("unexpected filename %q", got)
	}
}
