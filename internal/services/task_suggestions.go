package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	geminiModelName    = "gemini-1.5-flash"
	maxTaskSuggestions = 3
)

var fallbackTaskSuggestions = []string{"Buy groceries", "Study for exam", "Call mom"}

type TaskSuggester interface {
	Suggest(ctx context.Context, currentTasks []string) []string
}

// StaticSuggester answers with a fixed list. It is used when no model key is
// configured.
type StaticSuggester struct{}

func (StaticSuggester) Suggest(context.Context, []string) []string {
	return append([]string(nil), fallbackTaskSuggestions...)
}

type generateFunc func(ctx context.Context, prompt string) (string, error)

type GeminiSuggester struct {
	generate generateFunc
	logger   *zap.Logger
}

// NewTaskSuggester returns a Gemini backed suggester when apiKey is set and
// a StaticSuggester otherwise. The returned close func releases the client.
func NewTaskSuggester(ctx context.Context, apiKey string, logger *zap.Logger) (TaskSuggester, func() error, error) {
	if strings.TrimSpace(apiKey) == "" {
		return StaticSuggester{}, func() error { return nil }, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(geminiModelName)

	return newGeminiSuggester(func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return responseText(resp), nil
	}, logger), client.Close, nil
}

func newGeminiSuggester(generate generateFunc, logger *zap.Logger) *GeminiSuggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiSuggester{generate: generate, logger: logger.Named("suggestions")}
}

// Suggest never fails: a model error yields an empty list.
func (suggester *GeminiSuggester) Suggest(ctx context.Context, currentTasks []string) []string {
	raw, err := suggester.generate(ctx, BuildSuggestionPrompt(currentTasks))
	if err != nil {
		suggester.logger.Warn("generate task suggestions failed", zap.Error(err))
		return []string{}
	}
	return ParseSuggestions(raw)
}

func BuildSuggestionPrompt(currentTasks []string) string {
	listed := "none"
	if len(currentTasks) > 0 {
		listed = strings.Join(currentTasks, ", ")
	}
	return fmt.Sprintf(
		"Based on these tasks: %s, suggest %d new short tasks. Return only the tasks, one per line, no numbering or bullets.",
		listed,
		maxTaskSuggestions,
	)
}

// ParseSuggestions keeps the first non-empty lines of a model reply with any
// leading "- " bullet removed.
func ParseSuggestions(raw string) []string {
	suggestions := make([]string, 0, maxTaskSuggestions)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxTaskSuggestions {
			break
		}
	}
	return suggestions
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return builder.String()
}
