package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// Notification is one reminder ready for delivery.
type Notification struct {
	Kind  string
	Title string
	Body  string
}

func (notification Notification) Text() string {
	if notification.Title == "" {
		return notification.Body
	}
	return notification.Title + "\n" + notification.Body
}

type Sender interface {
	Send(ctx context.Context, notification Notification) error
}

// DisabledSender drops every notification. It stands in when no delivery
// channel is configured.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, Notification) error {
	return nil
}

type TelegramSender struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

type TelegramOption func(sender *TelegramSender)

func WithTelegramAPIBase(base string) TelegramOption {
	return func(sender *TelegramSender) {
		sender.apiBase = strings.TrimRight(base, "/")
	}
}

func WithTelegramHTTPClient(client *http.Client) TelegramOption {
	return func(sender *TelegramSender) {
		sender.client = client
	}
}

func NewTelegramSender(botToken string, chatID string, logger *zap.Logger, options ...TelegramOption) *TelegramSender {
	if logger == nil {
		logger = zap.NewNop()
	}

	sender := &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultTelegramAPIBase,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
	for _, option := range options {
		option(sender)
	}

	sender.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return sender
}

// NewSender picks the Telegram transport when both credentials are present.
func NewSender(botToken string, chatID string, logger *zap.Logger) Sender {
	if strings.TrimSpace(botToken) == "" || strings.TrimSpace(chatID) == "" {
		return DisabledSender{}
	}
	return NewTelegramSender(botToken, chatID, logger)
}

func (sender *TelegramSender) Send(ctx context.Context, notification Notification) error {
	_, err := sender.breaker.Execute(func() (interface{}, error) {
		return nil, sender.post(ctx, notification.Text())
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("telegram unavailable: %w", err)
	}
	return err
}

func (sender *TelegramSender) post(ctx context.Context, message string) error {
	values := url.Values{}
	values.Set("chat_id", sender.chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", sender.apiBase, sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
