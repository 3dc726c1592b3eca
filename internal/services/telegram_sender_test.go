package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTelegramSenderPostsForm(t *testing.T) {
	var gotPath, gotChat, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewTelegramSender("token123", "42", zap.NewNop(), WithTelegramAPIBase(server.URL+"/"))

	err := sender.Send(context.Background(), Notification{Title: "📚 上课提醒", Body: "快去准备一下吧！"})
	require.NoError(t, err)

	assert.Equal(t, "/bottoken123/sendMessage", gotPath)
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "📚 上课提醒\n快去准备一下吧！", gotText)
}

func TestTelegramSenderOpensBreakerAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewTelegramSender("token", "chat", nil, WithTelegramAPIBase(server.URL))

	for i := 0; i < 3; i++ {
		err := sender.Send(context.Background(), Notification{Body: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telegram status 502")
	}

	err := sender.Send(context.Background(), Notification{Body: "x"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), calls.Load(), "an open breaker must not reach the server")
}

func TestNewSenderFallsBackToDisabled(t *testing.T) {
	assert.IsType(t, DisabledSender{}, NewSender("", "chat", nil))
	assert.IsType(t, DisabledSender{}, NewSender("token", " ", nil))
	assert.IsType(t, &TelegramSender{}, NewSender("token", "chat", nil))

	assert.NoError(t, DisabledSender{}.Send(context.Background(), Notification{Body: "dropped"}))
}
