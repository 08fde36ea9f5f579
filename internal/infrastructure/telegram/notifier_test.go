package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsCollector/internal/config"
)

func TestNotifierPublishSummary(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		got = r.PostForm.Get("text")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "token", ChatID: "42", APIBase: srv.URL + "/"})
	require.True(t, n.Enabled())
	require.NoError(t, n.PublishSummary(context.Background(), "ingest: 3 new"))
	assert.Equal(t, "ingest: 3 new", got)

	require.NoError(t, n.PublishSummary(context.Background(), strings.Repeat("я", 5000)))
	assert.Equal(t, maxMessageRunes, utf8.RuneCountInString(got))
}

func TestNotifierErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "1", APIBase: srv.URL}).
		PublishSummary(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	n := NewNotifier(config.TelegramConfig{})
	assert.False(t, n.Enabled())
	assert.Error(t, n.PublishSummary(context.Background(), "hi"))
}
