package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStripEmojis(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello! 😀", "Hello!"},
		{"Plans start at $2.99/month 🚀🎉", "Plans start at $2.99/month"},
		{"No emojis here.", "No emojis here."},
		{"Flags 🇺🇸 too", "Flags  too"},
		{"⭐ stars ☀ and suns", "stars  and suns"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripEmojis(tc.in), "input %q", tc.in)
	}
}

func newAIChatService(t *testing.T, handler http.HandlerFunc) *AIChatService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := testConfig()
	cfg.AIBaseURL = ts.URL
	cfg.AIModel = "test-model"
	return NewAIChatService(cfg, zap.NewNop())
}

func aiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestChatStripsEmojisAndForwardsHistory(t *testing.T) {
	var got aiRequest
	svc := newAIChatService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(aiReply("Happy to help! 😀🎉"))
	})

	reply, err := svc.Chat(context.Background(), ChatInput{
		APIKey:    "secret-key",
		Message:   "Do you offer refunds?",
		AgentName: "Dana",
		Language:  "Spanish",
		History: []ChatTurn{
			{Role: "user", Message: "Hi"},
			{Role: "model", Message: "Hello, how can I help?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", reply)

	require.NotNil(t, got.SystemInstruction)
	prompt := got.SystemInstruction.Parts[0].Text
	assert.Contains(t, prompt, "Dana")
	assert.Contains(t, prompt, "Spanish")
	assert.Contains(t, prompt, "Never use emojis")

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "Do you offer refunds?", got.Contents[2].Parts[0].Text)
	assert.Len(t, got.SafetySettings, 4)
}

func TestChatSurfacesProviderError(t *testing.T) {
	svc := newAIChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid"},
		})
	})

	_, err := svc.Chat(context.Background(), ChatInput{APIKey: "bad", Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestValidateKey(t *testing.T) {
	okSvc := newAIChatService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(aiReply("pong"))
	})
	valid, msg := okSvc.ValidateKey(context.Background(), "good")
	assert.True(t, valid)
	assert.Equal(t, "API key is valid", msg)

	badSvc := newAIChatService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 403, "message": "API key not valid"},
		})
	})
	valid, msg = badSvc.ValidateKey(context.Background(), "bad")
	assert.False(t, valid)
	assert.Equal(t, "API key not valid", msg)
}
