package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hassan-tfive/TFiveMVP-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAITestServer(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAIService(config.AIConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
}

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestChatReturnsMessageContent(t *testing.T) {
	var gotAuth string
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		fmt.Fprint(w, chatResponse("hello there"))
	})

	reply, err := ai.Chat("be nice", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestChatWithHistoryInjectsPriorTurns(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 4)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "assistant", req.Messages[2].Role)
		assert.Equal(t, "and now?", req.Messages[3].Content)

		fmt.Fprint(w, chatResponse("still here"))
	})

	history := []AIChatMessage{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	reply, err := ai.ChatWithHistory("be nice", history, "and now?")
	require.NoError(t, err)
	assert.Equal(t, "still here", reply)
}

func TestChatSurfacesAPIErrors(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	})

	_, err := ai.Chat("be nice", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatStreamDeliversDeltas(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment ignored\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	out, errChan := ai.ChatStream("be nice", nil, "hi")

	var got string
	for delta := range out {
		got += delta
	}
	assert.Equal(t, "Hello", got)
	assert.NoError(t, <-errChan)
}

func TestChatStreamReportsHTTPFailure(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	out, errChan := ai.ChatStream("be nice", nil, "hi")
	for range out {
	}
	assert.Error(t, <-errChan)
}

func TestSpeechReturnsAudioBytes(t *testing.T) {
	audio := []byte("ID3fake-mp3-bytes")
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	})

	got, err := ai.Speech("hello world")
	require.NoError(t, err)
	assert.Equal(t, audio, got)
}

func TestGenerateImageReturnsURL(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		fmt.Fprint(w, `{"data": [{"url": "https://img.example.com/out.png"}]}`)
	})

	url, err := ai.GenerateImage("a calm workspace")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/out.png", url)
}

func TestGenerateImageEmptyResponse(t *testing.T) {
	ai := newAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	})

	_, err := ai.GenerateImage("a calm workspace")
	assert.Error(t, err)
}
