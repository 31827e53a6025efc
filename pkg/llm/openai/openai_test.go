package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wingman/pkg/types"
)

// sseServer replies with the given SSE data payloads and records the last request body.
func sseServer(t *testing.T, payloads ...string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	captured := map[string]interface{}{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		for _, p := range payloads {
			fmt.Fprintf(w, "data: %s\n\n", p)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func delta(role, content string) string {
	return fmt.Sprintf(`{"choices":[{"delta":{"role":%q,"content":%q},"finish_reason":null}]}`, role, content)
}

func TestNewProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")

	_, err := NewProvider("")
	assert.Error(t, err)

	p, err := NewProvider("sk-test")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.GetBaseURL())
	assert.Equal(t, "openai", p.GetModelInfo().Provider)

	p, err = NewProvider("sk-test", WithModel("gpt-4o-mini"), WithBaseURL("http://localhost:8080/v1/"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.GetModel())
	assert.Equal(t, "http://localhost:8080/v1", p.GetBaseURL())
	assert.Equal(t, "http://localhost:8080/v1", p.GetModelInfo().Metadata["base_url"])
}

func TestNewProvider_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1")

	p, err := NewProvider("")
	require.NoError(t, err)
	assert.Equal(t, "https://openrouter.ai/api/v1", p.GetBaseURL())
}

func TestComplete(t *testing.T) {
	srv, _ := sseServer(t,
		delta("assistant", ""),
		delta("", "Hello"),
		delta("", ", world"),
		`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
		"[DONE]",
	)

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", reply.Content)
	assert.Equal(t, types.RoleAssistant, reply.Role)
}

func TestStreamCompletion_Tokens(t *testing.T) {
	srv, _ := sseServer(t, delta("assistant", "a"), delta("", "b"), "not json", delta("", "c"), "[DONE]")

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	stream, err := p.StreamCompletion(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.NoError(t, err)

	var got []string
	finished := false
	for chunk := range stream {
		require.NoError(t, chunk.Error)
		if chunk.Content != "" {
			got = append(got, chunk.Content)
		}
		finished = finished || chunk.Finished
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.True(t, finished)
}

func TestStreamCompletion_StreamError(t *testing.T) {
	srv, _ := sseServer(t, `{"error":{"message":"rate limited"}}`)

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestStreamCompletion_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.StreamCompletion(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestMultimodalRequestBody(t *testing.T) {
	srv, captured := sseServer(t, delta("assistant", "ok"), "[DONE]")

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL), WithModel("gpt-4o-audio-preview"))
	require.NoError(t, err)

	msgs := []*types.Message{
		types.NewSystemMessage("You are Wingman AI"),
		types.NewUserPartsMessage(
			types.TextPart("what is this?"),
			types.ImagePart("data:image/png;base64,AAAA"),
			types.AudioPart("BBBB", "mp3"),
		),
	}
	_, err = p.Complete(context.Background(), msgs)
	require.NoError(t, err)

	body := *captured
	assert.Equal(t, "gpt-4o-audio-preview", body["model"])
	assert.Equal(t, true, body["stream"])

	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])

	user := messages[1].(map[string]interface{})
	assert.Equal(t, "user", user["role"])
	parts := user["content"].([]interface{})
	require.Len(t, parts, 3)

	var kinds []string
	for _, raw := range parts {
		kinds = append(kinds, raw.(map[string]interface{})["type"].(string))
	}
	assert.Equal(t, []string{"text", "image_url", "input_audio"}, kinds)

	image := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/png;base64,AAAA", image["url"])
	audio := parts[2].(map[string]interface{})["input_audio"].(map[string]interface{})
	assert.Equal(t, "BBBB", audio["data"])
	assert.Equal(t, "mp3", audio["format"])
}

func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", delta("assistant", "x"))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p, err := NewProvider("sk-test", WithBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := p.StreamCompletion(ctx, []*types.Message{types.NewUserMessage("hi")})
	require.NoError(t, err)

	first := <-stream
	assert.Equal(t, "x", first.Content)
	cancel()

	var last error
	for chunk := range stream {
		if chunk.Error != nil {
			last = chunk.Error
		}
	}
	require.Error(t, last)
	assert.True(t, strings.Contains(last.Error(), "context canceled"))
}
