package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunk(content, finish string) string {
	choice := map[string]any{
		"index": 0,
		"delta": map[string]any{"content": content},
	}
	if finish != "" {
		choice["finish_reason"] = finish
	}
	encoded, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"model":   "gpt-4o-mini",
		"choices": []any{choice},
	})
	return "data: " + string(encoded) + "\n\n"
}

func TestOpenAIRunnerFoldsDeltas(t *testing.T) {
	var request struct {
		Model    string `json:"model"`
		Stream   bool   `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, chunk("# 项目", ""))
		fmt.Fprint(w, chunk("评价报告", ""))
		fmt.Fprint(w, chunk("", "stop"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	runner := NewOpenAIRunner(OpenAIConfig{BaseURL: srv.URL + "/v1"})
	result, err := Run(context.Background(), runner, Credentials{APIToken: "sk-test", WorkflowID: "gpt-4o-mini"}, map[string]any{
		"project_name": "智能校园导航系统",
	})
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", request.Model)
	require.True(t, request.Stream)
	require.Len(t, request.Messages, 2)
	require.Contains(t, request.Messages[1].Content, "智能校园导航系统")

	require.Equal(t, 1, result.Events)
	require.Equal(t, "# 项目评价报告\n", result.Text)
}

func TestOpenAIRunnerMissingCredentials(t *testing.T) {
	runner := NewOpenAIRunner(OpenAIConfig{})

	_, err := runner.Stream(context.Background(), Credentials{WorkflowID: DefaultOpenAIModel}, nil)
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestBuildUserPromptEmbedsParameters(t *testing.T) {
	prompt, err := buildUserPrompt(map[string]any{"student_level": "本科"})
	require.NoError(t, err)
	require.Contains(t, prompt, "```json")
	require.Contains(t, prompt, `"student_level": "本科"`)
}
