package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig defines configuration options for the OpenAI runner.
type OpenAIConfig struct {
	BaseURL     string
	HTTPClient  *http.Client
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIRunner emulates the evaluation workflow with a streamed chat completion.
// Credentials.APIToken is the API key and Credentials.WorkflowID the model.
type OpenAIRunner struct {
	cfg    OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIRunner builds a new runner using the provided configuration.
func NewOpenAIRunner(cfg OpenAIConfig) *OpenAIRunner {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIRunner{
		cfg:    cfg,
		logger: logger.With().Str("component", "openai_runner").Logger(),
	}
}

// Name identifies the provider in banners and metrics.
func (r *OpenAIRunner) Name() string {
	return "OpenAI"
}

// Stream sends the project parameters to the chat completion API and streams
// the answer back as a single message event.
func (r *OpenAIRunner) Stream(ctx context.Context, creds Credentials, parameters map[string]any) (Stream, error) {
	if !creds.Complete() {
		return nil, ErrMissingCredentials
	}

	config := openai.DefaultConfig(creds.APIToken)
	if r.cfg.BaseURL != "" {
		config.BaseURL = r.cfg.BaseURL
	}
	if r.cfg.HTTPClient != nil {
		config.HTTPClient = r.cfg.HTTPClient
	}
	client := openai.NewClientWithConfig(config)

	prompt, err := buildUserPrompt(parameters)
	if err != nil {
		return nil, err
	}

	request := openai.ChatCompletionRequest{
		Model:       creds.WorkflowID,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Stream:      true,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: evaluatorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	stream, err := client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("openai stream: %w", err)
	}

	r.logger.Debug().Str("model", creds.WorkflowID).Msg("completion stream opened")
	return &openAIStream{stream: stream}, nil
}

func evaluatorSystemPrompt() string {
	return "你是学生项目评价助手。根据提供的项目信息，用中文输出一份 Markdown 格式的评价报告，" +
		"包含项目信息、评分结果（综合评分、创新性、技术难度、完成度、文档质量，满分10分）、项目优势、改进建议、学习收获和后续建议。" +
		"只输出 Markdown 正文。"
}

func buildUserPrompt(parameters map[string]any) (string, error) {
	encoded, err := json.MarshalIndent(parameters, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}

	builder := strings.Builder{}
	builder.WriteString("# 项目参数\n")
	builder.WriteString("```json\n")
	builder.Write(encoded)
	builder.WriteString("\n```\n")
	builder.WriteString("请输出评价报告。")
	return builder.String(), nil
}

// openAIStream folds the token deltas of the first choice into one message
// event, emitted when the choice finishes or the stream ends.
type openAIStream struct {
	stream *openai.ChatCompletionStream
	done   bool
}

func (s *openAIStream) Next() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}

	var (
		builder strings.Builder
		id      string
		seen    bool
	)

	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.done = true
			if !seen {
				return Event{}, io.EOF
			}
			return messageEvent(id, builder.String()), nil
		}
		if err != nil {
			s.done = true
			return Event{}, fmt.Errorf("openai stream recv: %w", err)
		}

		if len(resp.Choices) == 0 {
			continue
		}
		id = resp.ID
		seen = true

		choice := resp.Choices[0]
		builder.WriteString(choice.Delta.Content)
		if choice.FinishReason != "" {
			s.done = true
			return messageEvent(id, builder.String()), nil
		}
	}
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

func messageEvent(id, content string) Event {
	return Event{
		ID:      id,
		Kind:    EventMessage,
		Message: &Message{Content: content},
	}
}
