package llm

import (
	"context"
	"fmt"
	"os"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = goopenai.GPT4o

type openAIModel struct {
	client    *goopenai.Client
	model     string
	maxTokens int64
}

func newOpenAI(cfg Config) (Model, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not set (config or OPENAI_API_KEY)")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &openAIModel{
		client:    goopenai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (m *openAIModel) Complete(ctx context.Context, system string, prompt string) (string, error) {
	var messages []goopenai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := m.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     m.model,
		Messages:  messages,
		MaxTokens: int(m.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (m *openAIModel) Name() string {
	return "openai:" + m.model
}
