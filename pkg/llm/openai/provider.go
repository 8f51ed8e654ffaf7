package openai

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"auraflux-be/pkg/llm"
)

type OpenAIProvider struct {
	client    openaisdk.Client
	ModelName string
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		client:    openaisdk.NewClient(option.WithAPIKey(apiKey)),
		ModelName: modelName,
	}
}

func (p *OpenAIProvider) buildParams(history []llm.Message, opts ...llm.Option) openaisdk.ChatCompletionNewParams {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			messages = append(messages, openaisdk.SystemMessage(msg.Content))
		case "assistant", "model":
			messages = append(messages, openaisdk.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(msg.Content))
		}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(model),
		Messages: messages,
	}
	if options.Temperature > 0 {
		params.Temperature = openaisdk.Float(options.Temperature)
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(options.MaxTokens))
	}
	return params
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, p.buildParams(history, opts...))
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: empty choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	stream := p.client.Chat.Completions.NewStreaming(ctx, p.buildParams(history, opts...))
	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("openai chat stream: %w", err)
	}
	return &openaiStream{inner: stream}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// openaiStream adapts the SSE chunk stream to the provider-agnostic
// fragment iterator. Empty deltas (role-only chunks) are skipped.
type openaiStream struct {
	inner   *ssestream.Stream[openaisdk.ChatCompletionChunk]
	current string
}

func (s *openaiStream) Next() bool {
	for s.inner.Next() {
		chunk := s.inner.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		s.current = delta
		return true
	}
	return false
}

func (s *openaiStream) Current() string {
	return s.current
}

func (s *openaiStream) Err() error {
	return s.inner.Err()
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}
