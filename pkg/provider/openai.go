package provider

import (
	"context"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vanderheijden86/knowtree/pkg/model"
)

const defaultModel = openai.GPT4oMini

const systemPrompt = "You are a precise knowledge-mapping assistant. " +
	"You always respond with exactly one JSON value and no prose around it."

// OpenAIOptions configures the OpenAI-backed provider.
type OpenAIOptions struct {
	APIKey  string // falls back to OPENAI_API_KEY
	Model   string // falls back to gpt-4o-mini
	BaseURL string // optional, for compatible endpoints and tests
	Cache   *Cache // optional prompt-keyed response cache
}

// OpenAIProvider generates tree content through the chat completions
// API. It is safe for concurrent use; each expansion request is an
// independent call.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	cache  *Cache
}

// NewOpenAI builds the provider, reading the key from the environment
// when not supplied.
func NewOpenAI(opts OpenAIOptions) (*OpenAIProvider, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set OPENAI_API_KEY or configure provider.api_key_env")
	}
	mdl := opts.Model
	if mdl == "" {
		mdl = defaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  mdl,
		cache:  opts.Cache,
	}, nil
}

// GenerateTree implements Provider.
func (p *OpenAIProvider) GenerateTree(ctx context.Context, topic string) (*model.KnowledgeTree, error) {
	text, err := p.complete(ctx, TreePrompt(topic))
	if err != nil {
		return nil, &ProviderError{Op: "generate", Err: err}
	}
	return ParseTree(text)
}

// ExpandNode implements Provider.
func (p *OpenAIProvider) ExpandNode(ctx context.Context, rootTopic, nodeTitle string, ancestry []string) ([]model.KnowledgeNode, error) {
	text, err := p.complete(ctx, ExpandPrompt(rootTopic, nodeTitle, ancestry))
	if err != nil {
		return nil, &ProviderError{Op: "expand", Err: err}
	}
	return ParseChildren(text)
}

// complete runs one chat completion, consulting the cache first when
// one is attached.
func (p *OpenAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if p.cache != nil {
		if body, ok := p.cache.Get(key); ok {
			return body, nil
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion")
	}
	text := resp.Choices[0].Message.Content

	if p.cache != nil {
		if err := p.cache.Put(key, text); err != nil {
			log.Printf("warning: response cache write failed: %v", err)
		}
	}
	return text, nil
}
