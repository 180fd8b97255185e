package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

const systemPrompt = "你是協助台灣中小企業準備永續連結貸款的 ESG 顧問。只根據提供的評分結果給建議，不要編造數據。"

// Claude asks an Anthropic model for feedback.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaude returns ErrUnavailable when no API key is configured.
func NewClaude(cfg config.AdvisorConfig) (*Claude, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Claude{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (c *Claude) Feedback(ctx context.Context, a *schema.Assessment, _ rubric.Answers) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt(a))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}
