package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const taggerSystemPrompt = "You are a part-of-speech tagger. Respond with strict JSON only."

const taggerPrompt = `Tag this business idea.
Return {"verbs": [...], "noun_phrases": [...]} where verbs are lemmas in the order they appear and noun_phrases are the noun chunks in the order they appear, copied verbatim.

Idea: %s`

const defaultTagTimeout = 10 * time.Second

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// AnthropicEnricher asks Claude for verb lemmas and noun phrases.
type AnthropicEnricher struct {
	messages AnthropicMessager
	model    anthropic.Model
	timeout  time.Duration
}

func NewAnthropicEnricher(apiKey, model string) (*AnthropicEnricher, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return NewAnthropicEnricherWithClient(newAnthropicClient(apiKey), model), nil
}

func NewAnthropicEnricherWithClient(messages AnthropicMessager, model string) *AnthropicEnricher {
	m := anthropic.ModelClaudeSonnet4_20250514
	if model = strings.TrimSpace(model); model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicEnricher{messages: messages, model: m, timeout: defaultTagTimeout}
}

func (a *AnthropicEnricher) Name() string { return "anthropic" }

type tagResponse struct {
	Verbs       []string `json:"verbs"`
	NounPhrases []string `json:"noun_phrases"`
}

func (a *AnthropicEnricher) Enrich(ctx context.Context, text string) (Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   512,
		System:      []anthropic.TextBlockParam{{Text: taggerSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(taggerPrompt, text)))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return Enrichment{}, fmt.Errorf("anthropic tag: %w", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	raw := stripCodeFences(sb.String())
	if raw == "" {
		return Enrichment{}, errors.New("anthropic tag: empty response")
	}
	var tags tagResponse
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return Enrichment{}, fmt.Errorf("anthropic tag: parse: %w", err)
	}
	return fromTags(tags.Verbs, tags.NounPhrases), nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
