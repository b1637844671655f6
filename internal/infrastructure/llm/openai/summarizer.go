package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/openai/openai-go/v2/shared/constant"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	domainllm "fintide/site/internal/domain/llm"
	"fintide/site/internal/platform/htmltext"
)

// SummarizerOptions configures the chat-completion backed summarizer.
// Models are tried in order until one returns a usable excerpt.
type SummarizerOptions struct {
	Client       *Client
	Models       []string
	Temperature  float64
	SystemPrompt string
	MaxBodyRunes int
}

type summarizer struct {
	client         *Client
	logger         *logrus.Logger
	models         []string
	temperature    float64
	systemPrompt   string
	maxBodyRunes   int
	responseFormat openai.ChatCompletionNewParamsResponseFormatUnion
}

const (
	defaultSummarizerSystemPrompt = "You write news teasers for Fintide, a payments infrastructure company that works with banks. " +
		"Given a press article, write one or two plain sentences (at most 250 characters) summarising it for bank decision makers. " +
		"Stay factual: use only information from the article. No marketing superlatives, no markdown, no HTML."
	defaultSummarizerTemperature = 0.2
	defaultMaxBodyRunes          = 6000
)

var _ domainllm.Summarizer = (*summarizer)(nil)

// NewSummarizer constructs a Summarizer backed by an OpenAI-compatible chat completion API.
func NewSummarizer(opts SummarizerOptions) (domainllm.Summarizer, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	models := make([]string, 0, len(opts.Models))
	for _, model := range opts.Models {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	if len(models) == 0 {
		return nil, eris.New("summarizer model is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultSummarizerTemperature
	}

	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSummarizerSystemPrompt
	}

	maxBodyRunes := opts.MaxBodyRunes
	if maxBodyRunes <= 0 {
		maxBodyRunes = defaultMaxBodyRunes
	}

	return &summarizer{
		client:         opts.Client,
		logger:         opts.Client.logger,
		models:         models,
		temperature:    temperature,
		systemPrompt:   systemPrompt,
		maxBodyRunes:   maxBodyRunes,
		responseFormat: buildExcerptResponseFormat(),
	}, nil
}

func (s *summarizer) Summarize(ctx context.Context, title, bodyHTML string) (string, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return "", eris.New("title is required")
	}

	text, err := htmltext.Extract(bodyHTML)
	if err != nil {
		return "", eris.Wrap(err, "extracting article text")
	}
	if text == "" {
		return "", eris.New("article body has no text")
	}
	text = htmltext.Truncate(text, s.maxBodyRunes)

	prompt := fmt.Sprintf("Title: %s\n\nArticle:\n%s\n\nReturn JSON that matches the provided schema.", trimmedTitle, text)

	var lastErr error
	for _, model := range s.models {
		excerpt, err := s.complete(ctx, model, prompt)
		if err == nil {
			return excerpt, nil
		}

		lastErr = err
		s.logError(logrus.Fields{"model": model, "title": trimmedTitle}, err, "summarizer model failed")

		if ctx.Err() != nil {
			break
		}
	}

	return "", eris.Wrap(lastErr, "summarizing article")
}

func (s *summarizer) complete(ctx context.Context, model, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(s.systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: s.responseFormat,
		Temperature:    openai.Float(s.temperature),
	}

	completion, err := s.client.chat.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "requesting chat completion")
	}

	if len(completion.Choices) == 0 {
		return "", eris.New("llm completion returned no choices")
	}

	choice := completion.Choices[0]
	if reason := strings.TrimSpace(choice.FinishReason); strings.EqualFold(reason, "content_filter") {
		return "", eris.New("llm blocked the request via content filter")
	}

	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return "", eris.Errorf("llm refused to summarize: %s", refusal)
	}

	return parseExcerpt(choice.Message.Content)
}

type excerptPayload struct {
	Excerpt string `json:"excerpt"`
}

func parseExcerpt(raw string) (string, error) {
	trimmed := stripCodeFence(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", eris.New("llm response content is empty")
	}

	var payload excerptPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return "", eris.Wrap(err, "decoding llm response json")
	}

	excerpt := strings.Join(strings.Fields(payload.Excerpt), " ")
	if excerpt == "" {
		return "", eris.New("llm response missing excerpt field")
	}

	return excerpt, nil
}

// stripCodeFence removes a surrounding ``` block that some providers add despite the schema.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	body := content[3:]
	newline := strings.IndexByte(body, '\n')
	if newline == -1 {
		return content
	}
	body = body[newline+1:]

	trimmedBody := strings.TrimRight(body, " \t\r\n")
	if !strings.HasSuffix(trimmedBody, "```") {
		return content
	}

	trimmedBody = strings.TrimRight(trimmedBody[:len(trimmedBody)-3], " \t\r\n")
	return strings.TrimSpace(trimmedBody)
}

func (s *summarizer) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil || err == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

func buildExcerptResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	schema := map[string]any{
		"type":                 "object",
		"required":             []string{"excerpt"},
		"additionalProperties": false,
		"properties": map[string]any{
			"excerpt": map[string]any{
				"type":        "string",
				"description": "One or two plain-text sentences summarising the article.",
			},
		},
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "fintide_news_excerpt",
				Description: openai.String("Plain-text teaser for a Fintide news article"),
				Strict:      openai.Bool(true),
				Schema:      schema,
			},
			Type: constant.ValueOf[constant.JSONSchema](),
		},
	}
}
