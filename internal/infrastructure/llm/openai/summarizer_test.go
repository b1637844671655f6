package openai

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared/constant"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

type fakeChatService struct {
	responses  map[string]*openai.ChatCompletion
	errs       map[string]error
	models     []string
	lastParams openai.ChatCompletionNewParams
}

var fakeBaseURL = "https://fake-llm-provider.ai/api/v1"

func (f *fakeChatService) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = body
	f.models = append(f.models, string(body.Model))
	if err := f.errs[string(body.Model)]; err != nil {
		return nil, err
	}
	return f.responses[string(body.Model)], nil
}

func completionWith(content, finishReason, refusal string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		ID:      "sum-1",
		Created: time.Now().Unix(),
		Model:   "test-model",
		Object:  constant.ValueOf[constant.ChatCompletion](),
		Choices: []openai.ChatCompletionChoice{
			{
				FinishReason: finishReason,
				Index:        0,
				Message: openai.ChatCompletionMessage{
					Content: content,
					Refusal: refusal,
					Role:    constant.ValueOf[constant.Assistant](),
				},
			},
		},
	}
}

func newTestSummarizer(t *testing.T, chat *fakeChatService, models ...string) *summarizer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := &Client{chat: chat, logger: logger, baseURL: fakeBaseURL}

	s, err := NewSummarizer(SummarizerOptions{Client: client, Models: models})
	if err != nil {
		t.Fatalf("NewSummarizer returned error: %v", err)
	}

	return s.(*summarizer)
}

func TestSummarizerReturnsExcerpt(t *testing.T) {
	t.Parallel()

	chat := &fakeChatService{responses: map[string]*openai.ChatCompletion{
		"fintide-model": completionWith(`{"excerpt":"  Partner banks   settle in seconds. "}`, "stop", ""),
	}}
	s := newTestSummarizer(t, chat, "fintide-model")

	excerpt, err := s.Summarize(context.Background(), "Instant settlement", "<p>Partner banks settle in seconds.</p>")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if excerpt != "Partner banks settle in seconds." {
		t.Fatalf("unexpected excerpt %q", excerpt)
	}

	if chat.lastParams.Model != "fintide-model" {
		t.Fatalf("expected model fintide-model, got %s", chat.lastParams.Model)
	}

	if len(chat.lastParams.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(chat.lastParams.Messages))
	}

	format := chat.lastParams.ResponseFormat.OfJSONSchema
	if format == nil {
		t.Fatalf("expected json schema response format")
	}
	if format.JSONSchema.Name != "fintide_news_excerpt" {
		t.Fatalf("unexpected schema name %q", format.JSONSchema.Name)
	}
}

func TestSummarizerFallsBackToNextModel(t *testing.T) {
	t.Parallel()

	chat := &fakeChatService{
		errs: map[string]error{"primary": eris.New("rate limited")},
		responses: map[string]*openai.ChatCompletion{
			"secondary": completionWith("```json\n{\"excerpt\":\"Volume grew twelve percent.\"}\n```", "stop", ""),
		},
	}
	s := newTestSummarizer(t, chat, "primary", " ", "secondary")

	excerpt, err := s.Summarize(context.Background(), "Q3", "<p>Volume grew twelve percent.</p>")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if excerpt != "Volume grew twelve percent." {
		t.Fatalf("unexpected excerpt %q", excerpt)
	}

	if strings.Join(chat.models, ",") != "primary,secondary" {
		t.Fatalf("expected models to be tried in order, got %v", chat.models)
	}
}

func TestSummarizerRejectsUnusableResponses(t *testing.T) {
	t.Parallel()

	cases := map[string]*openai.ChatCompletion{
		"content filter": completionWith(`{"excerpt":"x"}`, "content_filter", ""),
		"refusal":        completionWith("", "stop", "cannot help"),
		"empty content":  completionWith("   ", "stop", ""),
		"empty excerpt":  completionWith(`{"excerpt":"  "}`, "stop", ""),
		"invalid json":   completionWith("not json", "stop", ""),
		"no choices":     {Choices: []openai.ChatCompletionChoice{}},
	}

	for name, completion := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			chat := &fakeChatService{responses: map[string]*openai.ChatCompletion{"m": completion}}
			s := newTestSummarizer(t, chat, "m")

			if _, err := s.Summarize(context.Background(), "Title", "<p>Body</p>"); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestSummarizerValidatesInput(t *testing.T) {
	t.Parallel()

	chat := &fakeChatService{}
	s := newTestSummarizer(t, chat, "m")

	if _, err := s.Summarize(context.Background(), " ", "<p>Body</p>"); err == nil {
		t.Fatalf("expected error for empty title")
	}

	if _, err := s.Summarize(context.Background(), "Title", "<script>x()</script>"); err == nil {
		t.Fatalf("expected error for body without text")
	}

	if len(chat.models) != 0 {
		t.Fatalf("expected no completion requests, got %d", len(chat.models))
	}
}

func TestNewSummarizerRequiresClientAndModel(t *testing.T) {
	t.Parallel()

	if _, err := NewSummarizer(SummarizerOptions{Models: []string{"m"}}); err == nil {
		t.Fatalf("expected error without client")
	}

	client := &Client{chat: &fakeChatService{}, baseURL: fakeBaseURL}
	if _, err := NewSummarizer(SummarizerOptions{Client: client, Models: []string{" "}}); err == nil {
		t.Fatalf("expected error without model")
	}
}

func TestNewClientDefaultsToOpenRouter(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientOptions{}); err == nil {
		t.Fatalf("expected error without api key")
	}

	client, err := NewClient(ClientOptions{APIKey: "key"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if client.BaseURL() != openRouterBaseURL {
		t.Fatalf("expected base url %q, got %q", openRouterBaseURL, client.BaseURL())
	}
}

func TestSummarizerLive(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		t.Logf("%v", eris.Wrap(err, "loading .env file"))
	}

	if os.Getenv("LLM_LIVE_TEST") != "1" {
		t.Skip("live summarizer test disabled; set LLM_LIVE_TEST=1 to enable")
	}

	apiKey := strings.TrimSpace(os.Getenv("LLM_API_KEY"))
	if apiKey == "" {
		t.Skip("LLM_API_KEY is required for the live summarizer test")
	}

	client, err := NewClient(ClientOptions{
		APIKey:  apiKey,
		BaseURL: strings.TrimSpace(os.Getenv("LLM_ENDPOINT")),
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("failed to build live client: %v", err)
	}

	var models []string
	if candidates := strings.Trim(strings.TrimSpace(os.Getenv("LLM_MODELS")), "[]"); candidates != "" {
		for _, candidate := range strings.Split(candidates, ",") {
			if model := strings.Trim(strings.TrimSpace(candidate), "\"'"); model != "" {
				models = append(models, model)
			}
		}
	}

	s, err := NewSummarizer(SummarizerOptions{Client: client, Models: models})
	if err != nil {
		t.Fatalf("failed to create live summarizer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	excerpt, err := s.Summarize(ctx, "Fintide launches instant settlement for partner banks",
		"<p>Partner banks can now settle card and account-to-account payments in seconds instead of days.</p><p>The rollout starts with three cooperative banks in Germany.</p>")
	if err != nil {
		t.Fatalf("live summarizer call failed: %v", err)
	}

	t.Logf("excerpt in %s: %s", time.Since(start), excerpt)
}
