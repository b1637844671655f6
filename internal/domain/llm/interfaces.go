package llm

import "context"

// Summarizer writes a short teaser excerpt for a news article.
type Summarizer interface {
	Summarize(ctx context.Context, title, bodyHTML string) (string, error)
}
