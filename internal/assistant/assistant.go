// Package assistant answers free-form questions about the user's
// finances. Every question is grounded on a ledger snapshot so the model
// only sees aggregate figures, never raw account credentials.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"fintrack/internal/ledger"
)

type Assistant struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// New builds the assistant. The Gemini API key is read from the
// environment by the genai client itself (GEMINI_API_KEY).
func New(ctx context.Context, model string, logger *slog.Logger) (*Assistant, error) {
	if model == "" {
		return nil, fmt.Errorf("assistant: model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: create client: %w", err)
	}
	return &Assistant{client: client, model: model, logger: logger}, nil
}

// Ask sends the question with the ledger snapshot as grounding and
// returns the model's answer as plain text.
func (a *Assistant) Ask(ctx context.Context, summary ledger.Summary, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("assistant: question is empty")
	}

	prompt := buildContext(summary, question)
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("assistant: generate content: %w", err)
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("assistant: empty response from model")
	}
	a.logger.DebugContext(ctx, "assistant answered", "question_len", len(question))
	return answer, nil
}

// buildContext renders the snapshot into the prompt. Figures are
// pre-formatted so the model never does money arithmetic on raw cents.
func buildContext(s ledger.Summary, question string) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Answer the question using only the data below.\n")
	b.WriteString("Be concise and concrete. If the data does not cover the question, say so.\n\n")

	fmt.Fprintf(&b, "Total balance across accounts: %s\n", s.TotalBalance)
	fmt.Fprintf(&b, "Total small expenses (under 100.00): %s\n", s.TotalAntExpenses)

	if len(s.TopCategories) > 0 {
		fmt.Fprintf(&b, "Most frequent small-expense categories: %s\n", strings.Join(s.TopCategories, ", "))
	}
	if len(s.Recent) > 0 {
		b.WriteString("Recent transactions:\n")
		for _, tx := range s.Recent {
			fmt.Fprintf(&b, "- %s %s %s (%s, %s)\n",
				tx.Date.Format("2006-01-02"), tx.Title, tx.Amount, tx.Category, tx.Kind)
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
