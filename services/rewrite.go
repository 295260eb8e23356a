package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrRewriteUnconfigured is returned when no Groq API key is set.
var ErrRewriteUnconfigured = errors.New("AI rewrite is not configured")

const groqBaseURL = "https://api.groq.com/openai/v1"

const rewriteSystemPrompt = "You format user notes into clean, professional outlines."

const rewritePromptTemplate = `Rewrite the following note into a formal, professional format with:
- A short subtitle summarizing the topic on the first line
- Then 4-10 concise bullet points
- Preserve the user's facts and intent. Do not invent details.
- Use plain text hyphen bullets ("- ") and clear, readable language.
- Avoid emojis and overuse of punctuation.

Original:
%s`

// Rewriter turns free-form note text into a structured rewrite. Pure
// request/response; no state is retained.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// GroqRewriter calls the Groq chat completions API.
type GroqRewriter struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewGroqRewriter(apiKey, model string) *GroqRewriter {
	client := resty.New().
		SetBaseURL(groqBaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	return &GroqRewriter{client: client, apiKey: apiKey, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r *GroqRewriter) Rewrite(ctx context.Context, text string) (string, error) {
	if r.apiKey == "" {
		return "", ErrRewriteUnconfigured
	}

	reqBody := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: rewriteSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(rewritePromptTemplate, text)},
		},
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(r.apiKey).
		SetBody(&reqBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("groq status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("groq returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
