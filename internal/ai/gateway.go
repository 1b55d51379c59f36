package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resolve/backend/internal/models"

	"golang.org/x/sync/errgroup"
)

const defaultModel = "google/gemini-2.5-flash"

// Classification is the structured enrichment attached to a complaint at
// creation time.
type Classification struct {
	Category       string   `json:"category"`
	Confidence     float64  `json:"confidence"`
	Tags           []string `json:"tags"`
	PriorityScore  float64  `json:"priority_score"`
	PredictedHours float64  `json:"predicted_hours"`
}

// fallbackClassification is returned whenever the gateway call or the parse
// fails. Classification must never block complaint creation.
var fallbackClassification = Classification{
	Category:       "General",
	Confidence:     0.5,
	Tags:           []string{},
	PriorityScore:  50,
	PredictedHours: 24,
}

// ReplyDrafts are the three suggested admin replies, one per tone.
type ReplyDrafts struct {
	Formal     string `json:"formal"`
	Friendly   string `json:"friendly"`
	Empathetic string `json:"empathetic"`
}

// Gateway talks to the language-model proxy. The embedded http.Client pools
// connections and is safe for concurrent use.
type Gateway struct {
	URL    string
	Key    string
	Model  string
	Client *http.Client
}

// NewGateway creates a gateway client with a pooled HTTP transport.
func NewGateway(url, key string, timeout time.Duration) *Gateway {
	return &Gateway{
		URL:   url,
		Key:   key,
		Model: defaultModel,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []chatMessage   `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Tools       []chatTool      `json:"tools,omitempty"`
	ToolChoice  *chatToolChoice `json:"tool_choice,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

type chatToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one chat completion round trip and returns the decoded
// response. 429 and 402 map to the typed errors.
func (g *Gateway) complete(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.Key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrNoCredits
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("ai gateway: status %d: %s", resp.StatusCode, data)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("ai gateway: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("ai gateway: empty response")
	}
	return &chat, nil
}

// Classify derives category, confidence, tags, priority score, and a
// resolution-time estimate for a complaint. It never fails: any gateway or
// parse error yields the neutral fallback so complaint creation proceeds.
func (g *Gateway) Classify(ctx context.Context, title, description string, severity models.Severity) Classification {
	req := chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a complaint classification AI. Return JSON with: category, confidence (0-1), tags (array), priority_score (0-100), predicted_hours (integer)."},
			{Role: "user", Content: fmt.Sprintf("Classify this complaint:\nTitle: %s\nDescription: %s\nSeverity: %s", title, description, severity)},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: chatFunction{
				Name:        "classify_complaint",
				Description: "Classify a complaint and return structured data",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"category":        map[string]string{"type": "string"},
						"confidence":      map[string]string{"type": "number"},
						"tags":            map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
						"priority_score":  map[string]string{"type": "number"},
						"predicted_hours": map[string]string{"type": "number"},
					},
					"required": []string{"category", "confidence", "tags", "priority_score", "predicted_hours"},
				},
			},
		}},
		ToolChoice: &chatToolChoice{Type: "function"},
	}
	req.ToolChoice.Function.Name = "classify_complaint"

	chat, err := g.complete(ctx, req)
	if err != nil {
		log.Printf("Classification failed, using fallback: %v", err)
		return fallbackClassification
	}

	calls := chat.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		log.Printf("Classification returned no tool call, using fallback")
		return fallbackClassification
	}

	var result Classification
	if err := json.Unmarshal([]byte(calls[0].Function.Arguments), &result); err != nil {
		log.Printf("Classification parse failed, using fallback: %v", err)
		return fallbackClassification
	}
	return result
}

// GenerateReplies drafts the three reply tones concurrently and fails if any
// of them fails.
func (g *Gateway) GenerateReplies(ctx context.Context, c *models.Complaint) (*ReplyDrafts, error) {
	draft := func(tone string, out *string) func() error {
		return func() error {
			chat, err := g.complete(ctx, chatRequest{
				Model: g.Model,
				Messages: []chatMessage{
					{Role: "system", Content: fmt.Sprintf("You are an administrator replying to a student complaint. Write a %s reply. Return only the reply text.", tone)},
					{Role: "user", Content: fmt.Sprintf("Complaint title: %s\nDescription: %s\nSeverity: %s\nStatus: %s", c.Title, c.Description, c.Severity, c.Status)},
				},
				Temperature: 0.7,
				MaxTokens:   500,
			})
			if err != nil {
				return err
			}
			*out = chat.Choices[0].Message.Content
			return nil
		}
	}

	var drafts ReplyDrafts
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(draft("formal and professional", &drafts.Formal))
	eg.Go(draft("friendly and casual", &drafts.Friendly))
	eg.Go(draft("empathetic and understanding", &drafts.Empathetic))
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &drafts, nil
}

// Assist runs one writing-assistant action and returns the raw result text.
func (g *Gateway) Assist(ctx context.Context, action, text, description string) (string, error) {
	var system, user string
	switch action {
	case "improve":
		system = "You are a text improvement assistant. Return only the improved version of the text, nothing else."
		user = fmt.Sprintf("Improve this complaint description to be clear, professional, and detailed while maintaining the original intent:\n\n%s", text)
	case "suggest_title":
		system = "You suggest clear, concise complaint titles. Create a title that accurately summarizes the issue in 5-10 words."
		user = fmt.Sprintf("Based on this complaint description, suggest a clear title:\n\n%s", description)
	case "suggest_category":
		system = "You categorize complaints. Suggest the most appropriate category from: Academic, Administrative, Facilities, Technical, or Other."
		user = fmt.Sprintf("Categorize this complaint:\n\n%s", text)
	case "chat":
		system = "You are a helpful assistant for the Brototype complaint system. Help students with writing complaints, understanding the process, and providing guidance. Be concise and supportive."
		user = text
	default:
		return "", ErrInvalidAction
	}

	chat, err := g.complete(ctx, chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	return chat.Choices[0].Message.Content, nil
}
