package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)

// AIService extracts actionable tasks from free text.
type AIService struct {
	client *openai.Client
}

// ExtractedTask is one task proposed by the model.
type ExtractedTask struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// ExtractTasksFromText asks the model for a JSON array of tasks found in the
// text. Entries without a title are discarded; due dates further than a day
// in the past are dropped.
func (s *AIService) ExtractTasksFromText(ctx context.Context, text string) ([]ExtractedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Respond with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "details, or null",
    "due_date": "deadline as ISO8601 (e.g. 2025-10-28T23:59:59Z), or null when none is stated"
  }
]

Rules:
- Return [] when the text contains no tasks.
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps.
- due_date must be an ISO8601 string or null.`, time.Now().Format("2006-01-02 15:04:05"), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []ExtractedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	valid := make([]ExtractedTask, 0, len(tasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, task := range tasks {
		if strings.TrimSpace(task.Title) == "" {
			continue
		}
		if task.DueDate != nil && task.DueDate.Before(cutoff) {
			task.DueDate = nil
		}
		valid = append(valid, task)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}
