package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMicroPlanMinutes is the plan length used when none is requested.
const DefaultMicroPlanMinutes = 20

// ErrEmptyPlan is returned when the model proposes no usable task.
var ErrEmptyPlan = errors.New("model returned no tasks")

const microPlanPrompt = `You are a gentle study and wellbeing coach. The user tells you how they feel
and you answer with a short, doable micro plan.

Current time: %s
Mood: %q
Context: %s
Total time available: %d minutes
Number of tasks: %d

Already planned today (do not suggest these again):
%s

Rules:
- Return JSON only (no markdown).
- Exactly %d tasks whose durations add up to %d minutes.
- Each task is at least 5 minutes.
- category is one of "study", "work", "personal", "other".
- Match the tone of the tasks to the mood: low energy means small, kind steps.
- plan_text is one or two encouraging sentences.

JSON schema:
{
  "plan_text": "string",
  "tasks": [
    {"title": "string", "category": "study", "duration_minutes": 10}
  ]
}`

// BusySlot is an existing plan shown to the model for context.
type BusySlot struct {
	Start string // "HH:MM"
	End   string
	Title string
}

// MicroPlanRequest describes what the user asked for.
type MicroPlanRequest struct {
	Mood         string
	Context      string
	TotalMinutes int
	Now          time.Time
	Busy         []BusySlot
}

// MicroTask is one step of a suggested plan.
type MicroTask struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
}

// MicroPlanResponse is the model's answer.
type MicroPlanResponse struct {
	PlanText string      `json:"plan_text"`
	Tasks    []MicroTask `json:"tasks"`
}

// TaskCount splits a plan into one task per ten minutes, between one and three.
func TaskCount(totalMinutes int) int {
	return min(3, max(1, totalMinutes/10))
}

// MicroPlanMessages builds the chat for a micro plan request.
func MicroPlanMessages(req MicroPlanRequest) []Message {
	total := req.TotalMinutes
	if total <= 0 {
		total = DefaultMicroPlanMinutes
	}
	count := TaskCount(total)

	ctxText := strings.TrimSpace(req.Context)
	if ctxText == "" {
		ctxText = "none"
	}

	busy := "none"
	if len(req.Busy) > 0 {
		lines := make([]string, len(req.Busy))
		for i, b := range req.Busy {
			lines[i] = fmt.Sprintf("- %s-%s %s", b.Start, b.End, b.Title)
		}
		busy = strings.Join(lines, "\n")
	}

	system := fmt.Sprintf(microPlanPrompt,
		req.Now.Format("Monday, 2006-01-02 15:04"),
		strings.TrimSpace(req.Mood),
		ctxText,
		total,
		count,
		busy,
		count,
		total,
	)

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: "I feel " + strings.TrimSpace(req.Mood) + ". What should I do next?"},
	}
}

// SuggestMicroPlan asks the model for a plan and cleans up its answer.
func SuggestMicroPlan(ctx context.Context, client Client, req MicroPlanRequest) (*MicroPlanResponse, error) {
	if strings.TrimSpace(req.Mood) == "" {
		return nil, errors.New("mood cannot be empty")
	}

	var resp MicroPlanResponse
	if err := client.ChatJSON(ctx, MicroPlanMessages(req), &resp); err != nil {
		return nil, fmt.Errorf("requesting micro plan: %w", err)
	}

	resp.normalize()
	if len(resp.Tasks) == 0 {
		return nil, ErrEmptyPlan
	}
	return &resp, nil
}

// normalize drops untitled tasks and lowercases categories.
func (r *MicroPlanResponse) normalize() {
	r.PlanText = strings.TrimSpace(r.PlanText)
	tasks := r.Tasks[:0]
	for _, t := range r.Tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		t.Category = strings.ToLower(strings.TrimSpace(t.Category))
		tasks = append(tasks, t)
	}
	r.Tasks = tasks
}
