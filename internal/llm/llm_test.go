package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"tasks": []}`,
			expected: `{"tasks": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the plan: {"tasks": [{"title": "test"}]} hope it helps`,
			expected: `{"tasks": [{"title": "test"}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"tasks\": []}\n```",
			expected: `{"tasks": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"tasks\": []}\n```",
			expected: `{"tasks": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "braces inside strings",
			input:    `ok {"plan_text": "take a {short} break", "tasks": []} done`,
			expected: `{"plan_text": "take a {short} break", "tasks": []}`,
		},
		{
			name:     "no json",
			input:    "sorry, I can't",
			expected: "sorry, I can't",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTaskCount(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{5, 1},
		{10, 1},
		{20, 2},
		{29, 2},
		{30, 3},
		{120, 3},
	}
	for _, tt := range tests {
		if got := TaskCount(tt.total); got != tt.want {
			t.Errorf("TaskCount(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestMicroPlanMessages(t *testing.T) {
	req := MicroPlanRequest{
		Mood: " tired ",
		Now:  time.Date(2025, 1, 10, 14, 5, 0, 0, time.UTC),
		Busy: []BusySlot{{Start: "15:00", End: "16:00", Title: "Lab"}},
	}

	msgs := MicroPlanMessages(req)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser {
		t.Errorf("unexpected roles %q, %q", msgs[0].Role, msgs[1].Role)
	}

	system := msgs[0].Content
	for _, want := range []string{
		"Friday, 2025-01-10 14:05",
		`Mood: "tired"`,
		"Context: none",
		"Total time available: 20 minutes",
		"Exactly 2 tasks whose durations add up to 20 minutes",
		"- 15:00-16:00 Lab",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if msgs[1].Content != "I feel tired. What should I do next?" {
		t.Errorf("user message = %q", msgs[1].Content)
	}
}

// fakeClient answers ChatJSON with a canned reply.
type fakeClient struct {
	reply    string
	err      error
	messages []Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func TestSuggestMicroPlan(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + mustJSON(t, MicroPlanResponse{
		PlanText: "  Small steps count.  ",
		Tasks: []MicroTask{
			{Title: "Stretch", Category: "Personal", DurationMinutes: 5},
			{Title: "  ", Category: "study", DurationMinutes: 5},
			{Title: "Review notes", Category: "STUDY", DurationMinutes: 15},
		},
	}) + "\n```"}

	resp, err := SuggestMicroPlan(context.Background(), client, MicroPlanRequest{Mood: "tired", Now: time.Now()})
	if err != nil {
		t.Fatalf("SuggestMicroPlan() error = %v", err)
	}

	if resp.PlanText != "Small steps count." {
		t.Errorf("PlanText = %q", resp.PlanText)
	}
	if len(resp.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(resp.Tasks))
	}
	if resp.Tasks[0].Category != "personal" || resp.Tasks[1].Category != "study" {
		t.Errorf("categories not normalized: %+v", resp.Tasks)
	}
	if len(client.messages) != 2 {
		t.Errorf("expected the prompt to be sent")
	}
}

func TestSuggestMicroPlan_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := SuggestMicroPlan(ctx, &fakeClient{}, MicroPlanRequest{Mood: " "}); err == nil {
		t.Error("expected error for empty mood")
	}

	boom := errors.New("boom")
	if _, err := SuggestMicroPlan(ctx, &fakeClient{err: boom}, MicroPlanRequest{Mood: "sad"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped client error, got %v", err)
	}

	empty := &fakeClient{reply: `{"plan_text": "rest", "tasks": []}`}
	if _, err := SuggestMicroPlan(ctx, empty, MicroPlanRequest{Mood: "sad"}); !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("expected ErrEmptyPlan, got %v", err)
	}

	garbage := &fakeClient{reply: "I cannot help with that"}
	if _, err := SuggestMicroPlan(ctx, garbage, MicroPlanRequest{Mood: "sad"}); err == nil {
		t.Error("expected parse error")
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
