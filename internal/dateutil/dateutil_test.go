package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123, time.UTC)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := TruncateToDay(input); !got.Equal(want) {
		t.Errorf("TruncateToDay(%v) = %v, want %v", input, got, want)
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday, January 15, 2025 at 10:30
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "empty", input: "", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)},
		{name: "today", input: "today", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)},
		{name: "TODAY uppercase", input: "TODAY", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)},
		{name: "tomorrow", input: "tomorrow", want: time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local)},
		{name: "yesterday", input: "yesterday", want: time.Date(2025, 1, 14, 0, 0, 0, 0, time.Local)},
		{name: "friday is later this week", input: "friday", want: time.Date(2025, 1, 17, 0, 0, 0, 0, time.Local)},
		{name: "monday is next week", input: "monday", want: time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)},
		{name: "same weekday is a week out", input: "wednesday", want: time.Date(2025, 1, 22, 0, 0, 0, 0, time.Local)},
		{name: "padded input", input: "  Tomorrow ", want: time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local)},
		{name: "absolute past date allowed", input: "2024-12-31", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)},
		{name: "absolute future date", input: "2025-02-01", want: time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, ref)
			if err != nil {
				t.Fatalf("ParseRelativeDate(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseRelativeDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	ref := time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
	for _, input := range []string{"next-monday", "2025/01/15", "someday", "2025-13-01"} {
		if _, err := ParseRelativeDate(input, ref); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseRelativeDate(%q) error = %v, want %v", input, err, ErrInvalidDateFormat)
		}
	}
}

func TestIsToday(t *testing.T) {
	now := time.Date(2025, 1, 15, 23, 59, 0, 0, time.Local)
	if !IsToday(time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local), now) {
		t.Error("expected same day to be today")
	}
	if IsToday(time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local), now) {
		t.Error("expected next day not to be today")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)); got != "2025-03-07" {
		t.Errorf("Format() = %q, want %q", got, "2025-03-07")
	}
}
