package input

import "testing"

func TestMatchingCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no_slash", input: "plan", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "slash_only", input: "/", want: 2},
		{name: "full", input: "/plan", want: 1},
		{name: "prefix", input: "/g", want: 1},
		{name: "upper", input: "/PL", want: 1},
		{name: "with_arg", input: "/plan tired", want: 0},
		{name: "unknown", input: "/x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchingCommands(tt.input, Commands)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAutocomplete(t *testing.T) {
	value, ok := Autocomplete("/p", Commands)
	if !ok {
		t.Fatal("expected autocomplete")
	}
	if value != "/plan " {
		t.Fatalf("value = %q, want %q", value, "/plan ")
	}

	if _, ok := Autocomplete("hello", Commands); ok {
		t.Fatal("expected no autocomplete without a slash")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArg  string
	}{
		{"", "", ""},
		{"   ", "", ""},
		{"/plan tired and hungry", "/plan", "tired and hungry"},
		{"/GOTO  tomorrow ", "/goto", "tomorrow"},
		{"/plan", "/plan", ""},
		{"anxious about exams", "/plan", "anxious about exams"},
	}

	for _, tt := range tests {
		name, arg := Parse(tt.input)
		if name != tt.wantName || arg != tt.wantArg {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.input, name, arg, tt.wantName, tt.wantArg)
		}
	}
}
