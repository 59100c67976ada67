package conflict

import "testing"

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{name: "midnight", input: "00:00", want: 0, wantOK: true},
		{name: "9am", input: "09:00", want: 540, wantOK: true},
		{name: "single digit hour", input: "9:05", want: 545, wantOK: true},
		{name: "last minute", input: "23:59", want: 1439, wantOK: true},
		{name: "surrounding spaces", input: "  10:30 ", want: 630, wantOK: true},
		{name: "12 AM is midnight", input: "12:00 AM", want: 0, wantOK: true},
		{name: "12 PM is noon", input: "12:00 PM", want: 720, wantOK: true},
		{name: "12:30 PM", input: "12:30 PM", want: 750, wantOK: true},
		{name: "1:15 PM", input: "1:15 PM", want: 795, wantOK: true},
		{name: "lowercase meridiem without space", input: "7:45pm", want: 1185, wantOK: true},
		{name: "mixed case meridiem", input: "11:59 Pm", want: 1439, wantOK: true},
		{name: "AM morning", input: "06:10 am", want: 370, wantOK: true},
		{name: "zero hour AM", input: "0:30 AM", want: 30, wantOK: true},
		{name: "13 AM taken literally", input: "13:00 AM", want: 780, wantOK: true},
		{name: "13 PM overflows", input: "13:00 PM", wantOK: false},
		{name: "hour out of range", input: "24:00", wantOK: false},
		{name: "minute out of range", input: "10:60", wantOK: false},
		{name: "both out of range", input: "25:99", wantOK: false},
		{name: "letters", input: "abc", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "missing colon", input: "0930", wantOK: false},
		{name: "single digit minute", input: "9:5", wantOK: false},
		{name: "three digit hour", input: "100:00", wantOK: false},
		{name: "seconds", input: "09:00:00", wantOK: false},
		{name: "unknown marker", input: "09:00 XM", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimeToMinutes(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTimeToMinutes(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMinutesToTime(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  string
	}{
		{name: "midnight", input: 0, want: "00:00"},
		{name: "9am", input: 540, want: "09:00"},
		{name: "with minutes", input: 570, want: "09:30"},
		{name: "last minute", input: 1439, want: "23:59"},
		{name: "midnight wraps", input: 1440, want: "00:00"},
		{name: "past midnight wraps", input: 1500, want: "01:00"},
		{name: "negative is empty", input: -10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinutesToTime(tt.input)
			if got != tt.want {
				t.Errorf("MinutesToTime(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		got, ok := ParseTimeToMinutes(MinutesToTime(m))
		if !ok || got != m {
			t.Fatalf("round trip of %d gave %d (ok=%v)", m, got, ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "9:05", want: "09:05", wantOK: true},
		{input: "2:30 PM", want: "14:30", wantOK: true},
		{input: "12:15 am", want: "00:15", wantOK: true},
		{input: "noon", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := Normalize(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
