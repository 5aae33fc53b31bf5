package durations

import (
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    time.Duration
		wantErr bool
	}{
		{name: "full hh:mm:ss", token: "01:30:00", want: 90 * time.Minute},
		{name: "two fields zero-fill seconds", token: "10:00", want: 10 * time.Hour},
		{name: "hours past a day", token: "26:15:30", want: 26*time.Hour + 15*time.Minute + 30*time.Second},
		{name: "single field", token: "42", wantErr: true},
		{name: "four fields", token: "1:2:3:4", wantErr: true},
		{name: "non-numeric field", token: "01:xx:00", wantErr: true},
		{name: "negative field", token: "-1:00:00", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "two durations", input: "01:30:00 00:45:00", want: "02:15:00"},
		{name: "two-field tokens zero-fill", input: "10:00 05:30", want: "15:30:00"},
		{name: "empty input", input: "", want: "00:00:00"},
		{name: "whitespace only", input: "  \n\t ", want: "00:00:00"},
		{name: "sum past midnight", input: "20:00:00 06:30:00", want: "26:30:00"},
		{name: "newline separated", input: "01:00:00\n02:00:00\n", want: "03:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := Sum(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Sum() error = %v", err)
			}
			if got := Format(total); got != tt.want {
				t.Errorf("Sum(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	t.Run("malformed token fails", func(t *testing.T) {
		if _, err := Sum(strings.NewReader("01:00:00 bogus")); err == nil {
			t.Fatal("Sum() expected error for malformed token")
		}
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{90 * time.Minute, "01:30:00"},
		{25*time.Hour + 5*time.Second, "25:00:05"},
	}

	for _, tt := range tests {
		if got := Format(tt.d); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
