package terminal

import "testing"

func TestParseWidth(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"120", 120},
		{" 100 ", 100},
		{"", DefaultWidth},
		{"wide", DefaultWidth},
		{"5", DefaultWidth},
	}

	for _, tt := range tests {
		if got := parseWidth(tt.value); got != tt.want {
			t.Errorf("parseWidth(%q): Expected %d, got %d", tt.value, tt.want, got)
		}
	}
}

func TestWidthFromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "132")
	if got := Width(); got != 132 {
		t.Errorf("Expected 132, got %d", got)
	}
}
