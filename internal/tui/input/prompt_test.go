package input

import (
	"errors"
	"testing"
)

func TestPromptMatchingCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "no_slash", input: "book", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "slash", input: "/", want: len(Commands)},
		{name: "full", input: "/book", want: 1},
		{name: "prefix", input: "/s", want: 1},
		{name: "upper", input: "/GO", want: 1},
		{name: "with_space", input: "/book x", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromptMatchingCommands(tt.input, Commands)
			if len(got) != tt.want {
				t.Fatalf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPromptAutocomplete(t *testing.T) {
	value, ok := PromptAutocomplete("/g", Commands)
	if !ok {
		t.Fatal("expected autocomplete")
	}
	if value != "/goto " {
		t.Fatalf("value = %q, want %q", value, "/goto ")
	}

	if _, ok := PromptAutocomplete("/x", Commands); ok {
		t.Error("unexpected autocomplete for /x")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantArgs string
		wantErr  error
	}{
		{"/book Mia, balayage with Sara at 3pm", "/book", "Mia, balayage with Sara at 3pm", nil},
		{"  /GOTO   tomorrow ", "/goto", "tomorrow", nil},
		{"/staff all", "/staff", "all", nil},
		{"/book", "", "", ErrMissingArgs},
		{"/plan x", "", "", ErrUnknownCommand},
		{"book x", "", "", ErrNotCommand},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, args, err := Parse(tt.line, Commands)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) err = %v, want %v", tt.line, err, tt.wantErr)
			}
			if name != tt.wantName || args != tt.wantArgs {
				t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.line, name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}
