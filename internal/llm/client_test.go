package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"staff": "Ali"}`,
			expected: `{"staff": "Ali"}`,
		},
		{
			name:     "json with leading text",
			input:    `Sure! {"staff": "Ali", "start": "10:00"} hope that helps`,
			expected: `{"staff": "Ali", "start": "10:00"}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"staff\": \"Ali\"}\n```",
			expected: `{"staff": "Ali"}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"staff\": \"Ali\"}\n```",
			expected: `{"staff": "Ali"}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "braces inside strings",
			input:    `{"notes": "likes {curly} fringe", "staff": "Sara"} trailing }`,
			expected: `{"notes": "likes {curly} fringe", "staff": "Sara"}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `{"notes": "say \"hi}\""}`,
			expected: `{"notes": "say \"hi}\""}`,
		},
		{
			name:     "no json",
			input:    "I cannot help with that",
			expected: "I cannot help with that",
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

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Staff string `json:"staff"`
	}
	if err := decodeJSON("```json\n{\"staff\":\"Noor\"}\n```", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Staff != "Noor" {
		t.Errorf("Staff = %q, want Noor", out.Staff)
	}
	if err := decodeJSON("not json", &out); err == nil {
		t.Error("expected error")
	}
}
