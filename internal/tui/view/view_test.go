package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/grid"
)

func TestRenderTableIncludesHeader(t *testing.T) {
	state := TableViewState{
		InnerW:       30,
		GridH:        6,
		Headers:      []string{"", "09:00"},
		HeaderStyles: []lipgloss.Style{lipgloss.NewStyle(), lipgloss.NewStyle()},
		Content: TableContent{
			Rows:       [][]string{{"Ali", "Kim"}},
			CellStyles: [][]lipgloss.Style{{lipgloss.NewStyle(), lipgloss.NewStyle()}},
		},
		BorderStyle: lipgloss.NewStyle(),
		VAlign:      lipgloss.Top,
		Render:      true,
	}

	out := RenderTable(state)
	for _, want := range []string{"09:00", "Ali", "Kim"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %q", want, out)
		}
	}
	if got := len(strings.Split(out, "\n")); got != state.GridH {
		t.Errorf("rendered %d lines, want %d", got, state.GridH)
	}

	state.Render = false
	if out := RenderTable(state); out != "" {
		t.Errorf("RenderTable with Render=false = %q, want empty", out)
	}
}

func TestCellText(t *testing.T) {
	appt := &booking.Appointment{ID: 4, CustomerName: "Kim", ServiceName: "Fade"}

	tests := []struct {
		name  string
		cell  grid.Cell
		width int
		want  string
	}{
		{"start", grid.Cell{Kind: grid.Start, Appointment: appt, Span: 2}, 20, "Kim · Fade"},
		{"clipped", grid.Cell{Kind: grid.Start, Appointment: appt, Clipped: true}, 20, ClippedMark + "Kim · Fade"},
		{"continuation", grid.Cell{Kind: grid.Continuation, Appointment: appt}, 20, ContinuationMark},
		{"empty", grid.Cell{Kind: grid.Empty}, 20, EmptyMark},
		{"cut", grid.Cell{Kind: grid.Start, Appointment: appt}, 5, "Kim …"},
		{"no room", grid.Cell{Kind: grid.Start, Appointment: appt}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellText(tt.cell, tt.width); got != tt.want {
				t.Errorf("CellText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Balayage", 20, "Balayage"},
		{"Balayage", 4, "Bal…"},
		{"Balayage", 1, "B"},
		{"Balayage", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestDayTitle(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	if got := DayTitle("Main", day, day.Add(10*time.Hour)); got != "Main · *Wed Mar 12 2025*" {
		t.Errorf("DayTitle(today) = %q", got)
	}
	if got := DayTitle("", day, day.AddDate(0, 0, 1)); got != "Wed Mar 12 2025" {
		t.Errorf("DayTitle(other day) = %q", got)
	}
}

func TestRenderFooterHeight(t *testing.T) {
	out := RenderFooter(FooterViewState{
		InnerW:     20,
		LegendText: "legend",
		StatusText: "a very long status line that does not fit",
		HelpText:   "q quit",
	})
	lines := strings.Split(out, "\n")
	if len(lines) != FooterHeight {
		t.Fatalf("footer has %d lines, want %d", len(lines), FooterHeight)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 20 {
			t.Errorf("line %d is %d wide, want <= 20", i, w)
		}
	}
}

func TestRenderModalOverlayCentersModal(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	out := RenderModalOverlay(base, "XX\nXX", 10, 5, lipgloss.Color(""))
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if !strings.Contains(lines[1], "XX") || !strings.Contains(lines[2], "XX") {
		t.Errorf("modal not centered: %q", out)
	}
	if strings.Contains(lines[0], "X") || strings.Contains(lines[4], "X") {
		t.Errorf("modal leaked outside its rows: %q", out)
	}
	if RenderModalOverlay(base, "", 10, 5, "") != base {
		t.Error("empty modal must leave base untouched")
	}
}

func TestRenderModalButtons_UsesBodySeparator(t *testing.T) {
	styles := ModalStyles{
		Body:         lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Button:       lipgloss.NewStyle(),
		ButtonActive: lipgloss.NewStyle(),
	}

	out := RenderModalButtons(styles, 0, "[Enter] Save", "[Esc] Cancel")
	if !strings.Contains(out, styles.Body.Render(" ")) {
		t.Fatalf("expected modal button separator to use modal body style")
	}
}

func TestRenderFieldsSkipsEmpty(t *testing.T) {
	out := RenderFields(ModalStyles{}, Field{"Customer", "Kim"}, Field{"Phone", ""}, Field{"Service", "Fade"})
	if strings.Contains(out, "Phone") {
		t.Errorf("empty field rendered: %q", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}
