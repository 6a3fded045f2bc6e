package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/grid"
)

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
	return json.Unmarshal([]byte(extractJSON(content)), result)
}

// Wednesday afternoon
var now = time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local)

func roster() []*booking.StaffMember {
	inactive := &booking.StaffMember{ID: "s-3", Name: "Noor", Status: booking.StaffInactive}
	return []*booking.StaffMember{
		{ID: "s-1", Name: "Ali", Role: "barber", Status: booking.StaffActive},
		{ID: "s-2", Name: "Sara", Role: "colorist", Status: booking.StaffActive},
		inactive,
	}
}

func draftRequest(text string) DraftRequest {
	return DraftRequest{
		Request:  text,
		Now:      now,
		Calendar: grid.DefaultConfig(now),
		Staff:    roster(),
		Appointments: []*booking.Appointment{
			{StaffName: "Ali", Date: now, StartTime: "10:00", Duration: "45 min", Status: booking.StatusScheduled},
			{StaffName: "Sara", Date: now, StartTime: "11:00", Duration: "30 min", Status: booking.StatusCancelled},
		},
	}
}

func TestDraft(t *testing.T) {
	client := &fakeClient{reply: "```json\n" + `{
		"staff": "sara",
		"date": "tomorrow",
		"start": "2:30 PM",
		"duration_minutes": 0,
		"customer": "Mia",
		"service": "Balayage",
		"warnings": ["no phone number given"]
	}` + "\n```"}

	draft, err := NewAssistant(client).Draft(context.Background(), draftRequest("Mia wants balayage with Sara tomorrow at 2:30pm"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Staff != "Sara" || draft.staffID != "s-2" {
		t.Errorf("staff = %q (%s), want Sara (s-2)", draft.Staff, draft.staffID)
	}
	if draft.Date != "2025-03-13" {
		t.Errorf("date = %s, want 2025-03-13", draft.Date)
	}
	if draft.Start != "14:30" {
		t.Errorf("start = %s, want 14:30", draft.Start)
	}
	if draft.DurationMinutes != booking.DefaultDurationMinutes {
		t.Errorf("duration = %d, want default", draft.DurationMinutes)
	}
	if len(draft.Warnings) != 1 {
		t.Errorf("warnings = %v", draft.Warnings)
	}
	if got := draft.Summary(); got != "2025-03-13 · 14:30-15:00 · Sara · Balayage · for Mia" {
		t.Errorf("Summary() = %q", got)
	}

	system := client.messages[0].Content
	for _, want := range []string{"Ali (barber)", "Sara (colorist)", "Ali 10:00-10:45", "09:00 to 18:00", "every 30 minutes"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(system, "Noor") {
		t.Error("inactive staff must not be offered")
	}
	if strings.Contains(system, "Sara 11:00") {
		t.Error("cancelled bookings must not be listed as taken")
	}
	if client.messages[1].Role != RoleUser {
		t.Errorf("second message role = %s", client.messages[1].Role)
	}
}

func TestDraft_Errors(t *testing.T) {
	tests := []struct {
		name    string
		request string
		reply   string
		err     error
		wantErr error
	}{
		{name: "empty request", request: "  ", wantErr: ErrEmptyRequest},
		{name: "unknown staff", request: "x", reply: `{"staff":"Bob","date":"today","start":"10:00"}`, wantErr: ErrUnknownStaff},
		{name: "inactive staff", request: "x", reply: `{"staff":"Noor","date":"today","start":"10:00"}`, wantErr: ErrUnknownStaff},
		{name: "bad start", request: "x", reply: `{"staff":"Ali","date":"today","start":"noonish"}`, wantErr: booking.ErrInvalidTime},
		{name: "missing staff", request: "x", reply: `{"date":"today","start":"10:00"}`, wantErr: ErrInvalidDraft},
		{name: "missing start", request: "x", reply: `{"staff":"Ali","date":"today"}`, wantErr: ErrInvalidDraft},
		{name: "negative duration", request: "x", reply: `{"staff":"Ali","start":"10:00","duration_minutes":-30}`, wantErr: ErrInvalidDraft},
		{name: "all day", request: "x", reply: `{"staff":"Ali","start":"10:00","duration_minutes":1440}`, wantErr: ErrInvalidDraft},
		{name: "client failure", request: "x", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{reply: tt.reply, err: tt.err}
			_, err := NewAssistant(client).Draft(context.Background(), draftRequest(tt.request))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDraftAppointment(t *testing.T) {
	d := &BookingDraft{
		Staff: "Ali", Date: "2025-03-12", Start: "09:30", DurationMinutes: 45,
		Customer: "Leo", Service: "Fade", Phone: "555", Notes: "first visit",
		staffID: "s-1",
	}
	a, err := d.Appointment("Main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StaffID != "s-1" || a.Duration != "45 min" || a.Branch != "Main" || a.CustomerName != "Leo" {
		t.Errorf("unexpected appointment %+v", a)
	}
	if a.Status != booking.StatusScheduled {
		t.Errorf("status = %s", a.Status)
	}
}

func TestCheckDraft(t *testing.T) {
	staff := roster()
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	cancelled := &booking.Appointment{ID: 2, StaffName: "Sara", Date: day, StartTime: "11:00", Duration: "30 min", Status: booking.StatusCancelled}
	appts := []*booking.Appointment{
		{ID: 1, StaffName: "Ali", Date: day, StartTime: "10:00", Duration: "60 min", Status: booking.StatusScheduled, CustomerName: "Kim"},
		cancelled,
	}
	l := grid.Build(grid.DefaultConfig(day).ToggleHidden(13), appts, staff)

	draft := func(staff, start string, minutes int) *BookingDraft {
		return &BookingDraft{Staff: staff, Date: "2025-03-12", Start: start, DurationMinutes: minutes}
	}

	tests := []struct {
		name    string
		draft   *BookingDraft
		wantErr error
	}{
		{"free slot", draft("Ali", "09:00", 60), nil},
		{"over a cancelled booking", draft("Sara", "11:00", 30), nil},
		{"runs into a booking", draft("Ali", "09:30", 60), booking.ErrSlotTaken},
		{"misaligned start inside booking", draft("Ali", "10:45", 15), booking.ErrSlotTaken},
		{"unknown staff", draft("Noor", "09:00", 30), ErrUnknownStaff},
		{"before opening", draft("Ali", "08:00", 30), ErrOutsideHours},
		{"hidden hour", draft("Ali", "13:15", 30), ErrOutsideHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDraft(l, tt.draft)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("conflict names the cell", func(t *testing.T) {
		err := CheckDraft(l, draft("Ali", "09:30", 60))
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("expected ConflictError, got %v", err)
		}
		if conflict.Cell.Slot.Label != "10:00" || !strings.Contains(err.Error(), "Kim") {
			t.Errorf("unexpected conflict %v", err)
		}
	})

	t.Run("wrong day", func(t *testing.T) {
		d := draft("Ali", "09:00", 30)
		d.Date = "2025-03-13"
		if err := CheckDraft(l, d); err == nil {
			t.Error("expected error for mismatched day")
		}
	})
}
