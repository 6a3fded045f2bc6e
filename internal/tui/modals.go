package tui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/tui/view"
)

func (m Model) renderModal() string {
	switch m.modalType {
	case ModalDetail:
		return m.renderDetailModal()
	case ModalBookingForm:
		return m.renderFormModal()
	case ModalDraft:
		return m.renderDraftModal()
	default:
		return ""
	}
}

func (m Model) renderDetailModal() string {
	a := m.detail
	if a == nil {
		return ""
	}
	s := m.styles.Modal

	body := view.RenderFields(s,
		view.Field{Label: "Customer", Value: a.CustomerName},
		view.Field{Label: "Service", Value: a.ServiceName},
		view.Field{Label: "Staff", Value: a.StaffName},
		view.Field{Label: "When", Value: a.Date.Format("Mon Jan 2") + " " + a.TimeRange()},
		view.Field{Label: "Duration", Value: booking.HumanDuration(a.DurationMinutes())},
		view.Field{Label: "Phone", Value: a.Phone},
		view.Field{Label: "Notes", Value: a.Notes},
		view.Field{Label: "Branch", Value: a.Branch},
	)
	body += "\n\n" + s.Label.Render("Status  ") + m.styles.StatusBadge(a.Status)

	labels := make([]string, len(booking.Statuses))
	active := -1
	for i, st := range booking.Statuses {
		labels[i] = fmt.Sprintf("%d %s", i+1, st.Label())
		if st == a.Status {
			active = i
		}
	}
	// Two rows keep the modal narrow.
	half := (len(labels) + 1) / 2
	picker := view.RenderModalButtons(s, active, labels[:half]...) + "\n" +
		view.RenderModalButtons(s, active-half, labels[half:]...)

	title := fmt.Sprintf("Appointment #%d", a.ID)
	return view.RenderModalFrame(title, body+"\n\n"+picker, "1-7 set status · esc close", s)
}

func (m Model) renderFormModal() string {
	f := m.form
	if f.staff == nil {
		return ""
	}
	s := m.styles.Modal

	var b strings.Builder
	b.WriteString(s.Muted.Render(fmt.Sprintf("%s · %s · %s", f.staff.Name, f.date.Format("Mon Jan 2"), f.slot.Label)))
	for i, in := range f.inputs {
		label := m.styles.InputBlurred
		if i == f.focus {
			label = m.styles.InputFocused
		}
		b.WriteString("\n\n")
		b.WriteString(label.Render(formLabels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
	}

	return view.RenderModalFrame("New booking", b.String(), "tab next · enter save · esc cancel", s)
}

func (m Model) renderDraftModal() string {
	d := m.draft
	if d == nil {
		return ""
	}
	s := m.styles.Modal

	body := view.RenderFields(s,
		view.Field{Label: "Customer", Value: d.Customer},
		view.Field{Label: "Service", Value: d.Service},
		view.Field{Label: "Staff", Value: d.Staff},
		view.Field{Label: "Date", Value: d.Date},
		view.Field{Label: "Start", Value: d.Start},
		view.Field{Label: "Duration", Value: booking.HumanDuration(d.DurationMinutes)},
		view.Field{Label: "Phone", Value: d.Phone},
		view.Field{Label: "Notes", Value: d.Notes},
	)
	for _, w := range d.Warnings {
		body += "\n" + m.styles.WarningStyle.Render("! "+w)
	}

	footer := "enter book · esc discard"
	if m.draftErr != nil {
		body += "\n\n" + m.styles.WarningStyle.Render(m.draftErr.Error())
		footer = "esc discard"
	}
	return view.RenderModalFrame("Booking draft", body, footer, s)
}
