package grid

import "github.com/javiermolinar/salon/internal/booking"

// TimeMajorRows returns one row per staff member, one column per slot.
func TimeMajorRows(l *Layout) [][]Cell {
	rows := make([][]Cell, len(l.cells))
	for i, row := range l.cells {
		rows[i] = append([]Cell(nil), row...)
	}
	return rows
}

// StaffMajorRows returns one row per slot, one column per staff member.
// Spans keep their meaning: a Start cell's Span now counts rows.
func StaffMajorRows(l *Layout) [][]Cell {
	rows := make([][]Cell, len(l.Slots))
	for j := range l.Slots {
		rows[j] = make([]Cell, len(l.cells))
		for i := range l.cells {
			rows[j][i] = l.cells[i][j]
		}
	}
	return rows
}

// Rows returns the cells in the configured orientation.
func (l *Layout) Rows() [][]Cell {
	if l.Config.Orientation == StaffMajor {
		return StaffMajorRows(l)
	}
	return TimeMajorRows(l)
}

// Dims returns the number of rows and columns in the configured orientation.
func (l *Layout) Dims() (rows, cols int) {
	if l.Config.Orientation == StaffMajor {
		return len(l.Slots), len(l.Staff)
	}
	return len(l.Staff), len(l.Slots)
}

// At returns the cell at (row, col) in the configured orientation.
func (l *Layout) At(row, col int) Cell {
	if l.Config.Orientation == StaffMajor {
		return l.cells[col][row]
	}
	return l.cells[row][col]
}

// Locate converts staff and slot indexes to (row, col) in the configured orientation.
func (l *Layout) Locate(staffIdx, slotIdx int) (row, col int) {
	if l.Config.Orientation == StaffMajor {
		return slotIdx, staffIdx
	}
	return staffIdx, slotIdx
}

// RowHeaders returns the labels of the primary axis.
func (l *Layout) RowHeaders() []string {
	if l.Config.Orientation == StaffMajor {
		return slotLabels(l.Slots)
	}
	return staffNames(l.Staff)
}

// ColumnHeaders returns the labels of the secondary axis.
func (l *Layout) ColumnHeaders() []string {
	if l.Config.Orientation == StaffMajor {
		return staffNames(l.Staff)
	}
	return slotLabels(l.Slots)
}

func slotLabels(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func staffNames(staff []*booking.StaffMember) []string {
	out := make([]string, len(staff))
	for i, s := range staff {
		out[i] = s.Name
	}
	return out
}
