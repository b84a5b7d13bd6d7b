package table

import (
	"fmt"
	"strconv"
)

// Formatter rewrites a raw cell value for display. The full row is
// available for formatters that combine fields.
type Formatter func(value string, row Row) string

// Column is one declarative column definition. Hidden columns stay in
// the config but are excluded from rendered snapshots.
type Column struct {
	ID        string
	Label     string
	Align     string
	Visible   bool
	Formatter Formatter
}

// formatters is the registry of named cell formatters. Column configs
// reference these by name and are resolved at validation time, so an
// unknown name fails during setup instead of rendering blank.
var formatters = map[string]Formatter{
	"signal": func(value string, _ Row) string {
		db, err := strconv.Atoi(value)
		if err != nil || db <= -999 {
			return "N/A"
		}
		return fmt.Sprintf("%d dB", db)
	},
	"distance": func(value string, _ Row) string {
		km, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "?"
		}
		return strconv.Itoa(int(km + 0.5))
	},
	"db": func(value string, _ Row) string {
		if _, err := strconv.Atoi(value); err != nil {
			return "?"
		}
		return value
	},
	"frequency": func(value string, _ Row) string {
		mhz, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		return strconv.FormatFloat(mhz, 'f', 3, 64)
	},
	"stars": func(value string, _ Row) string {
		return value
	},
}

// ResolveFormatter looks a formatter up by name. The empty name means
// raw pass-through.
func ResolveFormatter(name string) (Formatter, error) {
	if name == "" {
		return nil, nil
	}
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown column formatter %q", name)
	}
	return f, nil
}

// FormatterNames lists the registered formatter names, for error text.
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	return names
}

// Snapshot is a read-only view of the table for a render surface.
type Snapshot struct {
	State      State      `json:"state"`
	Error      string     `json:"error,omitempty"`
	PageIndex  int        `json:"pageIndex"`
	TotalPages int        `json:"totalPages"`
	PageSize   int        `json:"pageSize"`
	RowCount   int        `json:"rowCount"`
	Columns    []string   `json:"columns"`
	Labels     []string   `json:"labels"`
	Aligns     []string   `json:"aligns"`
	Cells      [][]string `json:"cells"`
	AutoCycle  bool       `json:"autoCycle"`
}

// Snapshot returns the current page rendered through the visible
// columns' formatters.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() Snapshot {
	snap := Snapshot{
		Error:      t.errMsg,
		PageIndex:  t.pageIndex,
		TotalPages: t.totalPagesLocked(),
		PageSize:   t.pageSize,
		RowCount:   len(t.rows),
		AutoCycle:  t.ticker != nil,
	}

	switch {
	case t.loading:
		snap.State = StateLoading
	case t.errMsg != "":
		snap.State = StateError
	case len(t.rows) == 0:
		snap.State = StateEmpty
	default:
		snap.State = StateReady
	}

	var visible []Column
	for _, col := range t.columns {
		if col.Visible {
			visible = append(visible, col)
		}
	}
	for _, col := range visible {
		snap.Columns = append(snap.Columns, col.ID)
		snap.Labels = append(snap.Labels, col.Label)
		snap.Aligns = append(snap.Aligns, col.Align)
	}

	if snap.State != StateReady {
		return snap
	}

	start := t.pageIndex * t.pageSize
	end := start + t.pageSize
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for _, row := range t.rows[start:end] {
		cells := make([]string, 0, len(visible))
		for _, col := range visible {
			value := row[col.ID]
			if col.Formatter != nil {
				value = col.Formatter(value, row)
			}
			cells = append(cells, value)
		}
		snap.Cells = append(snap.Cells, cells)
	}
	return snap
}
