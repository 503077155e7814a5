package medusa

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders the registered targets as a text table, one row per
// target in insertion order, and returns the error of writing it to w.
func (m *Manager) WriteTable(w io.Writer) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "State", "Mode", "Elements", "Thresholds", "Margin", "Global"})
	for _, id := range m.reg.ids() {
		tg := m.reg.get(id)
		t.AppendRow(table.Row{
			tg.id,
			tg.state,
			tg.mode,
			len(tg.elements),
			formatThresholds(tg.thresholds),
			tg.rootMargin,
			tg.emitGlobal,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", m.reg.len()})
	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

// formatThresholds abbreviates long threshold sets.
func formatThresholds(ts []float64) string {
	const maxShown = 4
	if len(ts) > maxShown {
		return fmt.Sprintf("%g..%g (%d)", ts[0], ts[len(ts)-1], len(ts))
	}
	parts := make([]string, len(ts))
	for i, v := range ts {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}
