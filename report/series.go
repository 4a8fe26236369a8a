package report

import (
	"slices"
	"time"

	"desigo/bms"
)

// Site-level counts for one sample time
type TotalsRow struct {
	Time        time.Time
	TotalCount  int
	TotalPanels int
}

// Sums total and panel counts of the entries sharing the same time
func Totals(entries []Entry) []TotalsRow {
	var rows []TotalsRow
	for _, e := range entries {
		if n := len(rows); n > 0 && rows[n-1].Time.Equal(e.Time) {
			rows[n-1].TotalCount += e.TotalCount
			rows[n-1].TotalPanels += e.TotalPanels
			continue
		}
		rows = append(rows, TotalsRow{Time: e.Time, TotalCount: e.TotalCount, TotalPanels: e.TotalPanels})
	}
	return rows
}

// Wide table of panel counts indexed by sample time
type PanelTable struct {
	Panels []string
	Times  []time.Time
	// Counts[i][j] is the count of Panels[j] at Times[i]
	Counts [][]int
}

// Column of a single panel, zero where the panel had no points
func (t *PanelTable) Column(panel string) []int {
	j := slices.Index(t.Panels, panel)
	if j < 0 {
		return nil
	}

	column := make([]int, len(t.Times))
	for i := range t.Times {
		column[i] = t.Counts[i][j]
	}
	return column
}

// Reshapes the panel counts of sorted entries into a wide table.
// Entries with the same time are summed, panels missing from a sample count as zero.
func Panels(entries []Entry) *PanelTable {
	table := &PanelTable{}

	index := make(map[string]int)
	for _, e := range entries {
		for panel := range e.PanelCounts {
			if _, ok := index[panel]; !ok {
				index[panel] = 0
				table.Panels = append(table.Panels, panel)
			}
		}
	}

	slices.Sort(table.Panels)
	for j, panel := range table.Panels {
		index[panel] = j
	}

	for _, e := range entries {
		n := len(table.Times)
		if n == 0 || !table.Times[n-1].Equal(e.Time) {
			table.Times = append(table.Times, e.Time)
			table.Counts = append(table.Counts, make([]int, len(table.Panels)))
			n++
		}

		row := table.Counts[n-1]
		for panel, count := range e.PanelCounts {
			row[index[panel]] += count
		}
	}

	return table
}

// Totals of every report type for one sample time
type OverviewRow struct {
	Time   time.Time
	Counts map[bms.ReportType]int
}

// Pivots the entries of all report types into one row per sample time
func Overview(entries []Entry) []OverviewRow {
	var rows []OverviewRow
	for _, e := range entries {
		n := len(rows)
		if n == 0 || !rows[n-1].Time.Equal(e.Time) {
			rows = append(rows, OverviewRow{Time: e.Time, Counts: make(map[bms.ReportType]int)})
			n++
		}
		rows[n-1].Counts[e.ReportType] += e.TotalCount
	}
	return rows
}

type MonthGroup struct {
	Month   string // YYYY-MM
	Entries []Entry
}

// Groups sorted entries by calendar month
func ByMonth(entries []Entry) []MonthGroup {
	var groups []MonthGroup
	for _, e := range entries {
		month := e.Time.Format("2006-01")
		if n := len(groups); n > 0 && groups[n-1].Month == month {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, MonthGroup{Month: month, Entries: []Entry{e}})
	}
	return groups
}
