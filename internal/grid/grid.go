// Package grid arranges timetable entries into (time, day) cells for display and export.
package grid

import (
	"slices"
	"strings"
)

// DayCount is the number of teaching days in a week, Monday to Saturday.
const DayCount = 6

// DayNames are the column headers, in the short form used by the timetable API.
var DayNames = [DayCount]string{"Пн", "Вв", "Ср", "Чт", "Пт", "Сб"}

var dayIndex = map[string]int{
	"пн": 0, "mon": 0, "monday": 0,
	"вв": 1, "вт": 1, "tue": 1, "tuesday": 1,
	"ср": 2, "wed": 2, "wednesday": 2,
	"чт": 3, "thu": 3, "thursday": 3,
	"пт": 4, "fri": 4, "friday": 4,
	"сб": 5, "sat": 5, "saturday": 5,
}

// DayIndex resolves a day name to its column. Names are matched case-insensitively.
func DayIndex(name string) (int, bool) {
	i, ok := dayIndex[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// NormalizeTime left-pads a time to five characters with zeros ("9:00" becomes "09:00"), which
// makes lexicographic order chronological for times between 0:00 and 23:59.
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)
	if n := len(t); n < 5 {
		return strings.Repeat("0", 5-n) + t
	}
	return t
}

// Row holds the entries of one time slot, one cell per day.
type Row[T any] struct {
	Time string        `json:"time"`
	Days [DayCount][]T `json:"days"`
}

// Grid is the derived read-model. It is rebuilt from its source and never persisted.
type Grid[T any] struct {
	Rows    []Row[T] `json:"rows"`
	Skipped []T      `json:"skipped,omitempty"`
}

// Build places every item in the cell of its normalized time and day. Rows are sorted by time,
// entries keep their input order within a cell, and items whose day falls outside the week are
// returned in Skipped.
func Build[T any](items []T, slot func(T) (time string, day int)) Grid[T] {
	rowOf := map[string]int{}
	var times []string
	for _, item := range items {
		t, day := slot(item)
		if day < 0 || day >= DayCount {
			continue
		}
		t = NormalizeTime(t)
		if _, ok := rowOf[t]; !ok {
			rowOf[t] = 0
			times = append(times, t)
		}
	}
	slices.Sort(times)

	g := Grid[T]{Rows: make([]Row[T], len(times))}
	for i, t := range times {
		rowOf[t] = i
		g.Rows[i].Time = t
		for d := range g.Rows[i].Days {
			g.Rows[i].Days[d] = []T{}
		}
	}

	for _, item := range items {
		t, day := slot(item)
		if day < 0 || day >= DayCount {
			g.Skipped = append(g.Skipped, item)
			continue
		}
		row := &g.Rows[rowOf[NormalizeTime(t)]]
		row.Days[day] = append(row.Days[day], item)
	}
	return g
}

// Cell returns the entries at time and day, or nil when the slot does not exist.
func (g Grid[T]) Cell(time string, day int) []T {
	if day < 0 || day >= DayCount {
		return nil
	}
	time = NormalizeTime(time)
	i, found := slices.BinarySearchFunc(g.Rows, time, func(r Row[T], t string) int { return strings.Compare(r.Time, t) })
	if !found {
		return nil
	}
	return g.Rows[i].Days[day]
}

// Times lists the row times in order.
func (g Grid[T]) Times() []string {
	out := make([]string, len(g.Rows))
	for i, r := range g.Rows {
		out[i] = r.Time
	}
	return out
}

// Count returns the number of placed entries.
func (g Grid[T]) Count() int {
	n := 0
	for _, r := range g.Rows {
		for _, cell := range r.Days {
			n += len(cell)
		}
	}
	return n
}
