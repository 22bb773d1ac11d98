package grid

import (
	"fmt"
	"strings"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/pkg/export"
)

// Weeks holds one grid per teaching week.
type Weeks[T any] [2]Grid[T]

type placedLesson struct {
	lesson models.Lesson
	day    int
}

// FromSchedule builds the grids of both weeks of an external timetable. A day whose name is not
// recognised takes the column of its position in the week.
func FromSchedule(s models.Schedule) Weeks[models.Lesson] {
	return Weeks[models.Lesson]{weekOf(s.WeekOne), weekOf(s.WeekTwo)}
}

func weekOf(days []models.DaySchedule) Grid[models.Lesson] {
	var placed []placedLesson
	for pos, day := range days {
		idx, ok := DayIndex(day.Day)
		if !ok {
			idx = pos
		}
		for _, l := range day.Lessons {
			placed = append(placed, placedLesson{lesson: l, day: idx})
		}
	}

	g := Build(placed, func(p placedLesson) (string, int) { return p.lesson.Time, p.day })
	out := Grid[models.Lesson]{Rows: make([]Row[models.Lesson], len(g.Rows))}
	for i, r := range g.Rows {
		out.Rows[i].Time = r.Time
		for d, cell := range r.Days {
			out.Rows[i].Days[d] = make([]models.Lesson, len(cell))
			for j, p := range cell {
				out.Rows[i].Days[d][j] = p.lesson
			}
		}
	}
	for _, p := range g.Skipped {
		out.Skipped = append(out.Skipped, p.lesson)
	}
	return out
}

// FromSubjectSchedules splits personal entries by week (0 or 1) and builds both grids. Entries
// of any other week are reported as skipped in the first grid.
func FromSubjectSchedules(entries []models.SubjectSchedule) Weeks[models.SubjectSchedule] {
	var byWeek [2][]models.SubjectSchedule
	var stray []models.SubjectSchedule
	for _, e := range entries {
		if e.Week != 0 && e.Week != 1 {
			stray = append(stray, e)
			continue
		}
		byWeek[e.Week] = append(byWeek[e.Week], e)
	}

	slot := func(e models.SubjectSchedule) (string, int) {
		day, ok := DayIndex(e.Day)
		if !ok {
			return e.Time, -1
		}
		return e.Time, day
	}
	weeks := Weeks[models.SubjectSchedule]{Build(byWeek[0], slot), Build(byWeek[1], slot)}
	weeks[0].Skipped = append(weeks[0].Skipped, stray...)
	return weeks
}

// LessonLabel renders a lesson cell entry.
func LessonLabel(l models.Lesson) string {
	parts := []string{l.Name}
	if l.Type != "" {
		parts[0] = fmt.Sprintf("%s (%s)", l.Name, l.Type)
	}
	if l.Place != "" {
		parts = append(parts, l.Place)
	}
	if l.TeacherName != "" {
		parts = append(parts, l.TeacherName)
	}
	return strings.Join(parts, "\n")
}

// SubjectScheduleLabel renders a personal schedule cell entry.
func SubjectScheduleLabel(s models.SubjectSchedule) string {
	parts := []string{s.Subject.Name}
	if s.LessonType != "" {
		parts[0] = fmt.Sprintf("%s (%s)", s.Subject.Name, s.LessonType)
	}
	if s.Location != "" {
		parts = append(parts, s.Location)
	}
	if s.Teacher.Name != "" {
		parts = append(parts, s.Teacher.Name)
	}
	return strings.Join(parts, "\n")
}

// Dataset flattens a grid into an export table: a time column followed by one column per day.
// Entries sharing a cell are separated by a blank line.
func Dataset[T any](title string, g Grid[T], label func(T) string) export.Dataset {
	headers := append([]string{"Час"}, DayNames[:]...)
	rows := make([][]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		row := make([]string, 0, len(headers))
		row = append(row, r.Time)
		for _, cell := range r.Days {
			labels := make([]string, len(cell))
			for i, entry := range cell {
				labels[i] = label(entry)
			}
			row = append(row, strings.Join(labels, "\n\n"))
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: title, Headers: headers, Rows: rows}
}
