package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/noah-isme/schedule-sync/internal/grid"
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/pkg/export"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	timeStyle   = cellStyle.Foreground(lipgloss.Color("244"))
	currentWeek = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// renderWeeks writes both weeks of a timetable as terminal tables. The current teaching week,
// when known, is marked in its title.
func renderWeeks(w io.Writer, name string, schedule models.Schedule, week *int) error {
	weeks := grid.FromSchedule(schedule)
	for i, g := range weeks {
		title := fmt.Sprintf("%s, week %d", name, i+1)
		if week != nil && *week == i {
			title += currentWeek.Render(" (current)")
		}
		if err := renderDataset(w, grid.Dataset(title, g, grid.LessonLabel)); err != nil {
			return err
		}
	}
	return nil
}

func renderDataset(w io.Writer, ds export.Dataset) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(ds.Headers...).
		Rows(ds.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return timeStyle
			default:
				return cellStyle
			}
		})

	if _, err := fmt.Fprintln(w, titleStyle.Render(ds.Title)); err != nil {
		return err
	}
	if len(ds.Rows) == 0 {
		_, err := fmt.Fprintln(w, "no lessons")
		return err
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
