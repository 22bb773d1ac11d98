package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/schedule-sync/internal/app"
	"github.com/noah-isme/schedule-sync/internal/grid"
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/service"
	"github.com/noah-isme/schedule-sync/internal/state"
)

var (
	refreshDirectory bool
	showGrid         bool
	showTable        bool
	exportKind       string
	exportFormat     string
	exportWeek       int
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return s.Groups.Groups, s.Groups.Error
		}, state.GroupsFetchRequested{})
	},
}

var teachersCmd = &cobra.Command{
	Use:   "teachers",
	Short: "List teachers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return s.Teachers.Teachers, s.Teachers.Error
		}, state.TeachersFetchRequested{})
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Load a group or teacher timetable",
}

var scheduleGroupCmd = &cobra.Command{
	Use:   "group [group-id]",
	Short: "Load and remember a group timetable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return scheduleView("Group "+args[0], s.Schedule.GroupSchedule, s.Schedule.Week), s.Schedule.Error
		}, state.GroupScheduleRequested{GroupID: args[0]})
	},
}

var scheduleTeacherCmd = &cobra.Command{
	Use:   "teacher [teacher-id]",
	Short: "Load and remember a teacher timetable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return scheduleView("Teacher "+args[0], s.Schedule.TeacherSchedule, s.Schedule.Week), s.Schedule.Error
		}, state.TeacherScheduleRequested{TeacherID: args[0]})
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions [group-id]",
	Short: "List the exam sessions of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return s.ExamSessions.Sessions, s.ExamSessions.Error
		}, state.ExamSessionsRequested{GroupID: args[0]})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render one week of a timetable to CSV or PDF",
	Long: `Restores the session, waits for the remembered schedules and the personal subject
schedule, then renders the selected week into the export directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			runCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			s, err := a.Run(runCtx, state.AppStarted{})
			if err != nil {
				return fmt.Errorf("wait for workflows: %w", err)
			}
			res, err := a.Exports.Export(runCtx, s, service.ExportRequest{
				Kind:   exportKind,
				Format: exportFormat,
				Week:   exportWeek,
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), outputFormat, res)
		})
	},
}

type scheduleResult struct {
	Week     *int                       `json:"week,omitempty"`
	Schedule *models.Schedule           `json:"schedule,omitempty"`
	Grid     *grid.Weeks[models.Lesson] `json:"grid,omitempty"`

	name   string
	source *models.Schedule
}

func (r scheduleResult) writeTable(w io.Writer) error {
	if r.source == nil {
		_, err := fmt.Fprintln(w, "no schedule loaded")
		return err
	}
	return renderWeeks(w, r.name, *r.source, r.Week)
}

func scheduleView(name string, schedule *models.Schedule, week *int) scheduleResult {
	res := scheduleResult{Week: week, name: name, source: schedule}
	if schedule == nil {
		return res
	}
	if showGrid {
		weeks := grid.FromSchedule(*schedule)
		res.Grid = &weeks
		return res
	}
	res.Schedule = schedule
	return res
}

func init() {
	groupsCmd.Flags().BoolVar(&refreshDirectory, "refresh", false, "Drop cached directory entries before fetching")
	teachersCmd.Flags().BoolVar(&refreshDirectory, "refresh", false, "Drop cached directory entries before fetching")
	scheduleCmd.PersistentFlags().BoolVar(&showGrid, "grid", false, "Print the timetable arranged by time and day")
	scheduleCmd.PersistentFlags().BoolVar(&showTable, "table", false, "Draw both weeks as terminal tables instead of --output")
	scheduleCmd.AddCommand(scheduleGroupCmd)
	scheduleCmd.AddCommand(scheduleTeacherCmd)

	exportCmd.Flags().StringVar(&exportKind, "kind", service.ExportKindGroup, "group, teacher or personal")
	exportCmd.Flags().StringVar(&exportFormat, "format", service.ExportFormatCSV, "csv or pdf")
	exportCmd.Flags().IntVar(&exportWeek, "week", 0, "Week index, 0 or 1")
}
