package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-sync/internal/dto"
	"github.com/noah-isme/schedule-sync/internal/grid"
	"github.com/noah-isme/schedule-sync/internal/service"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
	"github.com/noah-isme/schedule-sync/pkg/response"
)

type scheduleExporter interface {
	Export(ctx context.Context, snapshot state.RootState, req service.ExportRequest) (*service.ExportResult, error)
	Delete(filename string) error
}

// ScheduleHandler drives the directory, schedule, editor and exam session slices and serves
// the grid read-model.
type ScheduleHandler struct {
	*Bridge
	exporter scheduleExporter
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(b *Bridge, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{Bridge: b, exporter: exporter}
}

// GridView is the payload of GET /schedule/grid.
type GridView struct {
	Kind        string      `json:"kind"`
	CurrentWeek *int        `json:"currentWeek,omitempty"`
	Weeks       interface{} `json:"weeks"`
}

// FetchGroups godoc
// @Summary Refresh the group list
// @Tags Directory
// @Produce json
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /groups/fetch [post]
func (h *ScheduleHandler) FetchGroups(c *gin.Context) {
	h.trigger(c, state.GroupsFetchRequested{})
}

// FetchTeachers godoc
// @Summary Refresh the teacher list
// @Tags Directory
// @Produce json
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /teachers/fetch [post]
func (h *ScheduleHandler) FetchTeachers(c *gin.Context) {
	h.trigger(c, state.TeachersFetchRequested{})
}

// GroupSchedule godoc
// @Summary Load a group timetable
// @Description Resolves the group, loads its timetable and remembers the selection.
// @Tags Schedule
// @Produce json
// @Param id path string true "Group ID"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /schedule/group/{id} [post]
func (h *ScheduleHandler) GroupSchedule(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.GroupScheduleRequested{GroupID: id})
}

// TeacherSchedule godoc
// @Summary Load a teacher timetable
// @Tags Schedule
// @Produce json
// @Param id path string true "Teacher ID"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /schedule/teacher/{id} [post]
func (h *ScheduleHandler) TeacherSchedule(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.TeacherScheduleRequested{TeacherID: id})
}

// Grid godoc
// @Summary Timetable grid
// @Description Arranges the loaded timetable into rows by time and columns by day, one grid per week.
// @Tags Schedule
// @Produce json
// @Param kind query string false "group, teacher or personal" default(group)
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedule/grid [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	var q dto.GridQuery
	if !h.bindQuery(c, &q, "invalid grid query") {
		return
	}
	if q.Kind == "" {
		q.Kind = service.ExportKindGroup
	}

	snapshot, version := h.store.Snapshot()
	view := GridView{Kind: q.Kind, CurrentWeek: snapshot.Schedule.Week}
	switch q.Kind {
	case service.ExportKindGroup, service.ExportKindTeacher:
		schedule := snapshot.Schedule.GroupSchedule
		if q.Kind == service.ExportKindTeacher {
			schedule = snapshot.Schedule.TeacherSchedule
		}
		if schedule == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no %s schedule loaded", q.Kind)))
			return
		}
		view.Weeks = grid.FromSchedule(*schedule)
	default:
		view.Weeks = grid.FromSubjectSchedules(state.VisibleSubjectSchedule(snapshot))
	}
	response.JSON(c, http.StatusOK, view, h.meta(c, version, false))
}

// Export godoc
// @Summary Export one week of the grid
// @Description Renders the grid to CSV or PDF, stores it in the export directory and returns the file.
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param kind query string false "group, teacher or personal" default(group)
// @Param format query string false "csv or pdf" default(csv)
// @Param week query int false "0 or 1"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var q dto.ExportQuery
	if !h.bindQuery(c, &q, "invalid export query") {
		return
	}
	req := service.ExportRequest{Kind: q.Kind, Format: q.Format, Week: q.Week}
	if req.Kind == "" {
		req.Kind = service.ExportKindGroup
	}
	if req.Format == "" {
		req.Format = service.ExportFormatCSV
	}

	snapshot, _ := h.store.Snapshot()
	res, err := h.exporter.Export(c.Request.Context(), snapshot, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Type", res.ContentType)
	c.FileAttachment(res.Path, res.Filename)
}

// DeleteExport godoc
// @Summary Delete a stored export
// @Tags Schedule
// @Produce json
// @Param file path string true "File name returned by the export"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/export/{file} [delete]
func (h *ScheduleHandler) DeleteExport(c *gin.Context) {
	filename := c.Param("file")
	if err := h.exporter.Delete(filename); err != nil {
		response.Error(c, err)
		return
	}
	_, version := h.store.Snapshot()
	response.JSON(c, http.StatusOK, gin.H{"deleted": filename}, h.meta(c, version, false))
}

// StartEdit godoc
// @Summary Enter schedule edit mode
// @Tags Schedule
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /schedule/edit [post]
func (h *ScheduleHandler) StartEdit(c *gin.Context) {
	h.trigger(c, state.EditScheduleStarted{})
}

// HideSubject godoc
// @Summary Hide a subject schedule entry
// @Tags Schedule
// @Produce json
// @Param id path string true "Subject schedule ID"
// @Success 202 {object} response.Envelope
// @Router /schedule/hidden/{id} [post]
func (h *ScheduleHandler) HideSubject(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.HiddenSubjectAdded{SubjectID: id})
}

// ShowSubject godoc
// @Summary Un-hide a subject schedule entry
// @Tags Schedule
// @Produce json
// @Param id path string true "Subject schedule ID"
// @Success 202 {object} response.Envelope
// @Router /schedule/hidden/{id} [delete]
func (h *ScheduleHandler) ShowSubject(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	h.trigger(c, state.HiddenSubjectRemoved{SubjectID: id})
}

// Save godoc
// @Summary Save hidden subjects
// @Description Sends the pending hidden list when it differs from the profile and leaves edit mode.
// @Tags Schedule
// @Produce json
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /schedule/save [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	h.trigger(c, state.ScheduleSaveRequested{})
}

// ExamSessions godoc
// @Summary Load exam sessions of a group
// @Tags Schedule
// @Produce json
// @Param groupId path string true "Group ID"
// @Param wait query bool false "Wait for the workflow to settle"
// @Success 202 {object} response.Envelope
// @Router /sessions/{groupId} [post]
func (h *ScheduleHandler) ExamSessions(c *gin.Context) {
	id, ok := requireParam(c, "groupId")
	if !ok {
		return
	}
	h.trigger(c, state.ExamSessionsRequested{GroupID: id})
}
