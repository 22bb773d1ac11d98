package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/grid"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
	"github.com/noah-isme/schedule-sync/pkg/export"
)

// Grid sources that can be exported.
const (
	ExportKindGroup    = "group"
	ExportKindTeacher  = "teacher"
	ExportKindPersonal = "personal"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportRequest selects the grid and the output format. Week is 0 or 1.
type ExportRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=group teacher personal"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Week   int    `json:"week" validate:"min=0,max=1"`
}

// ExportResult describes a stored export.
type ExportResult struct {
	Path        string    `json:"path"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	Entries     int       `json:"entries"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExportService renders the grid read-model of a snapshot and persists it under the export
// directory.
type ExportService struct {
	storage   fileStorage
	renderers map[string]renderer
	retention time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. A non-positive retention disables cleanup.
func NewExportService(storage fileStorage, fontPath string, retention time.Duration, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		storage: storage,
		renderers: map[string]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(fontPath),
		},
		retention: retention,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders one week of the requested grid and stores it.
func (s *ExportService) Export(ctx context.Context, snapshot state.RootState, req ExportRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset, entries, err := BuildDataset(snapshot, req.Kind, req.Week)
	if err != nil {
		return nil, err
	}

	r := s.renderers[req.Format]
	payload, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	now := s.now().UTC()
	filename := fmt.Sprintf("%s_week%d_%s.%s", req.Kind, req.Week+1, now.Format("20060102_150405"), r.Extension())
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	s.logger.Info("schedule exported",
		zap.String("kind", req.Kind),
		zap.String("format", req.Format),
		zap.Int("week", req.Week),
		zap.String("path", path),
	)
	return &ExportResult{
		Path:        path,
		Filename:    filename,
		ContentType: r.ContentType(),
		Size:        len(payload),
		Entries:     entries,
		CreatedAt:   now,
	}, nil
}

// Cleanup removes exports older than the configured retention.
func (s *ExportService) Cleanup() ([]string, error) {
	if s.retention <= 0 {
		return nil, nil
	}
	deleted, err := s.storage.CleanupOlderThan(s.retention)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return deleted, nil
}

// Delete removes one stored export by the file name Export reported. Removing a missing file
// succeeds.
func (s *ExportService) Delete(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid export file name %q", filename))
	}
	if err := s.storage.Delete(filename); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete export")
	}
	s.logger.Info("export deleted", zap.String("filename", filename))
	return nil
}

// RunCleanup removes expired exports every interval until ctx is done.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if s.retention <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Cleanup(); err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}

// BuildDataset flattens one week of the grid of kind into an export table and returns it with
// the number of placed entries.
func BuildDataset(snapshot state.RootState, kind string, week int) (export.Dataset, int, error) {
	if week < 0 || week > 1 {
		return export.Dataset{}, 0, appErrors.Clone(appErrors.ErrValidation, "week must be 0 or 1")
	}
	title := fmt.Sprintf("%s, week %d", exportTitle(snapshot, kind), week+1)

	switch kind {
	case ExportKindGroup, ExportKindTeacher:
		schedule := snapshot.Schedule.GroupSchedule
		if kind == ExportKindTeacher {
			schedule = snapshot.Schedule.TeacherSchedule
		}
		if schedule == nil {
			return export.Dataset{}, 0, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("no %s schedule loaded", kind))
		}
		g := grid.FromSchedule(*schedule)[week]
		return grid.Dataset(title, g, grid.LessonLabel), g.Count(), nil
	case ExportKindPersonal:
		g := grid.FromSubjectSchedules(state.VisibleSubjectSchedule(snapshot))[week]
		return grid.Dataset(title, g, grid.SubjectScheduleLabel), g.Count(), nil
	default:
		return export.Dataset{}, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule kind %q", kind))
	}
}

func exportTitle(snapshot state.RootState, kind string) string {
	switch kind {
	case ExportKindGroup:
		return "Group " + nameOrID(snapshot.Schedule.GroupID, func(id string) string {
			for _, g := range snapshot.Groups.Groups {
				if g.ID == id {
					return g.Name
				}
			}
			return ""
		})
	case ExportKindTeacher:
		return "Teacher " + nameOrID(snapshot.Schedule.TeacherID, func(id string) string {
			for _, t := range snapshot.Teachers.Teachers {
				if t.ID == id {
					return t.Name
				}
			}
			return ""
		})
	default:
		if name := strings.TrimSpace(snapshot.Profile.Profile.Name); name != "" {
			return name
		}
		return "Personal schedule"
	}
}

func nameOrID(id string, lookup func(string) string) string {
	if name := lookup(id); name != "" {
		return name
	}
	return id
}
