// Package workflow registers the asynchronous procedures started by trigger events.
package workflow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/state"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

type (
	Orchestrator = saga.Orchestrator[state.RootState]
	Effects      = saga.Effects[state.RootState]
)

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type UserAPI interface {
	Profile(ctx context.Context, userID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (models.Profile, error)
	SaveHiddenSubjects(ctx context.Context, userID string, hidden []string) error
}

type DirectoryAPI interface {
	Groups(ctx context.Context) ([]models.Group, error)
	Teachers(ctx context.Context) ([]models.Teacher, error)
	Group(ctx context.Context, id string) (models.Group, error)
	Teacher(ctx context.Context, id string) (models.Teacher, error)
}

type TimetableAPI interface {
	GroupLessons(ctx context.Context, externalID string) (models.Schedule, error)
	LecturerLessons(ctx context.Context, externalID string) (models.Schedule, error)
	GroupExams(ctx context.Context, externalID string) ([]models.ExamSession, error)
	CurrentTime(ctx context.Context) (models.CurrentTime, error)
}

type SubjectScheduleAPI interface {
	ForGroup(ctx context.Context, groupID string) ([]models.SubjectSchedule, error)
	ForTeacher(ctx context.Context, teacherID string) ([]models.SubjectSchedule, error)
}

type CommentAPI interface {
	List(ctx context.Context, subjectScheduleID string) ([]models.Comment, error)
	Create(ctx context.Context, req models.CreateCommentRequest) error
	Delete(ctx context.Context, id string) error
}

type TagAPI interface {
	List(ctx context.Context, subjectScheduleID string) ([]models.Tag, error)
	Create(ctx context.Context, text, subjectScheduleID string) error
	Delete(ctx context.Context, id string) error
}

type LinkAPI interface {
	List(ctx context.Context, subjectScheduleID string) ([]models.ScheduleLink, error)
	Create(ctx context.Context, req models.CreateLinkRequest) error
	Update(ctx context.Context, id string, req models.UpdateLinkRequest) error
	Delete(ctx context.Context, id string) error
}

// Session is the persisted credential store workflows read and write.
type Session interface {
	RefreshToken() string
	UserID() string
	GroupID() string
	TeacherID() string
	StoreAuth(ctx context.Context, auth models.AuthResponse) error
	ClearAuth(ctx context.Context) error
	SetGroupID(ctx context.Context, id string) error
	SetTeacherID(ctx context.Context, id string) error
	AccessTokenValid(now time.Time) bool
}

// Deps are the collaborators of the workflows. Every field is required.
type Deps struct {
	Auth            AuthAPI
	Users           UserAPI
	Directory       DirectoryAPI
	Timetable       TimetableAPI
	SubjectSchedule SubjectScheduleAPI
	Comments        CommentAPI
	Tags            TagAPI
	Links           LinkAPI
	Session         Session
	Logger          *zap.Logger
	Now             func() time.Time
}

type workflows struct {
	Deps
}

// Register attaches every workflow to o.
func Register(o *Orchestrator, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	w := &workflows{Deps: deps}

	w.registerAuth(o)
	w.registerProfile(o)
	w.registerDirectory(o)
	w.registerSchedule(o)
	w.registerPanel(o)
	saga.TakeEvery(o, "bootstrap", w.bootstrap)
}

// failure logs err and returns the message carried by the failure event.
func failure(fx *Effects, err error) string {
	fx.Logger().Warn("workflow failed", zap.Error(err))
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
