package workflow

import (
	"context"
	"sync"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/repository"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

type authStub struct {
	login    func(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	register func(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	logout   func(ctx context.Context, refreshToken string) error
}

func (s *authStub) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return s.login(ctx, req)
}

func (s *authStub) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.register(ctx, req)
}

func (s *authStub) Logout(ctx context.Context, refreshToken string) error {
	return s.logout(ctx, refreshToken)
}

type userStub struct {
	mu      sync.Mutex
	profile models.Profile
	err     error
	fetches []string
	updates []models.ProfileUpdate
	saves   [][]string
}

func (s *userStub) Profile(_ context.Context, userID string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, userID)
	return s.profile, s.err
}

func (s *userStub) UpdateProfile(_ context.Context, userID string, update models.ProfileUpdate) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID == "" {
		return models.Profile{}, appErrors.Clone(appErrors.ErrNoUserID, "")
	}
	s.updates = append(s.updates, update)
	if update.Username != nil {
		s.profile.Name = *update.Username
	}
	return s.profile, s.err
}

func (s *userStub) SaveHiddenSubjects(_ context.Context, _ string, hidden []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, hidden)
	if s.err == nil {
		s.profile.HiddenSubjects = hidden
	}
	return s.err
}

func (s *userStub) calls() (fetches []string, saves [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetches...), append([][]string(nil), s.saves...)
}

type directoryStub struct {
	groups   []models.Group
	teachers []models.Teacher
	err      error
}

func (s *directoryStub) Groups(context.Context) ([]models.Group, error) { return s.groups, s.err }

func (s *directoryStub) Teachers(context.Context) ([]models.Teacher, error) { return s.teachers, s.err }

func (s *directoryStub) Group(_ context.Context, id string) (models.Group, error) {
	if s.err != nil {
		return models.Group{}, s.err
	}
	return models.Group{ID: id, ExternalScheduleID: "api-" + id}, nil
}

func (s *directoryStub) Teacher(_ context.Context, id string) (models.Teacher, error) {
	if s.err != nil {
		return models.Teacher{}, s.err
	}
	return models.Teacher{ID: id, ExternalScheduleID: "api-" + id}, nil
}

type timetableStub struct {
	mu       sync.Mutex
	lessons  []string
	week     int
	weekErr  error
	sessions []models.ExamSession
}

func (s *timetableStub) record(id string) {
	s.mu.Lock()
	s.lessons = append(s.lessons, id)
	s.mu.Unlock()
}

func (s *timetableStub) GroupLessons(_ context.Context, externalID string) (models.Schedule, error) {
	s.record(externalID)
	return models.Schedule{WeekOne: []models.DaySchedule{{Day: "Пн", Lessons: []models.Lesson{{ID: externalID, Time: "8:30"}}}}}, nil
}

func (s *timetableStub) LecturerLessons(_ context.Context, externalID string) (models.Schedule, error) {
	s.record(externalID)
	return models.Schedule{WeekTwo: []models.DaySchedule{{Day: "Вв", Lessons: []models.Lesson{{ID: externalID, Time: "10:25"}}}}}, nil
}

func (s *timetableStub) GroupExams(_ context.Context, externalID string) ([]models.ExamSession, error) {
	return s.sessions, nil
}

func (s *timetableStub) CurrentTime(context.Context) (models.CurrentTime, error) {
	return models.CurrentTime{CurrentWeek: s.week}, s.weekErr
}

type subjectScheduleStub struct {
	mu      sync.Mutex
	entries []models.SubjectSchedule
	calls   []string
}

func (s *subjectScheduleStub) ForGroup(_ context.Context, groupID string) ([]models.SubjectSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "group:"+groupID)
	return s.entries, nil
}

func (s *subjectScheduleStub) ForTeacher(_ context.Context, teacherID string) ([]models.SubjectSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "teacher:"+teacherID)
	return s.entries, nil
}

// panelStub serves comments, tags and links. A gate registered for an id blocks List calls
// for it until closed.
type panelStub struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	entered int
	lists   []string
	created []string
	deleted []string
	updated []string
	comment models.CreateCommentRequest
}

func newPanelStub() *panelStub {
	return &panelStub{gates: map[string]chan struct{}{}}
}

func (s *panelStub) gate(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[id] = ch
	return ch
}

func (s *panelStub) enter(kind, id string) {
	s.mu.Lock()
	s.entered++
	s.lists = append(s.lists, kind+":"+id)
	gate := s.gates[id]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (s *panelStub) enteredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entered
}

func (s *panelStub) listCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists...)
}

func (s *panelStub) mutate(target *[]string, v string) {
	s.mu.Lock()
	*target = append(*target, v)
	s.mu.Unlock()
}

type commentsAPI struct{ *panelStub }

func (c commentsAPI) List(_ context.Context, id string) ([]models.Comment, error) {
	c.enter("comments", id)
	return []models.Comment{{ID: "comment-" + id}}, nil
}

func (c commentsAPI) Create(_ context.Context, req models.CreateCommentRequest) error {
	c.mu.Lock()
	c.comment = req
	c.mu.Unlock()
	c.mutate(&c.created, "comment:"+req.SubjectSchedule)
	return nil
}

func (c commentsAPI) Delete(_ context.Context, id string) error {
	c.mutate(&c.deleted, "comment:"+id)
	return nil
}

type tagsAPI struct{ *panelStub }

func (t tagsAPI) List(_ context.Context, id string) ([]models.Tag, error) {
	t.enter("tags", id)
	return []models.Tag{{ID: "tag-" + id}}, nil
}

func (t tagsAPI) Create(_ context.Context, text, subjectScheduleID string) error {
	t.mutate(&t.created, "tag:"+text+"@"+subjectScheduleID)
	return nil
}

func (t tagsAPI) Delete(_ context.Context, id string) error {
	t.mutate(&t.deleted, "tag:"+id)
	return nil
}

type linksAPI struct{ *panelStub }

func (l linksAPI) List(_ context.Context, id string) ([]models.ScheduleLink, error) {
	l.enter("links", id)
	return []models.ScheduleLink{{ID: "link-" + id}}, nil
}

func (l linksAPI) Create(_ context.Context, req models.CreateLinkRequest) error {
	l.mutate(&l.created, "link:"+req.SubjectSchedule)
	return nil
}

func (l linksAPI) Update(_ context.Context, id string, _ models.UpdateLinkRequest) error {
	l.mutate(&l.updated, "link:"+id)
	return nil
}

func (l linksAPI) Delete(_ context.Context, id string) error {
	l.mutate(&l.deleted, "link:"+id)
	return nil
}

// countingRepository counts credential deletions. A gated repository parks the first delete
// after the keys are gone until release is closed.
type countingRepository struct {
	*repository.MemorySessionRepository
	mu      sync.Mutex
	deletes int
	entered chan struct{}
	release chan struct{}
}

func (r *countingRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	r.deletes++
	entered, release := r.entered, r.release
	r.entered = nil
	r.mu.Unlock()

	if err := r.MemorySessionRepository.Delete(ctx, keys...); err != nil {
		return err
	}
	if entered != nil {
		close(entered)
		<-release
	}
	return nil
}

func (r *countingRepository) gate() (entered, release chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entered, r.release = make(chan struct{}), make(chan struct{})
	return r.entered, r.release
}

func (r *countingRepository) deleteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}
