package workflow

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/repository"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/session"
	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	t         *testing.T
	store     *store.Store[state.RootState]
	orch      *Orchestrator
	session   *session.Context
	repo      *countingRepository
	auth      *authStub
	users     *userStub
	directory *directoryStub
	timetable *timetableStub
	subjects  *subjectScheduleStub
	panel     *panelStub

	mu     sync.Mutex
	events []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		store: store.New(state.Initial(), state.Reduce),
		repo:  &countingRepository{MemorySessionRepository: repository.NewMemorySessionRepository()},
		auth: &authStub{
			login: func(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
				return &models.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: models.AuthUser{ID: "u1"}}, nil
			},
			register: func(context.Context, models.RegisterRequest) (*models.AuthResponse, error) {
				return &models.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: models.AuthUser{ID: "u2"}}, nil
			},
			logout: func(context.Context, string) error { return nil },
		},
		users:     &userStub{},
		directory: &directoryStub{},
		timetable: &timetableStub{week: 1},
		subjects:  &subjectScheduleStub{},
		panel:     newPanelStub(),
	}

	sess, err := session.New(context.Background(), h.repo, nil)
	require.NoError(t, err)
	h.session = sess

	h.orch = saga.New(h.store)
	Register(h.orch, Deps{
		Auth:            h.auth,
		Users:           h.users,
		Directory:       h.directory,
		Timetable:       h.timetable,
		SubjectSchedule: h.subjects,
		Comments:        commentsAPI{h.panel},
		Tags:            tagsAPI{h.panel},
		Links:           linksAPI{h.panel},
		Session:         h.session,
	})
	h.store.Subscribe(func(_ state.RootState, e store.Event) {
		h.mu.Lock()
		h.events = append(h.events, e.EventName())
		h.mu.Unlock()
	})
	h.orch.Start(context.Background())
	t.Cleanup(h.orch.Stop)
	return h
}

func (h *harness) dispatch(events ...store.Event) {
	for _, e := range events {
		h.store.Dispatch(e)
	}
}

func (h *harness) settle() state.RootState {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(h.t, h.orch.Wait(ctx))
	return h.store.State()
}

func (h *harness) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func (h *harness) signIn() {
	h.t.Helper()
	require.NoError(h.t, h.session.StoreAuth(context.Background(), models.AuthResponse{
		AccessToken: "access", RefreshToken: "refresh", User: models.AuthUser{ID: "u1"},
	}))
}

func TestLoginScenario(t *testing.T) {
	h := newHarness(t)
	var got models.LoginRequest
	h.auth.login = func(_ context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
		got = req
		return &models.AuthResponse{AccessToken: "at", RefreshToken: "rt", User: models.AuthUser{ID: "42"}}, nil
	}
	h.users.profile = models.Profile{Name: "Ann", ScheduleType: models.ScheduleTypeGroup, GroupID: "g1"}
	h.subjects.entries = []models.SubjectSchedule{{ID: "s1"}}

	h.dispatch(state.LoginRequested{Email: "a@b.com", Password: "x"})
	s := h.settle()

	assert.Equal(t, models.LoginRequest{Email: "a@b.com", Password: "x"}, got)
	assert.Equal(t, state.LoginState{IsLoggedIn: true}, s.Login)
	assert.Equal(t, "at", h.session.AccessToken())
	assert.Equal(t, "rt", h.session.RefreshToken())
	assert.Equal(t, "42", h.session.UserID())

	fetches, _ := h.users.calls()
	assert.Equal(t, []string{"42"}, fetches)
	assert.Equal(t, "Ann", s.Profile.Profile.Name)
	assert.Equal(t, []string{"group:g1"}, h.subjects.calls)
	assert.Equal(t, h.subjects.entries, s.SubjectSchedule.Entries)
	assert.False(t, state.AnyLoading(s))
}

func TestLoginFailure(t *testing.T) {
	h := newHarness(t)
	h.auth.login = func(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
		return nil, assert.AnError
	}

	h.dispatch(state.LoginRequested{Email: "a@b.com", Password: "x"})
	s := h.settle()

	assert.False(t, s.Login.IsLoggedIn)
	assert.True(t, s.Login.ErrorWhileLoggingIn)
	assert.Empty(t, h.session.AccessToken())
	assert.Equal(t, []string{"LOGIN_USER_ATTEMPT", "LOGIN_USER_FAILED"}, h.seen())
}

func TestRegisterAlsoLogsIn(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.RegisterRequested{Email: "a@b.com", Password: "secret", Name: "Ann"})
	s := h.settle()

	assert.True(t, s.Register.SuccessfullyRegistered)
	assert.True(t, s.Login.IsLoggedIn)
	assert.Equal(t, "u2", h.session.UserID())
	assert.Subset(t, h.seen(), []string{"REGISTER_USER_SUCCEEDED", "LOGIN_USER_SUCCEEDED", "FETCH_PROFILE_INFO_ATTEMPT"})
}

func TestLogoutWithoutRefreshToken(t *testing.T) {
	h := newHarness(t)
	var called atomic.Bool
	h.auth.logout = func(context.Context, string) error {
		called.Store(true)
		return nil
	}

	h.dispatch(state.LogoutRequested{})
	s := h.settle()

	assert.False(t, called.Load())
	assert.True(t, s.Logout.ErrorWhileLoggingOut)
	assert.Equal(t, "refresh token not found, can't log out", s.Logout.Error)
	assert.Zero(t, h.repo.deleteCount())
}

func TestLogoutClearsCredentialsButKeepsSelection(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	require.NoError(t, h.session.SetGroupID(context.Background(), "g1"))
	h.dispatch(state.LoginSucceeded{UserID: "u1"})
	h.settle()
	h.dispatch(state.SubjectScheduleSucceeded{Entries: []models.SubjectSchedule{{ID: "s1"}}})

	h.dispatch(state.LogoutRequested{})
	s := h.settle()

	assert.Equal(t, state.LogoutState{}, s.Logout)
	assert.False(t, s.Login.IsLoggedIn)
	assert.Empty(t, s.SubjectSchedule.Entries)
	assert.Empty(t, h.session.RefreshToken())
	assert.Empty(t, h.session.UserID())
	assert.Equal(t, "g1", h.session.GroupID())
	assert.Equal(t, 1, h.repo.deleteCount())
}

func TestSecondLogoutCancelsFirstWhileLoginContinues(t *testing.T) {
	h := newHarness(t)
	h.signIn()

	var calls atomic.Int32
	secondRelease := make(chan struct{})
	var firstErr atomic.Value
	h.auth.logout = func(ctx context.Context, _ string) error {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			firstErr.Store(ctx.Err())
			return ctx.Err()
		}
		<-secondRelease
		return nil
	}
	loginRelease := make(chan struct{})
	h.auth.login = func(ctx context.Context, _ models.LoginRequest) (*models.AuthResponse, error) {
		<-loginRelease
		return &models.AuthResponse{AccessToken: "at2", RefreshToken: "rt2", User: models.AuthUser{ID: "u1"}}, nil
	}

	h.dispatch(state.LogoutRequested{})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	h.dispatch(state.LoginRequested{Email: "a@b.com", Password: "x"})
	h.dispatch(state.LogoutRequested{})
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	close(secondRelease)
	require.Eventually(t, func() bool { return slices.Contains(h.seen(), "LOGOUT_USER_SUCCEEDED") }, time.Second, time.Millisecond)
	close(loginRelease)
	s := h.settle()

	assert.Equal(t, context.Canceled, firstErr.Load())
	assert.Equal(t, 1, h.repo.deleteCount())
	assert.NotContains(t, h.seen(), "LOGOUT_USER_FAILED")
	assert.Equal(t, state.LogoutState{}, s.Logout)
	assert.True(t, s.Login.IsLoggedIn)
	assert.Equal(t, "rt2", h.session.RefreshToken())
}

func TestNewerLogoutWaitsForCredentialClear(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	h.dispatch(state.LoginSucceeded{UserID: "u1"})
	h.settle()

	entered, release := h.repo.gate()
	h.dispatch(state.LogoutRequested{})
	<-entered

	dispatched := make(chan struct{})
	go func() {
		h.store.Dispatch(state.LogoutRequested{})
		close(dispatched)
	}()
	assert.Never(t, func() bool {
		select {
		case <-dispatched:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	<-dispatched
	s := h.settle()

	var logouts []string
	for _, name := range h.seen() {
		if strings.HasPrefix(name, "LOGOUT_") {
			logouts = append(logouts, name)
		}
	}
	assert.Equal(t, []string{"LOGOUT_USER_ATTEMPT", "LOGOUT_USER_SUCCEEDED", "LOGOUT_USER_ATTEMPT", "LOGOUT_USER_FAILED"}, logouts)
	assert.Equal(t, 1, h.repo.deleteCount())
	assert.Empty(t, h.session.RefreshToken())
	assert.False(t, s.Login.IsLoggedIn)
	assert.Equal(t, "refresh token not found, can't log out", s.Logout.Error)
}

func TestProfileUpdateRefetchesProfile(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	name := "Bob"

	h.dispatch(state.ProfileUpdateRequested{Update: models.ProfileUpdate{Username: &name}})
	s := h.settle()

	assert.Equal(t, state.MutationState{}, s.UpdateProfile)
	assert.Equal(t, "Bob", s.Profile.Profile.Name)
	fetches, _ := h.users.calls()
	assert.Equal(t, []string{"u1"}, fetches)
}

func TestProfileUpdateWithoutUser(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.ProfileUpdateRequested{})
	s := h.settle()

	assert.Equal(t, "no user found", s.UpdateProfile.Error)
	fetches, _ := h.users.calls()
	assert.Empty(t, fetches)
}

func TestSubjectScheduleWithoutSelectionResolvesEmpty(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.SubjectScheduleRequested{ScheduleType: models.ScheduleTypeTeacher})
	s := h.settle()

	assert.False(t, s.SubjectSchedule.IsLoading)
	assert.Empty(t, s.SubjectSchedule.Entries)
	assert.Empty(t, h.subjects.calls)
}

func TestNoOpSaveSkipsNetwork(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	h.users.profile = models.Profile{HiddenSubjects: []string{"s1"}}
	h.dispatch(state.ProfileFetchRequested{UserID: "u1"})
	h.settle()

	h.dispatch(state.EditScheduleStarted{}, state.HiddenSubjectAdded{SubjectID: "s1"}, state.ScheduleSaveRequested{})
	s := h.settle()

	fetches, saves := h.users.calls()
	assert.Empty(t, saves)
	assert.Equal(t, []string{"u1"}, fetches, "no profile refetch after a no-op save")
	assert.False(t, s.EditSchedule.IsLoading)
	assert.False(t, s.EditSchedule.IsEditing)
	assert.Contains(t, h.seen(), "SAVE_SCHEDULE_SUCCEEDED")
}

func TestSaveSendsPendingListAndRefetches(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	h.dispatch(state.ProfileFetchRequested{UserID: "u1"})
	h.settle()

	h.dispatch(state.EditScheduleStarted{}, state.HiddenSubjectAdded{SubjectID: "s1"}, state.ScheduleSaveRequested{})
	s := h.settle()

	fetches, saves := h.users.calls()
	assert.Equal(t, [][]string{{"s1"}}, saves)
	assert.Equal(t, []string{"u1", "u1"}, fetches)
	assert.Equal(t, []string{"s1"}, s.Profile.Profile.HiddenSubjects)
	assert.Equal(t, []string{"s1"}, s.EditSchedule.UserHiddenSubjects)
	assert.False(t, state.HiddenSubjectsChanged(s))
}

func TestSaveWithoutUser(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.HiddenSubjectAdded{SubjectID: "s1"}, state.ScheduleSaveRequested{})
	s := h.settle()

	assert.Equal(t, "no user found", s.EditSchedule.Error)
	_, saves := h.users.calls()
	assert.Empty(t, saves)
}

func TestGroupScheduleFetchPersistsSelection(t *testing.T) {
	h := newHarness(t)
	h.timetable.week = 2

	h.dispatch(state.GroupScheduleRequested{GroupID: "g1"})
	s := h.settle()

	require.NotNil(t, s.Schedule.GroupSchedule)
	assert.Equal(t, "api-g1", s.Schedule.GroupSchedule.WeekOne[0].Lessons[0].ID)
	require.NotNil(t, s.Schedule.Week)
	assert.Equal(t, 2, *s.Schedule.Week)
	assert.Equal(t, "g1", h.session.GroupID())
}

func TestGroupScheduleFailureResetsSelection(t *testing.T) {
	h := newHarness(t)
	h.directory.err = assert.AnError
	h.timetable.weekErr = assert.AnError

	h.dispatch(state.GroupScheduleRequested{GroupID: "g1"})
	s := h.settle()

	assert.False(t, s.Schedule.IsLoading)
	assert.Empty(t, s.Schedule.GroupID)
	assert.Nil(t, s.Schedule.Week)
	assert.Empty(t, h.session.GroupID())
}

func TestTeacherScheduleAndExamSessions(t *testing.T) {
	h := newHarness(t)
	h.timetable.sessions = []models.ExamSession{{ID: "e1"}}

	h.dispatch(state.TeacherScheduleRequested{TeacherID: "t1"}, state.ExamSessionsRequested{GroupID: "g1"})
	s := h.settle()

	require.NotNil(t, s.Schedule.TeacherSchedule)
	assert.Equal(t, "t1", h.session.TeacherID())
	assert.Equal(t, []models.ExamSession{{ID: "e1"}}, s.ExamSessions.Sessions)
}

func TestInfoPanelFansOut(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.InfoPanelOpened{SubjectScheduleID: "s1"})
	s := h.settle()

	assert.ElementsMatch(t, []string{"comments:s1", "tags:s1", "links:s1"}, h.panel.listCalls())
	assert.Equal(t, []models.Comment{{ID: "comment-s1"}}, s.Comments.Comments)
	assert.Equal(t, []models.Tag{{ID: "tag-s1"}}, s.Tags.Tags)
	assert.Equal(t, []models.ScheduleLink{{ID: "link-s1"}}, s.Links.Links)
}

func panelShows(s state.RootState, id string) bool {
	return len(s.Comments.Comments) == 1 && s.Comments.Comments[0].ID == "comment-"+id &&
		len(s.Tags.Tags) == 1 && s.Tags.Tags[0].ID == "tag-"+id &&
		len(s.Links.Links) == 1 && s.Links.Links[0].ID == "link-"+id
}

func TestInfoPanelSwitchRace(t *testing.T) {
	tests := []struct {
		name  string
		first string
		want  string
	}{
		{"earlier panel resolves first", "A", "B"},
		{"earlier panel resolves last", "B", "A"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			gates := map[string]chan struct{}{"A": h.panel.gate("A"), "B": h.panel.gate("B")}

			h.dispatch(state.InfoPanelOpened{SubjectScheduleID: "A"}, state.InfoPanelOpened{SubjectScheduleID: "B"})
			require.Eventually(t, func() bool { return h.panel.enteredCount() == 6 }, time.Second, time.Millisecond)

			close(gates[tc.first])
			require.Eventually(t, func() bool { return panelShows(h.store.State(), tc.first) }, time.Second, time.Millisecond)
			for id, gate := range gates {
				if id != tc.first {
					close(gate)
				}
			}
			s := h.settle()

			assert.Equal(t, "B", state.SelectedSubjectScheduleID(s))
			assert.True(t, panelShows(s, tc.want), "last resolved fetch wins")
		})
	}
}

func TestPanelMutationsRefetchSelectedPanel(t *testing.T) {
	h := newHarness(t)
	h.signIn()
	h.dispatch(state.InfoPanelOpened{SubjectScheduleID: "s1"})
	h.settle()

	prio := 2
	h.dispatch(
		state.TagAddRequested{Text: "exam", SubjectScheduleID: "s1"},
		state.CommentAddRequested{Text: "bring notes", SubjectScheduleID: "s1", Priority: &prio},
		state.LinkAddRequested{Link: "https://meet.example", SubjectScheduleID: "s1"},
		state.TagDeleteRequested{TagID: "t1"},
		state.CommentDeleteRequested{CommentID: "c1"},
		state.LinkDeleteRequested{LinkID: "l1"},
	)
	s := h.settle()

	calls := h.panel.listCalls()
	assert.Len(t, calls, 9)
	for _, c := range calls {
		assert.Contains(t, []string{"comments:s1", "tags:s1", "links:s1"}, c)
	}
	assert.Equal(t, "u1", h.panel.comment.User)
	assert.Equal(t, &prio, h.panel.comment.Priority)
	assert.Equal(t, state.PanelMutations{}, s.Mutations)
}

func TestLinkUpdateRefetchesPayloadPanel(t *testing.T) {
	h := newHarness(t)
	h.dispatch(state.InfoPanelOpened{SubjectScheduleID: "s1"})
	h.settle()

	desc := "slides"
	h.dispatch(state.LinkUpdateRequested{LinkID: "l1", SubjectScheduleID: "s9", Description: &desc})
	h.settle()

	calls := h.panel.listCalls()
	assert.Equal(t, "links:s9", calls[len(calls)-1])
	assert.Equal(t, []string{"link:l1"}, h.panel.updated)
}

func TestAddCommentRequiresUser(t *testing.T) {
	h := newHarness(t)

	h.dispatch(state.CommentAddRequested{Text: "hi", SubjectScheduleID: "s1"})
	s := h.settle()

	assert.Equal(t, "no user found", s.Mutations.AddComment.Error)
	assert.Empty(t, h.panel.created)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestBootstrapRehydratesSession(t *testing.T) {
	h := newHarness(t)
	h.directory.groups = []models.Group{{ID: "g1"}}
	h.directory.teachers = []models.Teacher{{ID: "t1"}}
	h.users.profile = models.Profile{ScheduleType: models.ScheduleTypeGroup, GroupID: "g1"}
	ctx := context.Background()
	require.NoError(t, h.session.StoreAuth(ctx, models.AuthResponse{
		AccessToken: signedToken(t, time.Now().Add(time.Hour)), RefreshToken: "rt", User: models.AuthUser{ID: "u1"},
	}))
	require.NoError(t, h.session.SetGroupID(ctx, "g1"))
	require.NoError(t, h.session.SetTeacherID(ctx, "t1"))

	h.dispatch(state.AppStarted{})
	s := h.settle()

	assert.Equal(t, h.directory.groups, s.Groups.Groups)
	assert.Equal(t, h.directory.teachers, s.Teachers.Teachers)
	assert.NotNil(t, s.Schedule.GroupSchedule)
	assert.NotNil(t, s.Schedule.TeacherSchedule)
	assert.True(t, s.Login.IsLoggedIn)
	fetches, _ := h.users.calls()
	assert.Equal(t, []string{"u1"}, fetches)
	assert.Equal(t, []string{"group:g1"}, h.subjects.calls)
	assert.False(t, state.AnyLoading(s))
}

func TestBootstrapWithExpiredToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.session.StoreAuth(context.Background(), models.AuthResponse{
		AccessToken: signedToken(t, time.Now().Add(-time.Hour)), RefreshToken: "rt", User: models.AuthUser{ID: "u1"},
	}))

	h.dispatch(state.AppStarted{})
	s := h.settle()

	assert.False(t, s.Login.IsLoggedIn)
	fetches, _ := h.users.calls()
	assert.Empty(t, fetches)
	assert.Nil(t, s.Schedule.GroupSchedule)
	assert.NotContains(t, h.seen(), "FETCH_GROUP_SCHEDULE")
}
