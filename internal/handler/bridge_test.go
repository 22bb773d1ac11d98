package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-sync/internal/grid"
	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/saga"
	"github.com/noah-isme/schedule-sync/internal/service"
	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
	appErrors "github.com/noah-isme/schedule-sync/pkg/errors"
)

type exporterStub struct {
	dir     string
	req     service.ExportRequest
	err     error
	deleted []string
}

func (e *exporterStub) Export(_ context.Context, _ state.RootState, req service.ExportRequest) (*service.ExportResult, error) {
	e.req = req
	if e.err != nil {
		return nil, e.err
	}
	path := filepath.Join(e.dir, "group_week1.csv")
	if err := os.WriteFile(path, []byte("Час,Пн\n08:30,Math\n"), 0o644); err != nil {
		return nil, err
	}
	return &service.ExportResult{Path: path, Filename: "group_week1.csv", ContentType: "text/csv; charset=utf-8"}, nil
}

func (e *exporterStub) Delete(filename string) error {
	if strings.HasPrefix(filename, ".") {
		return appErrors.Clone(appErrors.ErrValidation, "invalid export file name")
	}
	e.deleted = append(e.deleted, filename)
	return os.Remove(filepath.Join(e.dir, filename))
}

type fixture struct {
	store    *store.Store[state.RootState]
	router   *gin.Engine
	exporter *exporterStub
	release  chan struct{}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		store:    store.New(state.Initial(), state.Reduce),
		exporter: &exporterStub{dir: t.TempDir()},
		release:  make(chan struct{}),
	}
	o := saga.New(f.store)
	saga.TakeEvery(o, "groups", func(ctx context.Context, fx *saga.Effects[state.RootState], _ state.GroupsFetchRequested) {
		select {
		case <-f.release:
		case <-ctx.Done():
			return
		}
		fx.Put(state.GroupsFetchSucceeded{Groups: []models.Group{{ID: "g1", Name: "IP-21"}}})
	})
	o.Start(context.Background())
	t.Cleanup(o.Stop)

	b := NewBridge(f.store, o, nil, 200*time.Millisecond, nil)
	f.router = gin.New()
	NewRoutes(b, nil, f.exporter).Mount(f.router)
	return f
}

func (f *fixture) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) (state.RootState, map[string]interface{}) {
	t.Helper()
	env := decode(t, w)
	var s state.RootState
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s, env.Meta
}

func TestTriggerAnswersAcceptedWithCurrentSnapshot(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/groups/fetch", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	s, meta := decodeState(t, w)
	assert.True(t, s.Groups.IsLoading)
	assert.Equal(t, false, meta["settled"])
	assert.EqualValues(t, 1, meta["version"])
	assert.EqualValues(t, 1, meta["inFlight"])
}

func TestTriggerWaitReturnsSettledSnapshot(t *testing.T) {
	f := newFixture(t)
	close(f.release)

	w := f.do(http.MethodPost, "/groups/fetch?wait=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	s, meta := decodeState(t, w)
	assert.False(t, s.Groups.IsLoading)
	require.Len(t, s.Groups.Groups, 1)
	assert.Equal(t, "IP-21", s.Groups.Groups[0].Name)
	assert.Equal(t, true, meta["settled"])
	assert.EqualValues(t, 0, meta["inFlight"])
}

func TestTriggerWaitTimesOut(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/groups/fetch?wait=1", nil)
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, appErrors.ErrTimeout.Code, decode(t, w).Error.Code)
}

func TestInvalidPayloadIsRejectedBeforeDispatch(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/login", models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, w).Error.Code)
	assert.Zero(t, f.store.Version())

	w = f.do(http.MethodPost, "/comments", map[string]string{"subjectScheduleId": "s1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/links", map[string]string{"link": "nope", "subjectScheduleId": "s1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.store.Version())
}

func TestLoginDispatchesCredentials(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/login", models.LoginRequest{Email: "a@b.c", Password: "secret"})
	require.Equal(t, http.StatusAccepted, w.Code)
	s, _ := decodeState(t, w)
	assert.True(t, s.Login.IsLoading)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestMenuAndTheme(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/ui/menu/teacher", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	s, _ := decodeState(t, w)
	assert.Equal(t, state.MenuTabTeacher, s.Menu.ActiveMenuTab)

	w = f.do(http.MethodPost, "/ui/menu/timetable", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/ui/theme", nil)
	s, _ = decodeState(t, w)
	assert.True(t, s.Theme.IsDarkTheme)
}

func TestHiddenSubjectsEditing(t *testing.T) {
	f := newFixture(t)

	f.do(http.MethodPost, "/schedule/edit", nil)
	f.do(http.MethodPost, "/schedule/hidden/a", nil)
	f.do(http.MethodPost, "/schedule/hidden/b", nil)
	w := f.do(http.MethodDelete, "/schedule/hidden/a", nil)

	s, _ := decodeState(t, w)
	assert.True(t, s.EditSchedule.IsEditing)
	assert.Equal(t, []string{"b"}, s.EditSchedule.HiddenSubjects)
}

func TestPanelOpenAndClose(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/panel/s42", nil)
	s, _ := decodeState(t, w)
	assert.True(t, s.InfoPanel.IsInfoPanelOpen)
	assert.Equal(t, "s42", s.InfoPanel.SubjectScheduleID)

	w = f.do(http.MethodDelete, "/panel", nil)
	s, _ = decodeState(t, w)
	assert.False(t, s.InfoPanel.IsInfoPanelOpen)
}

func TestLinkUpdateCarriesPatch(t *testing.T) {
	f := newFixture(t)
	var seen state.LinkUpdateRequested
	f.store.Subscribe(func(_ state.RootState, e store.Event) {
		if ev, ok := e.(state.LinkUpdateRequested); ok {
			seen = ev
		}
	})

	w := f.do(http.MethodPatch, "/links/l1", map[string]string{"subjectScheduleId": "s1", "description": "slides"})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "l1", seen.LinkID)
	assert.Equal(t, "s1", seen.SubjectScheduleID)
	assert.Nil(t, seen.Link)
	require.NotNil(t, seen.Description)
	assert.Equal(t, "slides", *seen.Description)
}

func TestGrid(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/schedule/grid", nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = f.do(http.MethodGet, "/schedule/grid?kind=room", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	f.store.Dispatch(state.GroupScheduleSucceeded{Schedule: models.Schedule{
		WeekOne: []models.DaySchedule{{Day: "Вв", Lessons: []models.Lesson{{ID: "1", Name: "Math", Time: "8:30"}}}},
	}})
	f.store.Dispatch(state.WeekResolved{Week: 1})

	w = f.do(http.MethodGet, "/schedule/grid?kind=group", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Kind        string                    `json:"kind"`
		CurrentWeek *int                      `json:"currentWeek"`
		Weeks       grid.Weeks[models.Lesson] `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	assert.Equal(t, "group", view.Kind)
	require.NotNil(t, view.CurrentWeek)
	assert.Equal(t, 1, *view.CurrentWeek)
	require.Len(t, view.Weeks[0].Rows, 1)
	assert.Equal(t, "08:30", view.Weeks[0].Rows[0].Time)
	assert.Equal(t, "Math", view.Weeks[0].Rows[0].Days[1][0].Name)
	assert.Empty(t, view.Weeks[1].Rows)

	w = f.do(http.MethodGet, "/schedule/grid?kind=personal", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExportServesFile(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/schedule/export?week=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportRequest{Kind: "group", Format: "csv", Week: 1}, f.exporter.req)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "group_week1.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Час,Пн\n08:30,Math\n", w.Body.String())

	w = f.do(http.MethodGet, "/schedule/export?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.exporter.err = appErrors.Clone(appErrors.ErrPreconditionFailed, "no teacher schedule loaded")
	w = f.do(http.MethodGet, "/schedule/export?kind=teacher", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestDeleteExport(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/schedule/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodDelete, "/schedule/export/group_week1.csv", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"deleted":"group_week1.csv"}`, string(decode(t, w).Data))
	assert.Equal(t, []string{"group_week1.csv"}, f.exporter.deleted)
	_, err := os.Stat(filepath.Join(f.exporter.dir, "group_week1.csv"))
	assert.True(t, os.IsNotExist(err))

	w = f.do(http.MethodDelete, "/schedule/export/.partial-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetricsWithoutRegistry(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","inFlight":0}`, w.Body.String())

	w = f.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStateStreamSendsSnapshots(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/state/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	next := func() StreamFrame {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(strings.TrimRight(line, "\n"), "data:"); ok {
				var frame StreamFrame
				require.NoError(t, json.Unmarshal([]byte(data), &frame))
				return frame
			}
		}
	}

	first := next()
	assert.Zero(t, first.Version)
	assert.False(t, first.State.Theme.IsDarkTheme)

	f.store.Dispatch(state.ThemeToggled{})
	second := next()
	assert.Equal(t, uint64(1), second.Version)
	assert.True(t, second.State.Theme.IsDarkTheme)
}

func TestStateGet(t *testing.T) {
	f := newFixture(t)
	f.store.Dispatch(state.ThemeToggled{})

	w := f.do(http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s, meta := decodeState(t, w)
	assert.True(t, s.Theme.IsDarkTheme)
	assert.EqualValues(t, 1, meta["version"])
	assert.Equal(t, "1", w.Header().Get("X-State-Version"))
}
