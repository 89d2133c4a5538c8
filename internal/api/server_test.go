package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/intelligence"
	"github.com/aadipatodia/Scheduler/internal/llm"
	"github.com/aadipatodia/Scheduler/internal/repository"
	"github.com/aadipatodia/Scheduler/internal/scheduler"
	"github.com/aadipatodia/Scheduler/internal/service"
	"github.com/aadipatodia/Scheduler/internal/testutil"
)

const twoPhaseReply = `{
  "roadmap": "Learn the basics, then build something.",
  "phases": [
    {"title": "Basics", "timeline": "1 Week", "goal": "Syntax", "tasks": ["Tour of Go"], "success_criteria": ["Write a CLI"]},
    {"title": "Project", "timeline": "1 Week", "goal": "Ship", "tasks": ["Build an API"], "success_criteria": ["Deployed"]}
  ]
}`

// fixedClient answers every prompt with the same text.
type fixedClient struct {
	reply string
}

func (c *fixedClient) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return &llm.GenerateResponse{Text: c.reply, Model: "test"}, nil
}

func (c *fixedClient) Available(context.Context) bool { return true }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testAPI struct {
	handler http.Handler
	tasks   *repository.SQLiteTaskRepo
}

// newTestAPI wires the real services over an in-memory database. A nil
// client leaves roadmap drafting unconfigured.
func newTestAPI(t *testing.T, client llm.LLMClient) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	goals := repository.NewSQLiteGoalRepo(database)
	roadmaps := repository.NewSQLiteRoadmapRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	audit := repository.NewSQLiteAuditRepo(database)
	logs := repository.NewSQLiteRecalibrationRepo(database)

	planner := scheduler.NewPlanner(nil, nil)
	svc := Services{
		Goals:         service.NewGoalService(goals),
		Roadmaps:      service.NewRoadmapService(goals, roadmaps, uow, intelligence.NewRoadmapService(client, nil), planner, scheduler.DefaultDaysPerPhase),
		Tasks:         service.NewTaskService(tasks, goals, audit, uow),
		Recalibration: service.NewRecalibrationService(goals, tasks, logs, uow, intelligence.NewMissedTaskAnalyzer(nil), nil),
		Stats:         service.NewStatsService(goals, tasks),
	}
	return &testAPI{handler: NewServer(svc, nil).Handler(), tasks: tasks}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (a *testAPI) createGoal(t *testing.T, body map[string]any) goalResponse {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/goals", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[goalResponse](t, env)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestGoalCRUD(t *testing.T) {
	a := newTestAPI(t, nil)

	g := a.createGoal(t, map[string]any{"title": "  Learn Go ", "description": "backend", "target_date": "2030-06-30"})
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Learn Go", g.Title)
	assert.Equal(t, "active", g.Status)
	require.NotNil(t, g.TargetDate)
	assert.Equal(t, "2030-06-30", *g.TargetDate)

	w, env := a.do(t, http.MethodGet, "/api/goals/"+g.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, env = a.do(t, http.MethodPut, "/api/goals/"+g.ID, map[string]any{"target_date": "", "status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[goalResponse](t, env)
	assert.Nil(t, updated.TargetDate)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "backend", updated.Description)

	w, env = a.do(t, http.MethodGet, "/api/goals?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]goalResponse](t, env), 1)

	w, env = a.do(t, http.MethodGet, "/api/goals?status=active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]goalResponse](t, env))

	w, _ = a.do(t, http.MethodDelete, "/api/goals/"+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/goals/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestGoalValidationErrors(t *testing.T) {
	a := newTestAPI(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"blank title", http.MethodPost, "/api/goals", map[string]any{"title": "  "}},
		{"bad date", http.MethodPost, "/api/goals", map[string]any{"title": "x", "target_date": "next week"}},
		{"bad status filter", http.MethodGet, "/api/goals?status=paused", nil},
		{"malformed json", http.MethodPost, "/api/goals", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := a.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.False(t, env.Success)
		})
	}
}

func TestRoadmapLifecycle(t *testing.T) {
	a := newTestAPI(t, &fixedClient{reply: twoPhaseReply})
	g := a.createGoal(t, map[string]any{"title": "Learn Go"})

	w, env := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap", map[string]any{"context": "evenings only"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rm := decode[roadmapResponse](t, env)
	assert.False(t, rm.Approved)
	require.Len(t, rm.Phases, 2)
	assert.Equal(t, "Basics", rm.Phases[0].Title)

	w, env = a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/roadmap", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rm.ID, decode[roadmapResponse](t, env).ID)

	w, env = a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/schedule/preview", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decode[previewResponse](t, env)
	assert.Equal(t, 14, preview.TotalDays)
	assert.Equal(t, "fallback", preview.Source)
	assert.Len(t, preview.Tasks, 28)
	require.Len(t, preview.Ranges, 2)
	assert.Equal(t, 8, preview.Ranges[1].StartDay)
	assert.Equal(t, preview.StartDate, preview.Tasks[0].Date)

	w, env = a.do(t, http.MethodPut, "/api/roadmaps/"+rm.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approval := decode[approvalResponse](t, env)
	assert.True(t, approval.Roadmap.Approved)
	assert.Equal(t, 28, approval.TasksCreated)
	assert.Zero(t, approval.TasksReplaced)

	w, env = a.do(t, http.MethodGet, "/api/tasks?goal_id="+g.ID+"&source=schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]taskResponse](t, env), 28)

	w, env = a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "already has an approved roadmap")

	w, _ = a.do(t, http.MethodPost, "/api/roadmaps/"+rm.ID+"/refine", map[string]any{"feedback": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(t, http.MethodPost, "/api/roadmaps/"+rm.ID+"/refine", map[string]any{"feedback": "Add testing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[roadmapResponse](t, env).Approved)
}

func TestRoadmapErrors(t *testing.T) {
	t.Run("llm not configured", func(t *testing.T) {
		a := newTestAPI(t, nil)
		g := a.createGoal(t, map[string]any{"title": "Learn Go"})
		w, env := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, env.Error, "not configured")
	})

	t.Run("no roadmap yet", func(t *testing.T) {
		a := newTestAPI(t, nil)
		g := a.createGoal(t, map[string]any{"title": "Learn Go"})
		w, _ := a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/schedule/preview", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("prose without phases", func(t *testing.T) {
		a := newTestAPI(t, &fixedClient{reply: "Just practice every day."})
		g := a.createGoal(t, map[string]any{"title": "Learn Go"})
		w, _ := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		w, _ = a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/schedule/preview", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid import", func(t *testing.T) {
		a := newTestAPI(t, nil)
		g := a.createGoal(t, map[string]any{"title": "Learn Go"})
		w, env := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap/import", map[string]any{"phases": []any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error, "at least one phase")
	})
}

func TestImportRoadmap(t *testing.T) {
	a := newTestAPI(t, nil)
	g := a.createGoal(t, map[string]any{"title": "Learn Go"})

	w, env := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/roadmap/import", map[string]any{
		"phases": []map[string]any{
			{"title": "Only", "timeline": "3 Days", "tasks": []string{"Read"}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rm := decode[roadmapResponse](t, env)
	require.Len(t, rm.Phases, 1)
	assert.Contains(t, rm.Roadmap, "Phase 1: Only")
}

func TestTaskEndpoints(t *testing.T) {
	a := newTestAPI(t, nil)
	g := a.createGoal(t, map[string]any{"title": "Learn Go"})

	w, env := a.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"goal_id": g.ID, "title": "Read chapter 1", "priority": 2, "scheduled_date": "2025-03-03",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[taskResponse](t, env)
	assert.Equal(t, 0, task.Status)
	assert.Equal(t, "due", task.StatusLabel)
	assert.Equal(t, "manual", task.Source)
	assert.Equal(t, "daily", task.Category)

	w, _ = a.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "priority": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(t, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "goal_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/tasks/today?date=2025-03-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[dayResponse](t, env)
	assert.Equal(t, "2025-03-03", day.Date)
	assert.Len(t, day.Tasks, 1)
	assert.Equal(t, countsResponse{Total: 1, Due: 1}, day.Counts)

	w, env = a.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"status": 1, "reason": "finished early"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[taskResponse](t, env)
	assert.Equal(t, 1, done.Status)
	assert.NotNil(t, done.CompletedAt)

	w, env = a.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"status": "due", "title": "Reread chapter 1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[taskResponse](t, env).CompletedAt)

	w, _ = a.do(t, http.MethodPut, "/api/tasks/"+task.ID, map[string]any{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/tasks/"+task.ID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]auditResponse](t, env)
	require.Len(t, history, 4)
	assert.Equal(t, "created", history[0].Action)
	assert.Equal(t, "finished early", history[1].Reason)

	w, env = a.do(t, http.MethodGet, "/api/tasks?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]taskResponse](t, env))

	w, _ = a.do(t, http.MethodGet, "/api/tasks?from=March", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = a.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecalibrateAndStats(t *testing.T) {
	a := newTestAPI(t, nil)
	g := a.createGoal(t, map[string]any{"title": "Learn Go"})

	w, env := a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/recalibrate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	empty := decode[recalibrationResponse](t, env)
	assert.Zero(t, empty.Missed)
	assert.Nil(t, empty.Log)

	missed := testutil.NewTestTask("Skipped",
		testutil.WithGoal(g.ID),
		testutil.WithScheduledDate(testutil.Date(2025, time.March, 1)),
		testutil.WithTaskStatus(domain.TaskMissed),
	)
	require.NoError(t, a.tasks.Create(context.Background(), missed))

	w, env = a.do(t, http.MethodPost, "/api/goals/"+g.ID+"/recalibrate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode[recalibrationResponse](t, env)
	assert.Equal(t, 1, rec.Missed)
	require.NotNil(t, rec.Log)
	assert.True(t, rec.Log.UsedFallback)
	assert.Equal(t, "medium", rec.Log.Severity)

	w, env = a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/recalibrations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]recalibrationLogResponse](t, env), 1)

	w, _ = a.do(t, http.MethodPost, "/api/goals/missing/recalibrate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(t, http.MethodGet, "/api/stats/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ov := decode[overviewResponse](t, env)
	assert.Equal(t, 1, ov.TotalGoals)
	assert.Equal(t, 1, ov.ActiveGoals)
	assert.Equal(t, 1, ov.MissedTasks)
	require.Len(t, ov.Goals, 1)
	assert.Equal(t, "at_risk", ov.Goals[0].Risk.Level)

	w, env = a.do(t, http.MethodGet, "/api/goals/"+g.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[progressResponse](t, env).Counts.Missed)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrRoadmapAlreadyApproved, http.StatusBadRequest},
		{service.ErrNoPhases, http.StatusUnprocessableEntity},
		{llm.ErrNotConfigured, http.StatusServiceUnavailable},
		{llm.ErrTimeout, http.StatusGatewayTimeout},
		{llm.ErrRetryExhausted, http.StatusBadGateway},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := NewServer(Services{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_DrainsInFlightRequestOnShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(Services{}, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	reqErr := make(chan error, 1)
	srv.router.GET("/api/slow", func(c *gin.Context) {
		close(entered)
		<-release
		reqErr <- c.Request.Context().Err()
		c.String(http.StatusOK, "done")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	type result struct {
		status int
		body   string
		err    error
	}
	respCh := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/slow")
		if err != nil {
			respCh <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		respCh <- result{status: resp.StatusCode, body: string(body), err: err}
	}()

	select {
	case <-entered:
	case <-time.After(3 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	res := <-respCh
	require.NoError(t, res.err)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "done", res.body)
	assert.NoError(t, <-reqErr, "in-flight request context must survive shutdown")

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
