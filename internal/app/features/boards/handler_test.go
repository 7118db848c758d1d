package boards_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/features/boards"
	"github.com/dalemusser/taskhub/internal/app/features/shared"
	boardstore "github.com/dalemusser/taskhub/internal/app/store/boards"
	"github.com/dalemusser/taskhub/internal/app/system/auditlog"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fixture struct {
	h      *boards.Handler
	router http.Handler
	fs     *testutil.FlakyFs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := testutil.NewFlakyFs()
	st := testutil.NewStoresOn(t, fs)
	store, err := boardstore.New(st.Registry, st.BoardsPath, zap.NewNop())
	if err != nil {
		t.Fatalf("boardstore.New: %v", err)
	}
	h := boards.NewHandler(store, auditlog.New(zap.NewNop(), auditlog.Config{Mode: auditlog.ModeOff}), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/boards", boards.Routes(h))
	r.Route("/api", func(api chi.Router) { boards.APIRoutes(api, h) })
	return &fixture{h: h, router: r, fs: fs}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (f *fixture) createBoard(t *testing.T, body string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/boards", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create board: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[shared.IDResponse](t, rec).ID
}

func TestBoardLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.createBoard(t, `{"name":"Sprint1","description":"first","team_id":"t1"}`)
	_ = f.createBoard(t, `{"name":"Sprint1","team_id":"t2"}`)

	if list := decode[[]models.Board](t, f.do(http.MethodGet, "/boards", "")); len(list) != 2 {
		t.Errorf("list all = %d boards", len(list))
	}
	if list := decode[[]models.Board](t, f.do(http.MethodGet, "/boards?team_id=t1", "")); len(list) != 1 || list[0].ID != id {
		t.Errorf("list t1 = %+v", list)
	}

	rec := f.do(http.MethodPatch, "/boards/"+id, `{"description":"renamed"}`)
	if rec.Code != http.StatusOK || decode[models.Board](t, rec).Description != "renamed" {
		t.Errorf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(http.MethodDelete, "/boards/"+id, ""); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/boards/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("describe after delete = %d, want 404", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/boards/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestCreateBoard_DuplicateInTeam(t *testing.T) {
	f := newFixture(t)
	_ = f.createBoard(t, `{"name":"Sprint1","team_id":"t1"}`)

	if rec := f.do(http.MethodPost, "/boards", `{"name":"Sprint1","team_id":"t1"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTasks(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	rec := f.do(http.MethodPost, "/boards/"+board+"/tasks", `{"title":"Fix bug","assignee":"u1","status":"To-Do"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add task: status %d body %s", rec.Code, rec.Body.String())
	}
	taskID := decode[shared.IDResponse](t, rec).ID

	rec = f.do(http.MethodPost, "/boards/"+board+"/tasks", `{"title":"Fix bug","status":"Done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate title: status %d, want 400", rec.Code)
	}
	if tasks := decode[[]models.Task](t, f.do(http.MethodGet, "/boards/"+board+"/tasks", "")); len(tasks) != 1 {
		t.Errorf("tasks after duplicate = %d, want 1", len(tasks))
	}

	rec = f.do(http.MethodPut, "/boards/"+board+"/tasks/"+taskID, `{"status":"Blocked"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status: %d, want 400", rec.Code)
	}
	rec = f.do(http.MethodGet, "/boards/"+board+"/tasks/"+taskID, "")
	if task := decode[models.Task](t, rec); task.Status != models.StatusToDo {
		t.Errorf("status after rejected update = %q", task.Status)
	}

	rec = f.do(http.MethodPatch, "/boards/"+board+"/tasks/"+taskID, `{"status":"In-Progress"}`)
	if rec.Code != http.StatusOK || decode[models.Task](t, rec).Status != models.StatusInProgress {
		t.Errorf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(http.MethodDelete, "/boards/"+board+"/tasks/nonexistent", ""); rec.Code != http.StatusOK {
		t.Errorf("delete missing task: %d, want 200", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/boards/"+board+"/tasks/"+taskID, ""); rec.Code != http.StatusOK {
		t.Errorf("delete task: %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/boards/"+board+"/tasks/"+taskID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted task: %d, want 404", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/boards/missing/tasks", ""); rec.Code != http.StatusNotFound {
		t.Errorf("tasks of missing board: %d, want 404", rec.Code)
	}
}

func TestAddTask_StatusRequired(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	rec := f.do(http.MethodPost, "/boards/"+board+"/tasks", `{"title":"Fix bug"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decode[shared.ErrorResponse](t, rec).Error; msg != "Status must be one of To-Do, In-Progress, Done." {
		t.Errorf("error = %q", msg)
	}
}

func TestRPC_CreateTaskDefaultsStatus(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	rec := f.do(http.MethodPost, "/api/task/create", `{"board_id":"`+board+`","title":"Fix bug","assignee":"u1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.TaskID == "" {
		t.Fatalf("response %s", rec.Body.String())
	}

	task := decode[models.Task](t, f.do(http.MethodGet, "/boards/"+board+"/tasks/"+body.TaskID, ""))
	if task.Status != models.StatusToDo {
		t.Errorf("status = %q, want To-Do", task.Status)
	}

	if rec := f.do(http.MethodPost, "/api/task/create", `{"board_id":"missing","title":"x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("missing board: %d, want 404", rec.Code)
	}
}

func TestRPC_DeleteBoard(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	if rec := f.do(http.MethodDelete, "/api/board/delete", `{"id":"`+board+`"}`); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, "/api/board/delete", `{"id":"`+board+`"}`); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: %d, want 404", rec.Code)
	}
}

func TestPersistFailure_Returns500AndKeepsState(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	f.fs.FailWrites(true)
	rec := f.do(http.MethodPost, "/boards/"+board+"/tasks", `{"title":"Fix bug","status":"To-Do"}`)
	f.fs.FailWrites(false)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if tasks := decode[[]models.Task](t, f.do(http.MethodGet, "/boards/"+board+"/tasks", "")); len(tasks) != 0 {
		t.Errorf("failed write left %d tasks in memory", len(tasks))
	}
}

func TestServeBoard_Direct(t *testing.T) {
	f := newFixture(t)
	board := f.createBoard(t, `{"name":"Sprint1"}`)

	req := httptest.NewRequest(http.MethodGet, "/boards/"+board, nil)
	req = testutil.WithChiURLParam(req, "id", board)
	rec := httptest.NewRecorder()
	f.h.ServeBoard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if b := decode[models.Board](t, rec); b.Name != "Sprint1" || b.Tasks == nil {
		t.Errorf("board = %+v", b)
	}
}
