package teams_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/features/shared"
	"github.com/dalemusser/taskhub/internal/app/features/teams"
	teamstore "github.com/dalemusser/taskhub/internal/app/store/teams"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/dalemusser/taskhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	st := testutil.NewStores(t)
	store, err := teamstore.New(st.Registry, st.TeamsPath, zap.NewNop())
	if err != nil {
		t.Fatalf("teamstore.New: %v", err)
	}
	// nil audit logger is a no-op
	h := teams.NewHandler(store, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/teams", teams.Routes(h))
	r.Route("/api", func(api chi.Router) { teams.APIRoutes(api, h) })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
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

func createTeam(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/teams", `{"name":"`+name+`","description":"d","admin":"u1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d body %s", name, rec.Code, rec.Body.String())
	}
	return decode[shared.IDResponse](t, rec).ID
}

func TestCreateListDescribe(t *testing.T) {
	r := newRouter(t)
	id := createTeam(t, r, "Eng")

	rec := do(r, http.MethodGet, "/teams/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("describe status = %d", rec.Code)
	}
	team := decode[models.Team](t, rec)
	if team.Name != "Eng" || team.Admin != "u1" || len(team.Users) != 0 {
		t.Errorf("describe = %+v", team)
	}

	if list := decode[[]models.Team](t, do(r, http.MethodGet, "/teams", "")); len(list) != 1 {
		t.Errorf("list = %+v", list)
	}
	if rec := do(r, http.MethodGet, "/teams/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	r := newRouter(t)
	createTeam(t, r, "Eng")

	rec := do(r, http.MethodPost, "/teams", `{"name":"Eng","admin":"u2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decode[shared.ErrorResponse](t, rec).Error; msg != "Team name must be unique." {
		t.Errorf("error = %q", msg)
	}
}

func TestUpdate(t *testing.T) {
	r := newRouter(t)
	id := createTeam(t, r, "Eng")

	rec := do(r, http.MethodPatch, "/teams/"+id, `{"description":"Builders"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body %s", rec.Code, rec.Body.String())
	}
	if team := decode[models.Team](t, rec); team.Description != "Builders" || team.Name != "Eng" {
		t.Errorf("update = %+v", team)
	}

	rec = do(r, http.MethodPatch, "/teams/"+id, `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
}

func TestMembership(t *testing.T) {
	r := newRouter(t)
	id := createTeam(t, r, "Eng")

	rec := do(r, http.MethodPost, "/teams/"+id+"/users", `{"user_ids":["u2","u3"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d body %s", rec.Code, rec.Body.String())
	}
	_ = do(r, http.MethodPost, "/teams/"+id+"/users", `{"user_ids":["u2"]}`)

	members := decode[[]string](t, do(r, http.MethodGet, "/teams/"+id+"/users", ""))
	if strings.Join(members, ",") != "u2,u3" {
		t.Errorf("members = %v", members)
	}

	rec = do(r, http.MethodDelete, "/teams/"+id+"/users", `{"user_ids":["u3"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if got := decode[[]string](t, rec); strings.Join(got, ",") != "u2" {
		t.Errorf("members after remove = %v", got)
	}

	if rec := do(r, http.MethodPost, "/teams/"+id+"/users", `{"user_ids":[]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty ids status = %d, want 400", rec.Code)
	}
	if rec := do(r, http.MethodPost, "/teams/missing/users", `{"user_ids":["u2"]}`); rec.Code != http.StatusNotFound {
		t.Errorf("missing team status = %d, want 404", rec.Code)
	}
}

func TestMembership_Cap(t *testing.T) {
	r := newRouter(t)
	id := createTeam(t, r, "Eng")

	ids := make([]string, models.MaxTeamMembers+1)
	for i := range ids {
		ids[i] = "u" + strings.Repeat("x", i+1)
	}
	body, _ := json.Marshal(map[string][]string{"user_ids": ids})

	rec := do(r, http.MethodPost, "/teams/"+id+"/users", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if members := decode[[]string](t, do(r, http.MethodGet, "/teams/"+id+"/users", "")); len(members) != 0 {
		t.Errorf("rejected add changed members: %v", members)
	}
}

func TestRPCEndpoints(t *testing.T) {
	r := newRouter(t)
	id := createTeam(t, r, "Eng")

	rec := do(r, http.MethodPost, "/api/team/add-users", `{"id":"`+id+`","users":["u2","u3"]}`)
	if rec.Code != http.StatusOK || decode[map[string]any](t, rec)["status"] != "success" {
		t.Fatalf("add-users: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/team/remove-users", `{"id":"`+id+`","users":["u2"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove-users: status %d", rec.Code)
	}

	rec = do(r, http.MethodPost, "/api/team/list-users", `{"id":"`+id+`"}`)
	body := decode[struct {
		Status string   `json:"status"`
		Users  []string `json:"users"`
	}](t, rec)
	if body.Status != "success" || strings.Join(body.Users, ",") != "u3" {
		t.Errorf("list-users = %+v", body)
	}

	rec = do(r, http.MethodPost, "/api/team/add-users", `{"id":"`+id+`","users":[]}`)
	if rec.Code != http.StatusBadRequest || decode[map[string]any](t, rec)["status"] != "error" {
		t.Errorf("empty users: status %d body %s", rec.Code, rec.Body.String())
	}
}
