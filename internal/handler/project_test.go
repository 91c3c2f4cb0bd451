package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sitework/internal/domain/models"
	"sitework/internal/events"
	"sitework/internal/httputil"
	"sitework/internal/repository/memory"
	"sitework/internal/service"
)

func newProjectHandler() *ProjectHandler {
	logger := slog.New(slog.DiscardHandler)
	stores := memory.NewStores()
	recorder := service.NewRecorder(stores.Activities, events.NewDispatcher(logger), logger)
	return NewProjectHandler(service.NewProjectService(stores.Projects, recorder, logger), logger)
}

func newProjectMux(h *ProjectHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.DeleteProject)
	return mux
}

func authed(r *http.Request) *http.Request {
	return httputil.WithAuth(r, models.AuthContext{
		UserID:    "user-1",
		Email:     "pm@acme.test",
		Role:      models.RoleCompanyAdmin,
		CompanyID: "c1",
	})
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := authed(httptest.NewRequest(method, path, reader))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return rec, envelope
}

func TestProjectLifecycle(t *testing.T) {
	mux := newProjectMux(newProjectHandler())

	rec, env := doJSON(t, mux, http.MethodPost, "/api/projects",
		`{"name":"Harbor Bridge Retrofit","company_id":"c1","budget":250000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env["success"] != true {
		t.Errorf("success = %v, want true", env["success"])
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing from envelope: %v", env)
	}
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("created project has no id")
	}
	if env["activity"] == nil {
		t.Error("create envelope has no activity")
	}

	rec, env = doJSON(t, mux, http.MethodGet, "/api/projects/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	data = env["data"].(map[string]any)
	if data["name"] != "Harbor Bridge Retrofit" {
		t.Errorf("name = %v", data["name"])
	}

	rec, env = doJSON(t, mux, http.MethodPatch, "/api/projects/"+id,
		`{"status":"active"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data = env["data"].(map[string]any)
	if data["status"] != "active" {
		t.Errorf("status = %v, want active", data["status"])
	}

	rec, env = doJSON(t, mux, http.MethodGet, "/api/projects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if env["summary"] == nil {
		t.Error("list envelope has no summary")
	}

	rec, _ = doJSON(t, mux, http.MethodDelete, "/api/projects/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, mux, http.MethodGet, "/api/projects/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if env["success"] != false {
		t.Errorf("success = %v, want false", env["success"])
	}
}

func TestProjectValidationErrors(t *testing.T) {
	mux := newProjectMux(newProjectHandler())

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing name", body: `{"company_id":"c1"}`, want: http.StatusBadRequest},
		{name: "malformed json", body: `{"name":`, want: http.StatusBadRequest},
		{name: "negative budget", body: `{"name":"X","company_id":"c1","budget":-5}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, mux, http.MethodPost, "/api/projects", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if env["success"] != false {
				t.Errorf("success = %v, want false", env["success"])
			}
			if env["error"] == nil {
				t.Error("error message missing")
			}
		})
	}
}

func TestProjectUnauthenticated(t *testing.T) {
	mux := newProjectMux(newProjectHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env["error"] != "Authentication required" {
		t.Errorf("error = %v, want Authentication required", env["error"])
	}
}
