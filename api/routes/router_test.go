package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/menu"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/internal/reconcile"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
	"github.com/davidmorenoc/desayunos-backend/pkg/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	store := sharedstore.NewMemStore()
	clock := scheduler.NewManualClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	sched := scheduler.NewKeyed(clock)

	engine, err := pricing.NewEngine(menu.Default(), nil)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	next := 0
	service, err := groups.NewService(groups.ServiceParams{
		Store:     store,
		Engine:    engine,
		Scheduler: sched,
		Config:    config.GroupsConfig{IDPrefix: "TOMATE", MaxIDAttempts: 100, CleanupTTL: time.Hour},
		Now:       clock.Now,
		RandInt: func(n int) int {
			next++
			return next
		},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	manager, err := reconcile.NewManager(reconcile.ManagerParams{
		Store:     store,
		Writer:    service,
		Scheduler: sched,
		Window:    time.Second,
	})
	if err != nil {
		t.Fatalf("build manager: %v", err)
	}

	return NewRouter(cfg, nil, store, service, manager, reconcile.NewRegistry())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var envelope types.SuccessEnvelope
	data := map[string]any{}
	if w.Code < 400 && w.Body.Len() > 0 {
		if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
			t.Fatalf("%s %s: decode envelope: %v", method, path, err)
		}
		if m, ok := envelope.Data.(map[string]any); ok {
			data = m
		}
	}
	return w, data
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health/live", "")
	if w.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodGet, "/health/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", w.Code)
	}
}

func TestGroupLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	w, created := doJSON(t, router, http.MethodPost, "/api/v1/groups", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	groupID, _ := created["id"].(string)
	if !strings.HasPrefix(groupID, "TOMATE-") {
		t.Fatalf("unexpected group id %q", groupID)
	}

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/groups/"+groupID+"/join", `{"name":"David"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	items := `{"items":[{"product":"Café","variant":"Café con leche"},{"product":"Croissant"}]}`
	w, updated := doJSON(t, router, http.MethodPut, "/api/v1/groups/"+groupID+"/people/David/items", items)
	if w.Code != http.StatusOK {
		t.Fatalf("set items: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	people := updated["people"].(map[string]any)
	david := people["David"].(map[string]any)
	if david["total"] != "3.3" && david["total"] != "3.30" {
		t.Fatalf("expected combo total, got %v", david["total"])
	}

	w, snapshot := doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot: expected 200, got %d", w.Code)
	}
	if snapshot["id"] != groupID {
		t.Fatalf("snapshot id mismatch: %v", snapshot["id"])
	}

	w, priced := doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID+"/pricing", "")
	if w.Code != http.StatusOK {
		t.Fatalf("pricing: expected 200, got %d", w.Code)
	}
	if priced["has_combo"] != true {
		t.Fatalf("expected combo in group pricing: %v", priced)
	}

	w, paid := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+groupID+"/paid", "")
	if w.Code != http.StatusOK {
		t.Fatalf("paid: expected 200, got %d", w.Code)
	}
	if paid["paid"] != true {
		t.Fatalf("expected paid flag: %v", paid)
	}

	w, listed := doJSON(t, router, http.MethodGet, "/api/admin/v1/groups", "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", w.Code)
	}
	if listed["count"] != float64(1) {
		t.Fatalf("expected one group, got %v", listed["count"])
	}

	w, _ = doJSON(t, router, http.MethodDelete, "/api/v1/groups/"+groupID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("snapshot after delete: expected 404, got %d", w.Code)
	}
}

func TestJoinUnknownGroupIs404(t *testing.T) {
	router := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/groups/TOMATE-99999/join", `{"name":"Ana"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSetItemsRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	_, created := doJSON(t, router, http.MethodPost, "/api/v1/groups", "")
	groupID := created["id"].(string)
	doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/join", groupID), `{"name":"Ana"}`)

	w, _ := doJSON(t, router, http.MethodPut,
		fmt.Sprintf("/api/v1/groups/%s/people/Ana/items", groupID), `{"unexpected":true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown fields, got %d", w.Code)
	}
}

func TestPriceOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"items":[{"product":"Café","variant":"Café solo"},{"product":"Croissant"}]}`
	w, result := doJSON(t, router, http.MethodPost, "/api/v1/pricing/order", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if result["has_combo"] != true {
		t.Fatalf("expected combo: %v", result)
	}
}
