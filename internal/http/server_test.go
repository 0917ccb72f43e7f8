package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jeongminsang/travelnote-jp/internal/gateway"
	"github.com/jeongminsang/travelnote-jp/internal/log"
	"github.com/jeongminsang/travelnote-jp/internal/pdf"
	"github.com/jeongminsang/travelnote-jp/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := gateway.NewMemory()
	schedule := services.NewScheduleService(store, nil)
	checklists := services.NewChecklistService(store)
	exporter := pdf.NewExporter("Japan Trip", "")
	logger := log.New(log.DefaultConfig())

	s := NewServer("127.0.0.1:0", schedule, checklists, exporter, logger)
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec := get(t, s, "/readyz")
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ready"`) {
		t.Errorf("readyz body = %q, want ready status", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"pdf"`) || !strings.Contains(rec.Body.String(), `"stats"`) {
		t.Errorf("readyz body = %q, want per-cache entry counts", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"suspicious_requests"`) {
		t.Errorf("readyz body = %q, want security counters", rec.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("index status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{"1일차", "4일차", "쇼핑리스트", "먹킷리스트"} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestCreateScheduleAndListDay(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/schedule", url.Values{
		"day":            {"2"},
		"title":          {"Tsukiji market"},
		"start":          {"09:30"},
		"end":            {"11:00"},
		"type":           {"food"},
		"location":       {"Tsukiji"},
		"cost_food":      {"2500"},
		"cost_transport": {"400"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %q", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "schedule:changed") || !strings.Contains(trigger, "dashboard:refresh") {
		t.Errorf("HX-Trigger = %q, want schedule:changed and dashboard:refresh", trigger)
	}

	list := get(t, s, "/ui/schedule?day=2")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	body := list.Body.String()
	if !strings.Contains(body, "Tsukiji market") {
		t.Errorf("day 2 list missing created item: %q", body)
	}
	if !strings.Contains(body, "09:30 - 11:00") {
		t.Errorf("day 2 list missing time label: %q", body)
	}

	other := get(t, s, "/ui/schedule?day=1")
	if strings.Contains(other.Body.String(), "Tsukiji market") {
		t.Error("item leaked into day 1 list")
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{
			name: "missing title",
			form: url.Values{"day": {"1"}, "start": {"09:00"}, "type": {"etc"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "missing start",
			form: url.Values{"day": {"1"}, "title": {"x"}, "type": {"etc"}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad type",
			form: url.Values{"day": {"1"}, "title": {"x"}, "start": {"09:00"}, "type": {"nonsense"}},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, s, "/schedule", tt.form)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	// Nothing should have been persisted.
	if body := get(t, s, "/ui/schedule?day=1").Body.String(); !strings.Contains(body, "등록된 일정이 없습니다") {
		t.Errorf("day 1 should be empty after rejected creates: %q", body)
	}
}

func TestToggleAndDeleteSchedule(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/schedule", url.Values{
		"day": {"3"}, "title": {"Shibuya"}, "start": {"14:00"}, "type": {"sightseeing"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d", rec.Code)
	}

	items := s.schedule.ItemsForDay(3)
	if len(items) != 1 {
		t.Fatalf("day 3 has %d items, want 1", len(items))
	}
	id := items[0].ID

	toggle := postForm(t, s, "/schedule/toggle", url.Values{
		"id": {id}, "day": {"3"}, "completed": {"true"},
	})
	if toggle.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", toggle.Code)
	}
	if !s.schedule.ItemsForDay(3)[0].Completed {
		t.Error("item not marked completed after toggle")
	}

	del := postForm(t, s, "/schedule/delete", url.Values{"id": {id}, "day": {"3"}})
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}
	if len(s.schedule.ItemsForDay(3)) != 0 {
		t.Error("item still present after delete")
	}

	missing := postForm(t, s, "/schedule/delete", url.Values{"id": {id}, "day": {"3"}})
	if missing.Code != http.StatusNotFound {
		t.Errorf("deleting missing item status = %d, want %d", missing.Code, http.StatusNotFound)
	}
}

func TestUpdateSchedule(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/schedule", url.Values{
		"day": {"2"}, "title": {"Ueno park"}, "start": {"10:00"}, "type": {"sightseeing"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d", rec.Code)
	}
	id := s.schedule.ItemsForDay(2)[0].ID

	upd := postForm(t, s, "/schedule/update", url.Values{
		"id": {id}, "day": {"3"}, "title": {"Ueno zoo"}, "start": {"11:00"},
		"type": {"sightseeing"}, "cost_etc": {"600"},
	})
	if upd.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %q", upd.Code, upd.Body.String())
	}

	if len(s.schedule.ItemsForDay(2)) != 0 {
		t.Error("item still in day 2 after moving to day 3")
	}
	moved := s.schedule.ItemsForDay(3)
	if len(moved) != 1 || moved[0].Title != "Ueno zoo" || moved[0].Costs.Total() != 600 {
		t.Errorf("day 3 items = %+v, want renamed item with cost 600", moved)
	}

	noID := postForm(t, s, "/schedule/update", url.Values{
		"day": {"3"}, "title": {"x"}, "start": {"11:00"}, "type": {"etc"},
	})
	if noID.Code != http.StatusBadRequest {
		t.Errorf("update without id status = %d, want %d", noID.Code, http.StatusBadRequest)
	}
}

func TestScheduleMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/schedule")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /schedule status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != "POST" {
		t.Errorf("Allow = %q, want POST", got)
	}
}

func TestChecklistFlow(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/checklist", url.Values{
		"category": {"shopping"}, "title": {"Royce chocolate"}, "note": {"airport"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %q", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Royce chocolate") {
		t.Errorf("create response missing item: %q", rec.Body.String())
	}

	items, err := s.checklists.List(context.Background(), "shopping")
	if err != nil || len(items) != 1 {
		t.Fatalf("list after create: items=%d err=%v", len(items), err)
	}
	id := items[0].ID

	toggle := postForm(t, s, "/checklist/toggle", url.Values{
		"category": {"shopping"}, "id": {id}, "completed": {"true"},
	})
	if toggle.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", toggle.Code)
	}
	if !strings.Contains(toggle.Body.String(), "1 / 1") {
		t.Errorf("toggle response missing progress: %q", toggle.Body.String())
	}

	del := postForm(t, s, "/checklist/delete", url.Values{
		"category": {"shopping"}, "id": {id},
	})
	if del.Code != http.StatusOK {
		t.Fatalf("delete status = %d", del.Code)
	}
	if strings.Contains(del.Body.String(), "Royce chocolate") {
		t.Errorf("delete response still lists item: %q", del.Body.String())
	}
}

func TestDeleteControlsRequireConfirmation(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/schedule", url.Values{
		"day": {"1"}, "title": {"Asakusa"}, "start": {"09:00"}, "type": {"sightseeing"},
	})
	postForm(t, s, "/checklist", url.Values{
		"category": {"shopping"}, "title": {"Tokyo Banana"},
	})

	schedule := get(t, s, "/ui/schedule?day=1").Body.String()
	if !strings.Contains(schedule, `hx-post="/schedule/delete"`) {
		t.Fatalf("schedule partial missing delete form: %q", schedule)
	}
	if !strings.Contains(schedule, "hx-confirm=") {
		t.Error("schedule delete form has no confirmation prompt")
	}

	checklist := get(t, s, "/ui/checklist?category=shopping").Body.String()
	if !strings.Contains(checklist, `hx-post="/checklist/delete"`) {
		t.Fatalf("checklist partial missing delete form: %q", checklist)
	}
	deleteForm := checklist[strings.Index(checklist, `hx-post="/checklist/delete"`):]
	if !strings.Contains(deleteForm, "hx-confirm=") {
		t.Error("checklist delete form has no confirmation prompt")
	}
}

func TestUpdateChecklistItem(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/checklist", url.Values{
		"category": {"food"}, "title": {"Ichiran"},
	})
	items, err := s.checklists.List(context.Background(), "food")
	if err != nil || len(items) != 1 {
		t.Fatalf("list after create: items=%d err=%v", len(items), err)
	}

	upd := postForm(t, s, "/checklist/update", url.Values{
		"category": {"food"}, "id": {items[0].ID}, "title": {"Ichiran Shibuya"}, "note": {"open late"},
	})
	if upd.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %q", upd.Code, upd.Body.String())
	}
	if body := upd.Body.String(); !strings.Contains(body, "Ichiran Shibuya") || !strings.Contains(body, "open late") {
		t.Errorf("update response missing edited fields: %q", body)
	}
}

func TestChecklistValidation(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(t, s, "/checklist", url.Values{
		"category": {"food"}, "title": {"   "},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank title status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	missing := postForm(t, s, "/checklist/toggle", url.Values{
		"category": {"food"}, "id": {"nope"}, "completed": {"true"},
	})
	if missing.Code != http.StatusNotFound {
		t.Errorf("toggle missing item status = %d, want %d", missing.Code, http.StatusNotFound)
	}
}

func TestDashboardPartial(t *testing.T) {
	s := newTestServer(t)

	empty := get(t, s, "/ui/dashboard")
	if empty.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", empty.Code)
	}
	if !strings.Contains(empty.Body.String(), "아직 등록된 비용이 없습니다") {
		t.Errorf("empty dashboard body = %q", empty.Body.String())
	}

	postForm(t, s, "/schedule", url.Values{
		"day": {"1"}, "title": {"Ramen"}, "start": {"12:00"}, "type": {"food"},
		"cost_food": {"1200"},
	})

	rec := get(t, s, "/ui/dashboard")
	body := rec.Body.String()
	if !strings.Contains(body, "1,200") {
		t.Errorf("dashboard missing total after create: %q", body)
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	// Prime the cache.
	get(t, s, "/ui/dashboard")
	if s.statsCache.Size() != 1 {
		t.Fatalf("stats cache size = %d, want 1", s.statsCache.Size())
	}

	postForm(t, s, "/schedule", url.Values{
		"day": {"1"}, "title": {"Ramen"}, "start": {"12:00"}, "type": {"food"},
		"cost_food": {"800"},
	})
	if s.statsCache.Size() != 0 {
		t.Error("stats cache not purged after schedule mutation")
	}
}

func TestExportPDF(t *testing.T) {
	s := newTestServer(t)

	postForm(t, s, "/schedule", url.Values{
		"day": {"1"}, "title": {"Narita arrival"}, "start": {"10:00"}, "type": {"flight"},
	})

	rec := get(t, s, "/export/pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
		t.Error("export body is not a PDF document")
	}
	if s.pdfCache.Size() != 1 {
		t.Errorf("pdf cache size = %d, want 1 after export", s.pdfCache.Size())
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	defer rl.stop()

	metrics := &securityMetrics{}
	for i := 0; i < 3; i++ {
		if !rl.allow("10.1.1.1", metrics) {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.allow("10.1.1.1", metrics) {
		t.Error("request over the limit allowed, want denied")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", metrics.rateLimitHits)
	}
	if rl.allow("10.1.1.2", metrics) != true {
		t.Error("unrelated client denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)
	defer rl.stop()

	if !rl.allow("10.1.1.1", nil) {
		t.Fatal("first request denied")
	}
	if rl.allow("10.1.1.1", nil) {
		t.Fatal("second request inside window allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.allow("10.1.1.1", nil) {
		t.Error("request after window elapsed denied")
	}
}
