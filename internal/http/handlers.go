package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/log"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady performs a readiness check over the server's dependencies.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.schedule == nil {
		checks["schedule_service"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["schedule_service"] = "ok"
	}

	checks["cache"] = s.cacheManager.Sizes()
	checks["security"] = s.metrics.snapshot()

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// typeOption pairs a schedule type tag with its display label for the
// add/edit form select.
type typeOption struct {
	Value core.ScheduleType
	Label string
}

// checklistTab pairs a checklist category with its tab label.
type checklistTab struct {
	Value core.ChecklistCategory
	Label string
}

// scheduleTypeOptions lists the schedule types in form display order.
func scheduleTypeOptions() []typeOption {
	types := make([]typeOption, 0, len(core.ScheduleTypeLabels))
	for _, t := range []core.ScheduleType{
		core.TypeFlight, core.TypeTransport, core.TypeFood, core.TypeHotel,
		core.TypeSightseeing, core.TypeShopping, core.TypeEtc,
	} {
		types = append(types, typeOption{Value: t, Label: t.Label()})
	}
	return types
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	tabs := make([]checklistTab, 0, len(core.ChecklistCategories))
	for _, c := range core.ChecklistCategories {
		tabs = append(tabs, checklistTab{Value: c, Label: c.Label()})
	}

	data := struct {
		Days           []int
		ActiveDay      int
		Types          []typeOption
		CostCategories []core.CostCategory
		ChecklistTabs  []checklistTab
	}{
		Days:           s.schedule.Days(),
		ActiveDay:      parseDay(r.URL.Query().Get("day")),
		Types:          scheduleTypeOptions(),
		CostCategories: core.CostCategories,
		ChecklistTabs:  tabs,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
