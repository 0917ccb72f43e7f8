package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
	"github.com/jeongminsang/travelnote-jp/internal/log"
)

// scheduleRow is one rendered schedule entry. Start, End and Type carry the
// raw values the inline edit form is prefilled with.
type scheduleRow struct {
	ID          string
	TimeLabel   string
	TypeLabel   string
	Start       string
	End         string
	Type        string
	Title       string
	Location    string
	LocationURL string
	Note        string
	CostJPY     int
	Completed   bool
}

// handleScheduleDay renders the schedule list partial for one day.
func (s *Server) handleScheduleDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	day := parseDay(r.URL.Query().Get("day"))
	items := s.schedule.ItemsForDay(day)

	rows := make([]scheduleRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, scheduleRow{
			ID:          it.ID,
			TimeLabel:   it.TimeLabel(),
			TypeLabel:   it.Type.Label(),
			Start:       it.Start,
			End:         it.End,
			Type:        string(it.Type),
			Title:       it.Title,
			Location:    it.Location,
			LocationURL: it.LocationURL,
			Note:        it.Note,
			CostJPY:     it.Costs.Total(),
			Completed:   it.Completed,
		})
	}

	data := struct {
		Day   int
		Days  []int
		Types []typeOption
		Rows  []scheduleRow
	}{Day: day, Days: s.schedule.Days(), Types: scheduleTypeOptions(), Rows: rows}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="schedule-day"><div class="placeholder">일정을 불러올 수 없습니다</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "schedule_day.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Schedule partial render failed",
			log.FieldError, err, log.FieldDay, day, "template", "schedule_day.html")
		_, _ = w.Write([]byte(`<section id="schedule-day"><div class="placeholder">일정 표시 중 오류가 발생했습니다</div></section>`))
	}
}

// handleCreateSchedule saves a new schedule item submitted from the add form.
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Parse form error",
			log.FieldError, err, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	item := scheduleItemFromForm(r)
	item.ID = ""

	saved, err := s.schedule.Create(r.Context(), item)
	if err != nil {
		s.writeScheduleError(w, r, err, log.OpCreate, item)
		return
	}

	s.invalidateDerived()
	s.structured.LogScheduleSaved(r.Context(), saved.ID, saved.Day, string(saved.Type), saved.Title, saved.Costs.Total())

	NewHTMXResponse().
		TriggerScheduleChanged(saved.Day).
		TriggerDashboardRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("일정이 추가되었습니다").
		BodyHTML(`<div class="success">` + template.HTMLEscapeString(saved.Title) + ` 저장됨</div>`).
		Write(w)
}

// handleUpdateSchedule applies an edit to an existing schedule item. The
// submitted day may differ from the stored one; the service moves the item.
func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	item := scheduleItemFromForm(r)
	if item.ID == "" {
		BadRequestError("수정할 일정을 찾을 수 없습니다").Write(w)
		return
	}

	saved, err := s.schedule.Update(r.Context(), item)
	if err != nil {
		s.writeScheduleError(w, r, err, log.OpUpdate, item)
		return
	}

	s.invalidateDerived()

	NewHTMXResponse().
		TriggerScheduleChanged(saved.Day).
		TriggerDashboardRefresh().
		TriggerSuccessNotification("일정이 수정되었습니다").
		BodyHTML(`<div class="success">` + template.HTMLEscapeString(saved.Title) + ` 수정됨</div>`).
		Write(w)
}

// handleToggleSchedule flips the completed flag of one item.
func (s *Server) handleToggleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	day := parseDay(r.Form.Get("day"))
	completed := r.Form.Get("completed") == "true" || r.Form.Get("completed") == "on"

	if id == "" {
		BadRequestError("일정을 찾을 수 없습니다").Write(w)
		return
	}

	if err := s.schedule.ToggleComplete(r.Context(), id, day, completed); err != nil {
		s.writeScheduleError(w, r, err, log.OpToggle, core.ScheduleItem{ID: id, Day: day})
		return
	}

	s.invalidateDerived()

	NewHTMXResponse().
		TriggerScheduleChanged(day).
		Write(w)
}

// handleDeleteSchedule removes one item.
func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	day := parseDay(r.Form.Get("day"))
	if id == "" {
		BadRequestError("일정을 찾을 수 없습니다").Write(w)
		return
	}

	if err := s.schedule.Delete(r.Context(), id, day); err != nil {
		s.writeScheduleError(w, r, err, log.OpDelete, core.ScheduleItem{ID: id, Day: day})
		return
	}

	s.invalidateDerived()

	NewHTMXResponse().
		TriggerScheduleDeleted(day).
		TriggerDashboardRefresh().
		TriggerSuccessNotification("일정이 삭제되었습니다").
		Write(w)
}

// writeScheduleError maps service errors to HTTP responses. Validation
// failures never reached the gateway, so they get a 422 with a specific
// message; everything else is a generic retry message.
func (s *Server) writeScheduleError(w http.ResponseWriter, r *http.Request, err error, op string, item core.ScheduleItem) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		UnprocessableEntityError("제목을 입력해 주세요").Write(w)
	case errors.Is(err, core.ErrMissingStartTime):
		UnprocessableEntityError("시작 시간을 입력해 주세요").Write(w)
	case errors.Is(err, core.ErrInvalidTime):
		UnprocessableEntityError("시간 형식이 올바르지 않습니다 (HH:MM)").Write(w)
	case errors.Is(err, core.ErrInvalidDay):
		UnprocessableEntityError("잘못된 여행 일차입니다").Write(w)
	case errors.Is(err, core.ErrInvalidType):
		UnprocessableEntityError("잘못된 일정 유형입니다").Write(w)
	case errors.Is(err, gateway.ErrNotFound):
		NotFoundError("일정을 찾을 수 없습니다").Write(w)
	default:
		s.structured.LogError(r.Context(), "Schedule operation failed", err,
			log.ComponentSchedule, op,
			log.NewFields().WithScheduleItem(item.ID, item.Day, string(item.Type), item.Title, item.Costs.Total()))
		InternalServerError("저장에 실패했습니다. 다시 시도해 주세요").Write(w)
	}
}
