package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
	"github.com/jeongminsang/travelnote-jp/internal/log"
	"github.com/jeongminsang/travelnote-jp/internal/services"
)

// handleChecklistPane renders one checklist category as a partial.
func (s *Server) handleChecklistPane(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	cat := parseCategory(r.URL.Query().Get("category"))
	items, err := s.checklists.List(r.Context(), cat)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Checklist list error",
			log.FieldError, err, log.FieldCategory, string(cat))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<section id="checklist-pane"><div class="placeholder">목록을 불러올 수 없습니다 <button hx-get="/ui/checklist?category=` + string(cat) + `" hx-target="#checklist-pane">다시 시도</button></div></section>`))
		return
	}

	s.renderChecklist(w, r, cat, items)
}

// renderChecklist writes the checklist partial for a category. Mutation
// handlers reuse it so responses always carry the refetched list.
func (s *Server) renderChecklist(w http.ResponseWriter, r *http.Request, cat core.ChecklistCategory, items []core.ChecklistItem) {
	progress := core.Progress(items)

	data := struct {
		Category core.ChecklistCategory
		Label    string
		Items    []core.ChecklistItem
		Done     int
		Total    int
		Percent  float64
	}{
		Category: cat,
		Label:    cat.Label(),
		Items:    items,
		Done:     progress.Done,
		Total:    progress.Total,
		Percent:  progress.Percent(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="checklist-pane"><div class="placeholder">` + cat.Label() + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "checklist.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Checklist partial render failed",
			log.FieldError, err, log.FieldCategory, string(cat), "template", "checklist.html")
		_, _ = w.Write([]byte(`<section id="checklist-pane"><div class="placeholder">목록 표시 중 오류가 발생했습니다</div></section>`))
	}
}

// handleCreateChecklistItem adds an item to a category list and responds with
// the refetched list.
func (s *Server) handleCreateChecklistItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	cat := parseCategory(r.Form.Get("category"))
	item := core.ChecklistItem{
		Title:    sanitizeInput(r.Form.Get("title")),
		Note:     sanitizeInput(r.Form.Get("note")),
		Category: cat,
	}

	items, err := s.checklists.Create(r.Context(), item)
	if err != nil {
		s.writeChecklistError(w, r, err, log.OpCreate, cat)
		return
	}

	w.Header().Set("HX-Trigger", `{"checklist:changed": {"category": "`+string(cat)+`"}, "form:reset": {}}`)
	s.renderChecklist(w, r, cat, items)
}

// handleUpdateChecklistItem edits an item's title and note.
func (s *Server) handleUpdateChecklistItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	cat := parseCategory(r.Form.Get("category"))
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		BadRequestError("항목을 찾을 수 없습니다").Write(w)
		return
	}

	items, err := s.checklists.Update(r.Context(), cat, id,
		sanitizeInput(r.Form.Get("title")), sanitizeInput(r.Form.Get("note")))
	if err != nil {
		s.writeChecklistError(w, r, err, log.OpUpdate, cat)
		return
	}

	s.renderChecklist(w, r, cat, items)
}

// handleToggleChecklistItem flips an item's completed flag. A second toggle
// on the same item while one is still in flight is rejected with a 409.
func (s *Server) handleToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	cat := parseCategory(r.Form.Get("category"))
	id := strings.TrimSpace(r.Form.Get("id"))
	completed := r.Form.Get("completed") == "true" || r.Form.Get("completed") == "on"
	if id == "" {
		BadRequestError("항목을 찾을 수 없습니다").Write(w)
		return
	}

	items, err := s.checklists.Toggle(r.Context(), cat, id, completed)
	if err != nil {
		s.writeChecklistError(w, r, err, log.OpToggle, cat)
		return
	}

	s.renderChecklist(w, r, cat, items)
}

// handleDeleteChecklistItem removes an item from its category list.
func (s *Server) handleDeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("잘못된 요청 형식입니다").Write(w)
		return
	}

	cat := parseCategory(r.Form.Get("category"))
	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		BadRequestError("항목을 찾을 수 없습니다").Write(w)
		return
	}

	items, err := s.checklists.Delete(r.Context(), cat, id)
	if err != nil {
		s.writeChecklistError(w, r, err, log.OpDelete, cat)
		return
	}

	s.renderChecklist(w, r, cat, items)
}

// writeChecklistError maps checklist service errors to HTTP responses.
func (s *Server) writeChecklistError(w http.ResponseWriter, r *http.Request, err error, op string, cat core.ChecklistCategory) {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		UnprocessableEntityError("항목 이름을 입력해 주세요").Write(w)
	case errors.Is(err, core.ErrInvalidCategory):
		BadRequestError("잘못된 체크리스트입니다").Write(w)
	case errors.Is(err, services.ErrToggleInFlight):
		ConflictError("이미 처리 중인 항목입니다").Write(w)
	case errors.Is(err, gateway.ErrNotFound):
		NotFoundError("항목을 찾을 수 없습니다").Write(w)
	default:
		s.structured.LogError(r.Context(), "Checklist operation failed", err,
			log.ComponentChecklist, op,
			log.LogFields{log.FieldCategory: string(cat)})
		InternalServerError("저장에 실패했습니다. 다시 시도해 주세요").Write(w)
	}
}
