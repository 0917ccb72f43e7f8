package http

import (
	"net/http"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/log"
)

// chartRow is one rendered category slice of the cost chart.
type chartRow struct {
	Label   string
	Color   string
	Amount  string
	Percent float64
	Width   int
}

// dayTotalRow is one per-day total line.
type dayTotalRow struct {
	Day    int
	Amount string
}

// handleDashboard renders the cost dashboard partial: grand total, per-day
// totals and the per-category chart, in JPY with the fixed-rate KRW figure.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	stats := s.getStats()

	days := s.schedule.Days()
	perDay := make([]dayTotalRow, 0, len(days))
	for _, d := range days {
		perDay = append(perDay, dayTotalRow{Day: d, Amount: core.FormatJPY(stats.PerDay[d])})
	}

	chart := make([]chartRow, 0, len(stats.Chart))
	for _, c := range stats.Chart {
		width := int(c.Percentage + 0.5)
		if width > 0 && width < 2 {
			width = 2
		}
		if width > 100 {
			width = 100
		}
		chart = append(chart, chartRow{
			Label:   c.Label,
			Color:   c.Color,
			Amount:  core.FormatJPY(c.Value),
			Percent: c.Percentage,
			Width:   width,
		})
	}

	data := struct {
		TotalJPY string
		TotalKRW string
		PerDay   []dayTotalRow
		Chart    []chartRow
		Empty    bool
	}{
		TotalJPY: core.FormatJPY(stats.TotalJPY),
		TotalKRW: core.FormatKRW(stats.TotalJPY),
		PerDay:   perDay,
		Chart:    chart,
		Empty:    stats.TotalJPY == 0,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">합계: ` + data.TotalJPY + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard partial render failed",
			log.FieldError, err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">대시보드 표시 중 오류가 발생했습니다</div></section>`))
	}
}
