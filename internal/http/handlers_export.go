package http

import (
	"net/http"
	"strconv"

	"github.com/jeongminsang/travelnote-jp/internal/log"
)

// handleExportPDF renders the full itinerary as a PDF download. The rendered
// bytes are cached until the next schedule mutation; nothing is written to
// the response until rendering has fully succeeded.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	if s.exporter == nil {
		http.Error(w, "PDF export not configured", http.StatusServiceUnavailable)
		return
	}

	doc, ok := s.pdfCache.Get(pdfCacheKey)
	if !ok {
		var err error
		doc, err = s.exporter.Export(s.schedule.Snapshot(), s.schedule.Days(), s.getStats())
		if err != nil {
			s.structured.LogError(r.Context(), "PDF export failed", err,
				log.ComponentPDF, log.OpExport, log.NewFields())
			http.Error(w, "PDF 생성에 실패했습니다. 다시 시도해 주세요", http.StatusInternalServerError)
			return
		}
		s.pdfCache.Set(pdfCacheKey, doc)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="travelnote.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
