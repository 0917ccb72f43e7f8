package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/jeongminsang/travelnote-jp/internal/cache"
	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/log"
	"github.com/jeongminsang/travelnote-jp/internal/pdf"
	"github.com/jeongminsang/travelnote-jp/internal/services"
	appweb "github.com/jeongminsang/travelnote-jp/web"
)

const statsCacheKey = "trip-stats"
const pdfCacheKey = "trip-pdf"

// mutationRateLimit caps POST requests per client per minute.
const mutationRateLimit = 60

type Server struct {
	http.Server
	templates  *template.Template
	schedule   *services.ScheduleService
	checklists *services.ChecklistService
	exporter   *pdf.Exporter

	logger     *log.Logger
	structured *log.StructuredLogger

	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Derived data caches, purged on every schedule mutation.
	statsCache   *cache.LRUCache[core.TripStats]
	pdfCache     *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, schedule *services.ScheduleService, checklists *services.ChecklistService, exporter *pdf.Exporter, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		schedule:    schedule,
		checklists:  checklists,
		exporter:    exporter,
		logger:      logger.WithComponent(log.ComponentHTTP),
		structured:  log.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(mutationRateLimit, time.Minute),
		metrics:     &securityMetrics{},
		statsCache:  cache.NewLRUCache[core.TripStats](4, 5*time.Minute),
		pdfCache:    cache.NewLRUCache[[]byte](2, 5*time.Minute),
	}

	s.cacheManager = cache.NewManager(s.logger.Logger)
	s.cacheManager.Register("stats", s.statsCache)
	s.cacheManager.Register("pdf", s.pdfCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/schedule", s.withSecurityHeaders(s.handleCreateSchedule))
	mux.HandleFunc("/schedule/update", s.withSecurityHeaders(s.handleUpdateSchedule))
	mux.HandleFunc("/schedule/toggle", s.withSecurityHeaders(s.handleToggleSchedule))
	mux.HandleFunc("/schedule/delete", s.withSecurityHeaders(s.handleDeleteSchedule))

	mux.HandleFunc("/checklist", s.withSecurityHeaders(s.handleCreateChecklistItem))
	mux.HandleFunc("/checklist/update", s.withSecurityHeaders(s.handleUpdateChecklistItem))
	mux.HandleFunc("/checklist/toggle", s.withSecurityHeaders(s.handleToggleChecklistItem))
	mux.HandleFunc("/checklist/delete", s.withSecurityHeaders(s.handleDeleteChecklistItem))

	// UI partials
	mux.HandleFunc("/ui/schedule", s.withSecurityHeaders(s.handleScheduleDay))
	mux.HandleFunc("/ui/checklist", s.withSecurityHeaders(s.handleChecklistPane))
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))

	mux.HandleFunc("/export/pdf", s.withSecurityHeaders(s.handleExportPDF))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting on mutations,
// request IDs and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), log.LoggerContextKey, s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request detected",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		s.structured.LogHTTPStart(ctx, r, clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidateDerived purges caches built from schedule state. Called after
// every successful schedule mutation.
func (s *Server) invalidateDerived() {
	s.statsCache.Purge()
	s.pdfCache.Purge()
}

func (s *Server) getStats() core.TripStats {
	if stats, ok := s.statsCache.Get(statsCacheKey); ok {
		return stats
	}
	stats := s.schedule.Stats()
	s.statsCache.Set(statsCacheKey, stats)
	return stats
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"jpy":       core.FormatJPY,
		"krw":       core.FormatKRW,
		"typeLabel": func(t core.ScheduleType) string { return t.Label() },
	}
}
