package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rickb777/period"

	"desigo/bms"
	"desigo/report"
	"desigo/sheet"
	"desigo/store"
	"desigo/upload"
)

// Max size of an uploaded report kept in memory, larger parts go to temporary files
const MAX_UPLOAD_MEMORY int64 = 32 << 20

type Store interface {
	report.Querier
	upload.Writer
}

type Server struct {
	store  Store
	router *mux.Router
	now    func() time.Time
}

func NewServer(store Store) *Server {
	s := &Server{
		store:  store,
		router: mux.NewRouter(),
		now:    time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.HandleFunc("/api/sites", s.getSites).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/samples", s.getSamples).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/totals", s.getTotals).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/panels", s.getPanels).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/overview", s.getOverview).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/metrics", s.getMetrics).Methods("GET")
	s.router.HandleFunc("/api/sites/{site}/points", s.getPoints).Methods("GET")

	s.router.HandleFunc("/api/uploads", s.postUpload).Methods("POST", "OPTIONS")
}

type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response: " + err.Error())
	}
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	var bad badRequest

	switch {
	case errors.As(err, &bad):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrSiteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bms.ErrMissingColumn),
		errors.Is(err, bms.ErrUnsupportedSystemType),
		errors.Is(err, bms.ErrUnsupportedReportType),
		errors.Is(err, upload.ErrTypeNotResolved),
		errors.Is(err, sheet.ErrNoHeader),
		errors.Is(err, sheet.ErrUnsupportedFormat):
		status = http.StatusUnprocessableEntity
	default:
		slog.Error(err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Optional report_type query parameter
func reportParam(r *http.Request) (*bms.ReportType, error) {
	value := r.URL.Query().Get("report_type")
	if value == "" {
		return nil, nil
	}

	report, err := bms.ParseReportType(value)
	if err != nil {
		return nil, badRequest{err}
	}
	return &report, nil
}

// Loads the deduplicated samples selected by the site path variable and
// the report_type and since query parameters
func (s *Server) entries(r *http.Request) ([]report.Entry, error) {
	reportType, err := reportParam(r)
	if err != nil {
		return nil, err
	}

	entries, err := report.SiteSamples(r.Context(), s.store, mux.Vars(r)["site"], reportType)
	if err != nil {
		return nil, err
	}

	if since := r.URL.Query().Get("since"); since != "" {
		p, err := period.Parse(since)
		if err != nil {
			return nil, badRequest{err}
		}
		entries = report.Since(entries, p, s.now())
	}

	return entries, nil
}
