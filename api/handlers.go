package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"desigo/bms"
	"desigo/report"
	"desigo/sheet"
	"desigo/upload"
	"desigo/utils"
)

type totalsResponse struct {
	Timestamp   string `json:"timestamp"`
	TotalCount  int    `json:"total_count"`
	TotalPanels int    `json:"total_panels"`
}

type panelRow struct {
	Timestamp string         `json:"timestamp"`
	Counts    map[string]int `json:"counts"`
}

type panelsResponse struct {
	Panels []string   `json:"panels"`
	Rows   []panelRow `json:"rows"`
}

type metricsResponse struct {
	ReportType  bms.ReportType `json:"report_type"`
	TotalCount  report.Metric  `json:"total_count"`
	TotalPanels report.Metric  `json:"total_panels"`
}

type uploadResponse struct {
	SampleID    int64          `json:"sample_id"`
	Timestamp   string         `json:"timestamp"`
	SensorType  bms.SystemType `json:"sensor_type"`
	ReportType  bms.ReportType `json:"report_type"`
	TotalCount  int            `json:"total_count"`
	TotalPanels int            `json:"total_panels"`
	PanelCounts map[string]int `json:"panel_counts"`
}

func (s *Server) getSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListSites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if sites == nil {
		sites = []bms.Site{}
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) getSamples(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries(r)
	if err != nil {
		writeError(w, err)
		return
	}

	samples := make([]bms.Sample, len(entries))
	for i, e := range entries {
		samples[i] = e.Sample
	}
	writeJSON(w, http.StatusOK, samples)
}

func (s *Server) getTotals(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries(r)
	if err != nil {
		writeError(w, err)
		return
	}

	totals := report.Totals(entries)
	resp := make([]totalsResponse, len(totals))
	for i, row := range totals {
		resp[i] = totalsResponse{
			Timestamp:   bms.FormatSampleTime(row.Time),
			TotalCount:  row.TotalCount,
			TotalPanels: row.TotalPanels,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getPanels(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries(r)
	if err != nil {
		writeError(w, err)
		return
	}

	table := report.Panels(entries)
	resp := panelsResponse{Panels: table.Panels, Rows: make([]panelRow, len(table.Times))}
	if resp.Panels == nil {
		resp.Panels = []string{}
	}

	for i, t := range table.Times {
		counts := make(map[string]int, len(table.Panels))
		for j, panel := range table.Panels {
			counts[panel] = table.Counts[i][j]
		}
		resp.Rows[i] = panelRow{Timestamp: bms.FormatSampleTime(t), Counts: counts}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getOverview(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := report.Overview(entries)
	resp := make([]map[string]any, len(rows))
	for i, row := range rows {
		resp[i] = map[string]any{"timestamp": bms.FormatSampleTime(row.Time)}
		for _, t := range bms.REPORT_TYPES {
			resp[i][t.String()] = row.Counts[t]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	reportType, err := reportParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if reportType == nil {
		writeError(w, badRequest{errors.New("report_type is required")})
		return
	}

	entries, err := s.entries(r)
	if err != nil {
		writeError(w, err)
		return
	}

	totals := report.Totals(entries)
	counts := make([]int, len(totals))
	panels := make([]int, len(totals))
	for i, row := range totals {
		counts[i] = row.TotalCount
		panels[i] = row.TotalPanels
	}

	countMetric, err := report.Metrics(counts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	panelMetric, _ := report.Metrics(panels)

	writeJSON(w, http.StatusOK, metricsResponse{
		ReportType:  *reportType,
		TotalCount:  countMetric,
		TotalPanels: panelMetric,
	})
}

func (s *Server) getPoints(w http.ResponseWriter, r *http.Request) {
	reportType, err := reportParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	points, err := report.PanelPoints(r.Context(), s.store, mux.Vars(r)["site"], reportType, query.Get("panel"), query.Get("timestamp"))
	if err != nil {
		writeError(w, err)
		return
	}

	if points == nil {
		points = []bms.Point{}
	}
	writeJSON(w, http.StatusOK, points)
}

// Multipart form with the report "file" and the "site", "new_site", "system",
// "report" and "date" fields
func (s *Server) postUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MAX_UPLOAD_MEMORY); err != nil {
		writeError(w, badRequest{err})
		return
	}

	req, err := uploadRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, badRequest{err})
		return
	}
	defer file.Close()

	req.Filename = header.Filename
	req.Rows, err = sheet.Read(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := upload.Ingest(r.Context(), s.store, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		SampleID:    result.SampleID,
		Timestamp:   result.Sample.Timestamp,
		SensorType:  result.Sample.SensorType,
		ReportType:  result.Sample.ReportType,
		TotalCount:  result.Sample.TotalCount,
		TotalPanels: result.Sample.TotalPanels,
		PanelCounts: result.Sample.PanelCounts,
	})
}

func uploadRequest(r *http.Request) (upload.Request, error) {
	req := upload.Request{Site: r.FormValue("site")}
	if req.Site == "" {
		return req, badRequest{errors.New("site is required")}
	}

	if value := r.FormValue("new_site"); value != "" {
		newSite, err := strconv.ParseBool(value)
		if err != nil {
			return req, badRequest{err}
		}
		req.NewSite = newSite
	}

	if value := r.FormValue("system"); value != "" {
		system, err := bms.ParseSystemType(value)
		if err != nil {
			return req, badRequest{err}
		}
		req.System = &system
	}

	if value := r.FormValue("report"); value != "" {
		reportType, err := bms.ParseReportType(value)
		if err != nil {
			return req, badRequest{err}
		}
		req.Report = &reportType
	}

	var date *utils.Timestamp
	if value := r.FormValue("date"); value != "" {
		date = &utils.Timestamp{}
		if err := date.UnmarshalText([]byte(value)); err != nil {
			return req, badRequest{err}
		}
	}
	req.SampleTime = date.Time()

	return req, nil
}
