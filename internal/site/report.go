package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportFile is written next to the exported pages.
const ReportFile = "build_report.json"

// Signal severities, highest first.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

type Signal struct {
	Code     string `json:"code"`
	Stage    string `json:"stage"`
	Severity string `json:"severity"`
	Subject  string `json:"subject,omitempty"` // document key or path
	Message  string `json:"message"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	FinishedAt string             `json:"finished_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// PageMetric records one exported file.
type PageMetric struct {
	Route  string `json:"route"`
	File   string `json:"file"`
	Status int    `json:"status"`
	Bytes  int    `json:"bytes"`
}

type ReportSummary struct {
	StageCount        int            `json:"stage_count"`
	PageCount         int            `json:"page_count"`
	FailedStages      int            `json:"failed_stages"`
	TotalBytes        int            `json:"total_bytes"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
}

// Report describes one static export.
type Report struct {
	Version     string        `json:"version"`
	GeneratedAt string        `json:"generated_at"`
	OutputDir   string        `json:"output_dir"`
	Stages      []StageMetric `json:"stages"`
	Pages       []PageMetric  `json:"pages,omitempty"`
	Signals     []Signal      `json:"signals,omitempty"`
	Summary     ReportSummary `json:"summary"`

	now func() time.Time
}

type StageHandle struct {
	name    string
	started time.Time
}

func NewReport(outputDir string) *Report {
	r := &Report{
		Version:   "v1",
		OutputDir: outputDir,
		Stages:    []StageMetric{},
		Pages:     []PageMetric{},
		Signals:   []Signal{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	r.GeneratedAt = r.now().Format(time.RFC3339)
	return r
}

func (r *Report) BeginStage(name string) StageHandle {
	return StageHandle{name: strings.TrimSpace(name), started: r.now()}
}

// EndStage records a finished stage. A non-nil err marks it failed.
func (r *Report) EndStage(h StageHandle, counters map[string]float64, err error) {
	if r == nil || h.name == "" {
		return
	}
	finished := r.now()
	m := StageMetric{
		Name:       h.name,
		Status:     "ok",
		StartedAt:  h.started.Format(time.RFC3339Nano),
		FinishedAt: finished.Format(time.RFC3339Nano),
		DurationMS: finished.Sub(h.started).Milliseconds(),
		Counters:   cleanCounters(counters),
	}
	if err != nil {
		m.Status = "error"
		m.Error = err.Error()
	}
	r.Stages = append(r.Stages, m)
}

// AddSignal drops signals missing a code, stage, severity or message.
func (r *Report) AddSignal(code, stage, severity, subject, message string) {
	if r == nil {
		return
	}
	s := Signal{
		Code:     strings.TrimSpace(code),
		Stage:    strings.TrimSpace(stage),
		Severity: strings.ToLower(strings.TrimSpace(severity)),
		Subject:  strings.TrimSpace(subject),
		Message:  strings.TrimSpace(message),
	}
	if s.Code == "" || s.Stage == "" || s.Severity == "" || s.Message == "" {
		return
	}
	r.Signals = append(r.Signals, s)
}

func (r *Report) AddPage(m PageMetric) {
	if r == nil || m.File == "" {
		return
	}
	r.Pages = append(r.Pages, m)
}

// Finalize orders signals by severity and fills in the summary.
func (r *Report) Finalize() {
	if r == nil {
		return
	}
	r.GeneratedAt = r.now().Format(time.RFC3339)
	bySeverity := map[string]int{
		SeverityCritical: 0,
		SeverityWarning:  0,
		SeverityInfo:     0,
	}
	sort.SliceStable(r.Signals, func(i, j int) bool {
		pi, pj := signalPriority(r.Signals[i].Severity), signalPriority(r.Signals[j].Severity)
		if pi == pj {
			if r.Signals[i].Stage == r.Signals[j].Stage {
				return r.Signals[i].Code < r.Signals[j].Code
			}
			return r.Signals[i].Stage < r.Signals[j].Stage
		}
		return pi > pj
	})
	for _, s := range r.Signals {
		bySeverity[s.Severity]++
	}

	failed := 0
	for _, st := range r.Stages {
		if st.Status != "ok" {
			failed++
		}
	}
	total := 0
	for _, p := range r.Pages {
		total += p.Bytes
	}

	r.Summary = ReportSummary{
		StageCount:        len(r.Stages),
		PageCount:         len(r.Pages),
		FailedStages:      failed,
		TotalBytes:        total,
		SignalsBySeverity: bySeverity,
	}
}

func (r *Report) Save(path string) error {
	if r == nil {
		return nil
	}
	r.Finalize()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func cleanCounters(raw map[string]float64) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if key := strings.TrimSpace(k); key != "" {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func signalPriority(severity string) int {
	switch severity {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}
