package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shotscraper/internal/config"
)

// Manager accumulates counters for one CLI run and writes them in the
// Prometheus textfile format. A nil Manager is a no-op.
type Manager struct {
	path string
	mu   sync.Mutex

	filenamesAllocated int64
	collisionsSkipped  int64
	scriptsFetched     int64
	scriptBytes        int64
	fetchFailures      int64
	lastFetchSec       float64
}

func New(cfg *config.Config) *Manager {
	if cfg == nil || !cfg.Metrics.PrometheusTextfile.Enabled || cfg.Metrics.PrometheusTextfile.Path == "" {
		return nil
	}
	p := cfg.Metrics.PrometheusTextfile.Path
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	return &Manager{path: p}
}

// ObserveFilename records one allocation and how many taken names it skipped.
func (m *Manager) ObserveFilename(skipped int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.filenamesAllocated++
	m.collisionsSkipped += int64(skipped)
	m.mu.Unlock()
}

func (m *Manager) ObserveScript(bytes int64, sec float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.scriptsFetched++
	m.scriptBytes += bytes
	m.lastFetchSec = sec
	m.mu.Unlock()
}

func (m *Manager) IncFetchFailures() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.fetchFailures++
	m.mu.Unlock()
}

func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.CreateTemp(filepath.Dir(m.path), ".metrics.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	write := func(name, kind, help string, v any) {
		fmt.Fprintf(f, "# HELP %s %s\n", name, help)
		fmt.Fprintf(f, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(f, "%s %v\n", name, v)
	}
	write("shotscraper_filenames_allocated_total", "counter", "Output filenames handed out.", m.filenamesAllocated)
	write("shotscraper_filename_collisions_total", "counter", "Taken candidate names skipped during allocation.", m.collisionsSkipped)
	write("shotscraper_scripts_fetched_total", "counter", "Scripts loaded from GitHub.", m.scriptsFetched)
	write("shotscraper_script_bytes_total", "counter", "Bytes of script text loaded.", m.scriptBytes)
	write("shotscraper_script_fetch_failures_total", "counter", "Failed script loads.", m.fetchFailures)
	write("shotscraper_last_fetch_seconds", "gauge", "Duration of the last script fetch in seconds.", fmt.Sprintf("%.6f", m.lastFetchSec))
	write("shotscraper_metrics_timestamp_seconds", "gauge", "UNIX timestamp when this file was written.", time.Now().Unix())

	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), m.path)
}
