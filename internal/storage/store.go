// Package storage keeps verified trace runs on disk and exports scenarios.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/loopviz/internal/metrics"
	"github.com/san-kum/loopviz/internal/trace"
)

const (
	metadataFile = "metadata.json"
	eventsFile   = "events.csv"
)

var eventsHeader = []string{"seq", "at_ms", "kind", "timer_id", "delay_ms", "text"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	OK        bool               `json:"ok"`
	Mismatch  int                `json:"mismatch"`
	Summary   string             `json:"summary"`
	Tasks     int                `json:"tasks"`
	ElapsedMS int64              `json:"elapsed_ms"`
	Authored  []string           `json:"authored"`
	Traced    []string           `json:"traced"`
	Errors    []string           `json:"errors,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes a verification report and its event log under a new run ID.
func (s *Store) Save(rep *trace.Report, ms []metrics.Result) (string, error) {
	if rep == nil || rep.Result == nil {
		return "", errors.New("storage: report has no trace result")
	}
	if err := s.Init(); err != nil {
		return "", err
	}

	now := s.now()
	runID, runDir, err := s.newRunDir(rep.Scenario, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  rep.Scenario,
		Timestamp: now,
		OK:        rep.OK(),
		Mismatch:  rep.Mismatch,
		Summary:   rep.Summary(),
		Tasks:     rep.Result.Tasks,
		ElapsedMS: rep.Result.Elapsed.Milliseconds(),
		Authored:  rep.Authored,
		Traced:    rep.Traced,
		Errors:    rep.Errors,
	}
	if len(ms) > 0 {
		meta.Metrics = make(map[string]float64, len(ms))
		for _, m := range ms {
			meta.Metrics[m.Name] = m.Value
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEvents(filepath.Join(runDir, eventsFile), rep.Result.Events); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates <slug>_<unix>, adding a counter when that already exists.
func (s *Store) newRunDir(scenario string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", slug(scenario), now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeEvents(path string, events []trace.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(eventsHeader); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			strconv.Itoa(ev.Seq),
			strconv.FormatInt(ev.At.Milliseconds(), 10),
			string(ev.Kind),
			strconv.FormatInt(ev.TimerID, 10),
			strconv.FormatInt(ev.Delay.Milliseconds(), 10),
			ev.Text,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadEvents reads a run's event log back.
func (s *Store) LoadEvents(runID string) ([]trace.Event, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, eventsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(eventsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []trace.Event{}, nil
	}

	events := make([]trace.Event, 0, len(records)-1)
	for i, rec := range records[1:] {
		ev, err := parseEvent(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s: events row %d: %w", runID, i+2, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseEvent(rec []string) (trace.Event, error) {
	seq, err := strconv.Atoi(rec[0])
	if err != nil {
		return trace.Event{}, err
	}
	at, err := strconv.ParseInt(rec[1], 10, 64)
	if err != nil {
		return trace.Event{}, err
	}
	id, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return trace.Event{}, err
	}
	delay, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return trace.Event{}, err
	}
	return trace.Event{
		Seq:     seq,
		At:      time.Duration(at) * time.Millisecond,
		Kind:    trace.EventKind(rec[2]),
		TimerID: id,
		Delay:   time.Duration(delay) * time.Millisecond,
		Text:    rec[5],
	}, nil
}
