package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string    `json:"id"`
	Method         string    `json:"method"`
	Locale         string    `json:"locale"`
	Timestamp      time.Time `json:"timestamp"`
	Digits         int       `json:"digits,omitempty"`
	Samples        int       `json:"samples,omitempty"`
	Engine         string    `json:"engine"`
	FellBack       bool      `json:"fell_back,omitempty"`
	Terms          int       `json:"terms,omitempty"`
	PrecisionBits  uint      `json:"precision_bits,omitempty"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Estimate       float64   `json:"estimate,omitempty"`
	AccurateDigits int       `json:"accurate_digits"`
	AbsError       float64   `json:"abs_error"`
	Report         string    `json:"report,omitempty"`
}

// TracePoint is the distance from π after a number of series terms.
type TracePoint struct {
	Term       int     `json:"term"`
	Log10Error float64 `json:"log10_error"`
}

// Run is everything persisted for one computation.
type Run struct {
	Meta RunMetadata
	// Report is written under the locale's report filename when non-empty.
	Report string
	Trace  []TracePoint
}

func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Meta.Method, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	if run.Report == "" {
		meta.Report = ""
	}

	if run.Report != "" {
		if meta.Report == "" {
			return "", fmt.Errorf("run %s: report has no file name", runID)
		}
		if err := os.WriteFile(filepath.Join(runDir, meta.Report), []byte(run.Report), 0644); err != nil {
			return "", err
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if len(run.Trace) == 0 {
		return runID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"term", "log10_error"}); err != nil {
		return "", err
	}
	for _, p := range run.Trace {
		row := []string{
			strconv.Itoa(p.Term),
			strconv.FormatFloat(p.Log10Error, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
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
		return nil, err
	}

	return &meta, nil
}

// ReportPath is the path of the run's report file, or "" if it has none.
func (s *Store) ReportPath(runID string) (string, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return "", err
	}
	if meta.Report == "" {
		return "", nil
	}
	return filepath.Join(s.baseDir, runID, meta.Report), nil
}

func (s *Store) LoadTrace(runID string) ([]TracePoint, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []TracePoint{}, nil
	}

	points := make([]TracePoint, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		term, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		val, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		points = append(points, TracePoint{Term: term, Log10Error: val})
	}

	return points, nil
}
