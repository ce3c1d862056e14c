package reporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// ResultStore appends trial rows to a CSV results file. Every Append is
// flushed and synced before it returns, so an interrupted sweep loses at
// most the trial that was running.
type ResultStore struct {
	path       string
	file       *os.File
	w          *csv.Writer
	paramNames []string
	rows       int
}

// CreateResultStore truncates path and writes the header
func CreateResultStore(path string, paramNames []string) (*ResultStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create results file: %w", err)
	}

	s := newResultStore(path, f, paramNames)
	if err := s.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// OpenResultStore opens path for appending. The header is written only
// when the file is new or empty; an existing header must match.
func OpenResultStore(path string, paramNames []string) (*ResultStore, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	existing, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	want := types.Header(paramNames)
	if existing != nil && !equalHeader(existing, want) {
		return nil, fmt.Errorf("results file %s has columns %v, expected %v", path, existing, want)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}

	s := newResultStore(path, f, paramNames)
	if existing == nil {
		if err := s.writeHeader(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

func newResultStore(path string, f *os.File, paramNames []string) *ResultStore {
	names := make([]string, len(paramNames))
	copy(names, paramNames)
	return &ResultStore{path: path, file: f, w: csv.NewWriter(f), paramNames: names}
}

func (s *ResultStore) writeHeader() error {
	if err := s.w.Write(types.Header(s.paramNames)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return s.flush()
}

// Append writes one row and makes it durable
func (s *ResultStore) Append(row types.ResultRow) error {
	if s.file == nil {
		return fmt.Errorf("results file %s is closed", s.path)
	}
	if err := s.w.Write(FormatRow(s.paramNames, row)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *ResultStore) flush() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync results: %w", err)
	}
	return nil
}

// Rows returns the number of rows appended through this store
func (s *ResultStore) Rows() int {
	return s.rows
}

// Path returns the results file path
func (s *ResultStore) Path() string {
	return s.path
}

// Close flushes and closes the file
func (s *ResultStore) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// FormatRow renders a row in header order: swept parameters then metrics
func FormatRow(paramNames []string, row types.ResultRow) []string {
	record := make([]string, 0, len(paramNames)+len(types.MetricNames))
	for _, name := range paramNames {
		record = append(record, row.Params[name].String())
	}
	for _, name := range types.MetricNames {
		record = append(record, row.Metrics.Value(name).String())
	}
	return record
}

// WriteResultsCSV writes a whole result set, delegating .xlsx paths to the
// Excel writer
func WriteResultsCSV(rs *types.ResultSet, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteResultsXLSX(rs, nil, path)
	}

	s, err := CreateResultStore(path, rs.ParamNames)
	if err != nil {
		return err
	}
	for _, row := range rs.Rows {
		if err := s.Append(row); err != nil {
			s.Close()
			return err
		}
	}
	return s.Close()
}

// CountRows returns the number of data rows after the header of path; a
// missing or empty file has none
func CountRows(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	n := -1
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count results rows: %w", err)
		}
		n++
	}
	return max(n, 0), nil
}

// readHeader returns the first record of path, nil when the file is
// missing or empty
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results header: %w", err)
	}
	return header, nil
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != b[i] {
			return false
		}
	}
	return true
}

func ensureParentDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}
