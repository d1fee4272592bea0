package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/IshaanNene/newsbot/internal/types"
)

// CSVStorage writes records as CSV rows under the fixed header.
type CSVStorage struct {
	path    string
	records []types.ArticleRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewCSVStorage creates a new CSV file storage.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output dir: %w", err)}
	}

	return &CSVStorage{
		path:   outputPath,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Store(records []types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output file: %w", err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(types.Headers); err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write CSV header: %w", err)}
	}
	for _, r := range s.records {
		if err := w.Write(r.Row()); err != nil {
			return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write CSV row: %w", err)}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}

	s.logger.Info("CSV written", "path", s.path, "records", len(s.records))
	return nil
}

// NewFileStorage creates the appropriate file-based storage by format.
func NewFileStorage(format, outputPath string, logger *slog.Logger) (Storage, error) {
	switch format {
	case "xlsx":
		return NewXLSXStorage(outputPath, logger)
	case "csv":
		return NewCSVStorage(outputPath, logger)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
