package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/IshaanNene/newsbot/internal/types"
)

// SheetName is the worksheet the records are written to.
const SheetName = "News"

// XLSXStorage writes records to a single-sheet workbook.
type XLSXStorage struct {
	path    string
	records []types.ArticleRecord
	mu      sync.Mutex
	logger  *slog.Logger
}

// NewXLSXStorage creates a workbook storage that writes to outputPath.
func NewXLSXStorage(outputPath string, logger *slog.Logger) (*XLSXStorage, error) {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.StorageError{Backend: "xlsx", Err: fmt.Errorf("create output dir: %w", err)}
	}

	return &XLSXStorage{
		path:   outputPath,
		logger: logger.With("component", "xlsx_storage"),
	}, nil
}

func (s *XLSXStorage) Name() string { return "xlsx" }

func (s *XLSXStorage) Store(records []types.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	s.logger.Debug("records buffered", "count", len(records), "total", len(s.records))
	return nil
}

// Close writes the header row and every buffered record, then saves.
func (s *XLSXStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return &types.StorageError{Backend: "xlsx", Err: err}
	}

	if err := setRow(f, 1, types.Headers); err != nil {
		return &types.StorageError{Backend: "xlsx", Err: fmt.Errorf("write header: %w", err)}
	}
	for i, r := range s.records {
		if err := setRow(f, i+2, r.Row()); err != nil {
			return &types.StorageError{Backend: "xlsx", Err: fmt.Errorf("write row %d: %w", i+2, err)}
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return &types.StorageError{Backend: "xlsx", Err: fmt.Errorf("save %s: %w", s.path, err)}
	}

	s.logger.Info("workbook written", "path", s.path, "records", len(s.records))
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}

// ExportRows writes records to a fresh workbook at path in one shot.
func ExportRows(path string, records []types.ArticleRecord, logger *slog.Logger) error {
	s, err := NewXLSXStorage(path, logger)
	if err != nil {
		return err
	}
	if err := s.Store(records); err != nil {
		return err
	}
	return s.Close()
}
