package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExportStorage persists generated export files (CSV downloads) and maps
// them to URLs the dashboard can fetch.
type ExportStorage interface {
	SaveCSV(name string, data []byte) (string, error)
	Open(name string) (io.ReadCloser, error)
	Delete(name string) error
}

// LocalStorage implements ExportStorage using local filesystem
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a new local filesystem storage backend
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalStorage{
		baseDir: baseDir,
		baseURL: baseURL,
	}, nil
}

// SaveCSV writes an export file and returns the URL it is served under.
func (s *LocalStorage) SaveCSV(name string, data []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, name)

	// Create directory if needed
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/exports/%s", s.baseURL, name), nil
}

func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.baseDir, name)
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(name string) error {
	fullPath := filepath.Join(s.baseDir, name)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
