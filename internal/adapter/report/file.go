package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
)

// FileSink writes the report as indented JSON to a fixed path. The file is
// replaced atomically, so readers never observe a partial document and a
// failed write leaves the previous report in place.
type FileSink struct {
	path   string
	logger *slog.Logger
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string, logger *slog.Logger) *FileSink {
	return &FileSink{path: path, logger: logger}
}

// Path returns the destination file.
func (s *FileSink) Path() string { return s.path }

// Publish writes r to the sink's path.
func (s *FileSink) Publish(_ context.Context, r domain.ForecastReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write report %s: %w", s.path, err)
	}
	s.logger.Info("report written", "path", s.path, "bytes", len(data))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename has succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadFile loads a report previously written by a FileSink.
func ReadFile(path string) (domain.ForecastReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ForecastReport{}, fmt.Errorf("read report: %w", err)
	}
	var r domain.ForecastReport
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.ForecastReport{}, fmt.Errorf("decode report %s: %w", path, err)
	}
	return r, nil
}
