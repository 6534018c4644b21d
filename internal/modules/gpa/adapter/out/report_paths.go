package out

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gpacalc/internal/modules/gpa/domain"
	"gpacalc/internal/platform/slug"
)

const idPrefixLen = 8

// reportPath places a report artifact under reportsDir/YYYY/MM/DD. The name
// carries a prefix of the report id, so two exports with the same label in the
// same second still get distinct files.
func reportPath(reportsDir string, report domain.Report, ext string) (string, error) {
	date := report.CreatedAt
	dir := filepath.Join(reportsDir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s%s", date.Format("150405"), idPrefix(report.ID), slug.Make(report.Label), ext)
	return filepath.Join(dir, name), nil
}

func idPrefix(id string) string {
	s := slug.Make(id)
	if len(s) > idPrefixLen {
		s = s[:idPrefixLen]
	}
	return s
}

// removeArtifact deletes a written artifact. A file that is already gone is
// not an error.
func removeArtifact(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
