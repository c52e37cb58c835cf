package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/pilab/internal/format"
	"github.com/san-kum/pilab/internal/locale"
)

// Report renders the localized header followed by value wrapped at width.
func Report(loc locale.Locale, digits int, value string, width int) (string, error) {
	body, err := format.Wrap(value, width)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(loc.Header(digits))
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	return b.String(), nil
}

// WriteReport writes report into dir under the locale's file name and returns
// the path written.
func WriteReport(dir string, loc locale.Locale, report string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, loc.ReportFilename())
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return "", err
	}
	return path, nil
}
