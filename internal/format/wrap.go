// Package format wraps long digit strings into fixed-width lines.
package format

import (
	"fmt"
	"strings"

	"github.com/san-kum/pilab/internal/core"
)

const DefaultWidth = 100

// Lines splits s into chunks of width bytes; the last chunk may be shorter.
func Lines(s string, width int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: line width must be positive, got %d", core.ErrInvalidArgument, width)
	}
	lines := make([]string, 0, (len(s)+width-1)/width)
	for i := 0; i < len(s); i += width {
		end := i + width
		if end > len(s) {
			end = len(s)
		}
		lines = append(lines, s[i:end])
	}
	return lines, nil
}

// Wrap joins the Lines of s with newlines.
func Wrap(s string, width int) (string, error) {
	lines, err := Lines(s, width)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Unwrap removes the line breaks inserted by Wrap.
func Unwrap(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
