// Package output writes simulation reports to files in the registered formats.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/picogrid/outbreak-simulations/pkg/simulation"
)

// WriterFunc renders a report to w
type WriterFunc func(w io.Writer, report *simulation.Report) error

var (
	mu      sync.RWMutex
	writers = map[string]WriterFunc{}
)

// Register adds a writer for format, replacing any earlier one
func Register(format string, fn WriterFunc) {
	mu.Lock()
	defer mu.Unlock()
	writers[format] = fn
}

// Formats returns the registered format names in sorted order
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := maps.Keys(writers)
	slices.Sort(names)
	return names
}

// Write renders report to w in the given format
func Write(format string, w io.Writer, report *simulation.Report) error {
	mu.RLock()
	fn, ok := writers[format]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
	return fn(w, report)
}

// WriteReport writes report into dir as <simulation>-<batch>.<format> and returns the path
func WriteReport(dir, format string, report *simulation.Report) (string, error) {
	mu.RLock()
	_, ok := writers[format]
	mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", Slug(report.Simulation), report.ID, format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(format, f, report); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s output: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return path, nil
}

// Slug lowercases name and collapses every run of other characters into a dash
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "simulation"
	}
	return s
}
