package logger

import (
	"fmt"
	"io"
	"strings"
)

// Icons and symbols for different log types
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️"
	IconRocket  = "🚀"
	IconConfig  = "⚙️"
	IconHuman   = "🧍"
	IconZombie  = "🧟"
	IconVaccine = "💉"
	IconDice    = "🎲"
	IconChart   = "📊"
	IconSave    = "💾"
	IconFile    = "📄"
	IconRefresh = "🔄"
	IconDot     = "•"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	defaultLogger.Info(IconSuccess + " " + fmt.Sprint(args...))
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	defaultLogger.Info(IconRefresh + " " + fmt.Sprint(args...))
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// Saved logs that an artifact was written to path
func Saved(what, path string) {
	defaultLogger.Info(IconSave + " " + what + " written to " + path)
}

// printRaw writes unprefixed lines through the default output
func printRaw(fn func(w io.Writer, paint func(c colorer, s string) string)) {
	o := defaultOutput()
	if o == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.writer, func(c colorer, s string) string {
		if o.noColor {
			return s
		}
		return c.Sprint(s)
	})
}

type colorer interface {
	Sprint(a ...interface{}) string
}

// LogSection creates a visual section separator
func LogSection(title string) {
	line := strings.Repeat("=", 50)
	printRaw(func(w io.Writer, paint func(colorer, string) string) {
		fmt.Fprintln(w, paint(colorPrefix, line))
		fmt.Fprintln(w, paint(colorTitle, title))
		fmt.Fprintln(w, paint(colorPrefix, line))
	})
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	line := strings.Repeat("-", 40)
	printRaw(func(w io.Writer, paint func(colorer, string) string) {
		fmt.Fprintln(w, paint(colorFields, line))
		fmt.Fprintln(w, paint(colorFields, title))
		fmt.Fprintln(w, paint(colorFields, line))
	})
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	printRaw(func(w io.Writer, _ func(colorer, string) string) {
		for _, item := range items {
			fmt.Fprintf(w, "  %s %s\n", IconDot, item)
		}
	})
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	printRaw(func(w io.Writer, paint func(colorer, string) string) {
		fmt.Fprintf(w, "%s %v\n", paint(colorKey, key+":"), value)
	})
}

// Table represents a simple table for logging
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Print prints the table through the default logger's output
func (t *Table) Print() {
	printRaw(func(w io.Writer, _ func(colorer, string) string) {
		t.Render(w)
	})
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(t.headers)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	writeRow(sep)
	for _, row := range t.rows {
		writeRow(row)
	}
}
