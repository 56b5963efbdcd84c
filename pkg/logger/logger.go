package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Colors for the different parts of a log line
var (
	colorTime   = color.New(color.FgHiBlack)
	colorDebug  = color.New(color.FgHiBlack)
	colorInfo   = color.New(color.FgGreen)
	colorWarn   = color.New(color.FgYellow)
	colorError  = color.New(color.FgRed)
	colorFatal  = color.New(color.FgRed, color.Bold)
	colorPrefix = color.New(color.FgCyan)
	colorFields = color.New(color.FgHiBlack)
	colorTitle  = color.New(color.FgCyan, color.Bold)
	colorKey    = color.New(color.FgCyan)
	colorBar    = color.New(color.FgGreen)
)

// Logger is the main logger interface
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithPrefix(prefix string) Logger
}

// output is shared by a logger and every logger derived from it,
// so SetLevel and SetNoColor reach loggers created earlier with WithField
type output struct {
	mu          sync.Mutex
	level       Level
	writer      io.Writer
	noColor     bool
	showTime    bool
	interactive bool
}

// logger implements the Logger interface
type logger struct {
	out    *output
	fields map[string]interface{}
	prefix string
}

// Default logger instance
var defaultLogger = New()

// Config holds logger configuration
type Config struct {
	Level    Level
	Writer   io.Writer
	NoColor  bool
	ShowTime bool

	// Interactive enables redrawn progress output
	Interactive bool
}

// New creates a new logger writing to stdout.
// Colour and progress redraws are enabled only when stdout is a terminal.
func New() Logger {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	return NewWithConfig(Config{
		Level:       InfoLevel,
		Writer:      os.Stdout,
		NoColor:     !tty,
		ShowTime:    true,
		Interactive: tty,
	})
}

// NewWithConfig creates a new logger with custom configuration
func NewWithConfig(cfg Config) Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	return &logger{
		out: &output{
			level:       cfg.Level,
			writer:      w,
			noColor:     cfg.NoColor,
			showTime:    cfg.ShowTime,
			interactive: cfg.Interactive,
		},
		fields: make(map[string]interface{}),
	}
}

func defaultOutput() *output {
	if l, ok := defaultLogger.(*logger); ok {
		return l.out
	}
	return nil
}

// SetLevel sets the global log level
func SetLevel(level Level) {
	if o := defaultOutput(); o != nil {
		o.mu.Lock()
		o.level = level
		o.mu.Unlock()
	}
}

// SetNoColor disables color output
func SetNoColor(noColor bool) {
	if o := defaultOutput(); o != nil {
		o.mu.Lock()
		o.noColor = noColor
		o.mu.Unlock()
	}
}

// NoColor reports whether the default logger prints without color
func NoColor() bool {
	if o := defaultOutput(); o != nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.noColor
	}
	return true
}

// SetOutput redirects the default logger
func SetOutput(w io.Writer) {
	if o := defaultOutput(); o != nil {
		o.mu.Lock()
		o.writer = w
		o.interactive = false
		o.mu.Unlock()
	}
}

// Helper methods for the default logger
func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithField(key string, value interface{}) Logger  { return defaultLogger.WithField(key, value) }
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }
func WithPrefix(prefix string) Logger                 { return defaultLogger.WithPrefix(prefix) }

// paint applies c unless colour is disabled. Callers hold o.mu.
func (o *output) paint(c *color.Color, s string) string {
	if o.noColor {
		return s
	}
	return c.Sprint(s)
}

// Implementation of logger methods

func (l *logger) log(level Level, args ...interface{}) {
	o := l.out
	o.mu.Lock()

	if level < o.level {
		o.mu.Unlock()
		return
	}

	var parts []string

	if o.showTime {
		parts = append(parts, o.paint(colorTime, time.Now().Format("15:04:05")))
	}

	levelStr, levelColor := getLevelString(level)
	parts = append(parts, o.paint(levelColor, levelStr))

	if l.prefix != "" {
		parts = append(parts, o.paint(colorPrefix, "["+l.prefix+"]"))
	}

	// Fields are printed in key order so lines are stable
	if len(l.fields) > 0 {
		keys := maps.Keys(l.fields)
		slices.Sort(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		parts = append(parts, o.paint(colorFields, strings.Join(fieldParts, " ")))
	}

	parts = append(parts, fmt.Sprint(args...))

	_, _ = fmt.Fprintln(o.writer, strings.Join(parts, " "))

	o.mu.Unlock()

	// Exit on fatal (after unlocking mutex)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func getLevelString(level Level) (string, *color.Color) {
	switch level {
	case DebugLevel:
		return "DEBUG", colorDebug
	case InfoLevel:
		return "INFO ", colorInfo
	case WarnLevel:
		return "WARN ", colorWarn
	case ErrorLevel:
		return "ERROR", colorError
	case FatalLevel:
		return "FATAL", colorFatal
	default:
		return "UNKNOWN", colorInfo
	}
}

// Logger interface implementation

func (l *logger) Debug(args ...interface{}) {
	l.log(DebugLevel, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.logf(DebugLevel, format, args...)
}

func (l *logger) Info(args ...interface{}) {
	l.log(InfoLevel, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.logf(InfoLevel, format, args...)
}

func (l *logger) Warn(args ...interface{}) {
	l.log(WarnLevel, args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.logf(WarnLevel, format, args...)
}

func (l *logger) Error(args ...interface{}) {
	l.log(ErrorLevel, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.logf(ErrorLevel, format, args...)
}

func (l *logger) Fatal(args ...interface{}) {
	l.log(FatalLevel, args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.logf(FatalLevel, format, args...)
}

func (l *logger) derive(prefix string, extra map[string]interface{}) *logger {
	fields := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &logger{out: l.out, fields: fields, prefix: prefix}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return l.derive(l.prefix, map[string]interface{}{key: value})
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	return l.derive(l.prefix, fields)
}

func (l *logger) WithPrefix(prefix string) Logger {
	return l.derive(prefix, nil)
}

// ParseLevel parses a string log level
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
