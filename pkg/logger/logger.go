package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin zerolog wrapper. Warnings and errors are also handed to
// an optional LogCollector for periodic digests.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr or a file path
	TimeFormat string

	// Rotation, file outputs only.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	out, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = timeFormat
	zerolog.DurationFieldUnit = time.Millisecond

	switch cfg.Format {
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	case "", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	zl := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("service", "marketpulse").
		CallerWithSkipFrameCount(4).
		Logger()
	return &Logger{zl: zl}, nil
}

func openOutput(cfg *Config) (io.Writer, error) {
	switch cfg.Output {
	case "":
		return nil, fmt.Errorf("log output is required")
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
	}
	size := cfg.MaxSizeMB
	if size <= 0 {
		size = 100
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    size,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger that always carries fields. The child shares
// the parent's collector.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &Logger{zl: ctx.Logger(), collector: l.collector}
}

func (l *Logger) Debug(msg string, fields ...Field) { emit(l.zl.Debug(), msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { emit(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) {
	emit(l.zl.Warn(), msg, fields)
	l.collect("warn", msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	emit(l.zl.Error(), msg, fields)
	l.collect("error", msg, fields)
}

func emit(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		f.write(ev)
	}
	ev.Msg(msg)
}

func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}
	caller := "unknown"
	// 0 collect, 1 Warn/Error, 2 the logging call site
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s/%s:%d", filepath.Base(filepath.Dir(file)), filepath.Base(file), line)
	}
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.plain()
	}
	l.collector.AddLog(level, msg, m, caller)
}

// AddCollector routes warn and error entries into an aggregating collector,
// replacing (and flushing) any previous one.
func (l *Logger) AddCollector(config *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(config)
}

// RemoveCollector flushes and detaches the collector.
func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

type fieldKind uint8

const (
	kindAny fieldKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindDuration
	kindError
)

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
	kind  fieldKind
}

func (f Field) write(ev *zerolog.Event) {
	switch f.kind {
	case kindString:
		ev.Str(f.Key, f.Value.(string))
	case kindInt:
		ev.Int64(f.Key, f.Value.(int64))
	case kindFloat:
		ev.Float64(f.Key, f.Value.(float64))
	case kindBool:
		ev.Bool(f.Key, f.Value.(bool))
	case kindDuration:
		ev.Dur(f.Key, f.Value.(time.Duration))
	case kindError:
		if f.Value == nil {
			return
		}
		ev.AnErr(f.Key, f.Value.(error))
	default:
		ev.Interface(f.Key, f.Value)
	}
}

// plain is the JSON-friendly value used in collector digests.
func (f Field) plain() interface{} {
	switch f.kind {
	case kindError:
		if f.Value == nil {
			return ""
		}
		return f.Value.(error).Error()
	case kindDuration:
		return f.Value.(time.Duration).Milliseconds()
	}
	return f.Value
}

func String(key, value string) Field { return Field{Key: key, Value: value, kind: kindString} }

func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ","))
}

func Int(key string, value int) Field { return Field{Key: key, Value: int64(value), kind: kindInt} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value, kind: kindInt} }

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value, kind: kindFloat}
}

func Bool(key string, value bool) Field { return Field{Key: key, Value: value, kind: kindBool} }

// Duration is logged in milliseconds.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value, kind: kindDuration}
}

func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", kind: kindError}
	}
	return Field{Key: "error", Value: err, kind: kindError}
}
