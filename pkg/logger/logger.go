package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination for a Logger.
type Config struct {
	Level      string // debug, info, warn, error, fatal, panic
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string // timestamp layout, RFC3339Nano when empty
}

// Logger wraps zerolog and optionally mirrors error logs into an
// aggregating collector for shipping.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	w, err := newWriter(cfg.Output)
	if err != nil {
		return nil, err
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: cfg.TimeFormat}
	}

	// skip: zerolog internals, the level method, and emit
	zl := zerolog.New(w).With().Timestamp().CallerWithSkipFrameCount(4).Logger()
	return &Logger{zl: zl}, nil
}

func newWriter(output string) (io.Writer, error) {
	switch output {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		return f, nil
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { l.emit(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) { l.emit(l.zl.Warn(), msg, fields) }

// Error logs the message and, when a collector is attached, also feeds it
// into the aggregation buffer.
func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
	l.collect("error", msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f.apply(event)
	}
	event.Msg(msg)
}

func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}

	// caller of the Error method, two frames up from here
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		parts := strings.Split(file, "CoinPulse")
		caller = fmt.Sprintf("%s:%d", parts[len(parts)-1], line)
	}

	kv := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		kv[f.Key] = f.collectValue()
	}
	l.collector.AddLog(level, msg, kv, caller)
}

// AddCollector attaches an aggregating collector, replacing any previous one.
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
	}
}

// Field is one typed key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

func (f Field) apply(e *zerolog.Event) {
	switch v := f.Value.(type) {
	case string:
		e.Str(f.Key, v)
	case int:
		e.Int(f.Key, v)
	case int64:
		e.Int64(f.Key, v)
	case bool:
		e.Bool(f.Key, v)
	case error:
		e.Err(v)
	default:
		e.Interface(f.Key, v)
	}
}

func (f Field) collectValue() interface{} {
	if err, ok := f.Value.(error); ok {
		return err.Error()
	}
	return f.Value
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int32(key string, value int32) Field { return Field{Key: key, Value: int(value)} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Uint(key string, value uint) Field { return Field{Key: key, Value: int(value)} }

func Uint64(key string, value uint64) Field { return Field{Key: key, Value: int64(value)} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Strings(key string, value []string) Field {
	return Field{Key: key, Value: strings.Join(value, ", ")}
}

// Duration logs as whole milliseconds; name keys accordingly.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: int(value / time.Millisecond)}
}

func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

func Error(err error) Field { return Field{Key: "error", Value: err} }
