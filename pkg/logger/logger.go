package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Leveled package logger backed by zap.
// - Init(level) keeps the old string-level contract
// - Configure switches between console and json output

const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

// Config selects the minimum level and the output encoding.
type Config struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=console json"`
}

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = build(zapcore.AddSync(os.Stdout), EncodingConsole)
)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "file",
		TimeKey:        "time",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

func build(ws zapcore.WriteSyncer, encoding string) *zap.SugaredLogger {
	var enc zapcore.Encoder
	if encoding == EncodingJSON {
		enc = zapcore.NewJSONEncoder(encoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(encoderConfig())
	}
	core := zapcore.NewCore(enc, ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func parseLevel(l string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	level.SetLevel(parseLevel(l))
}

// Configure sets level and encoding. Encoding must be "console", "json" or empty.
func Configure(cfg Config) error {
	enc := strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if enc == "" {
		enc = EncodingConsole
	}
	if enc != EncodingConsole && enc != EncodingJSON {
		return fmt.Errorf("unknown log encoding %q", cfg.Encoding)
	}
	Init(cfg.Level)
	setOutput(zapcore.AddSync(os.Stdout), enc)
	return nil
}

func setOutput(ws zapcore.WriteSyncer, encoding string) {
	l := build(ws, encoding)
	mu.Lock()
	sugar = l
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

// Fatalf logs and exits the process with status 1.
func Fatalf(format string, v ...interface{}) { current().Fatalf(format, v...) }

// Infow logs a message with structured key/value pairs.
func Infow(msg string, keysAndValues ...interface{}) { current().Infow(msg, keysAndValues...) }

// Warnw logs a message with structured key/value pairs.
func Warnw(msg string, keysAndValues ...interface{}) { current().Warnw(msg, keysAndValues...) }

func Info(v string) { Infof("%s", v) }
func Warn(v string) { Warnf("%s", v) }

// Sync flushes buffered entries; call before exit.
func Sync() error {
	return current().Sync()
}

// LevelString returns the current level as text.
func LevelString() string {
	return level.Level().String()
}
