// Package logger provides the application's leveled logger. Output goes to a
// size-rotated file by default so log lines never interfere with the terminal UI.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lynva/lynva-tui/pkg/api/interfaces"
)

// LogFileName is the file created inside the cache directory.
const LogFileName = "lynva-tui.log"

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger implements interfaces.Logger on top of a zap SugaredLogger.
type Logger struct {
	sugar  *zap.SugaredLogger
	level  zap.AtomicLevel
	closer io.Closer
}

// Config holds configuration for the logger.
type Config struct {
	Level      Level
	Output     io.Writer
	LogToFile  bool
	LogFile    string
	TimeFormat string

	// Rotation settings for file output.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		Output:     os.Stdout,
		LogToFile:  false,
		TimeFormat: "2006-01-02 15:04:05",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// NewInternalLogger creates a logger writing to LogFileName inside cacheDir.
func NewInternalLogger(level Level, cacheDir string) (*Logger, error) {
	logsDir := cacheDir
	if logsDir == "" {
		logsDir = "."
	}

	if err := os.MkdirAll(logsDir, 0o750); err != nil {
		// Fall back to the working directory.
		logsDir = "."
	}

	config := DefaultConfig()
	config.Level = level
	config.Output = nil
	config.LogToFile = true
	config.LogFile = filepath.Join(logsDir, LogFileName)

	return NewLogger(config)
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	timeFormat := config.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}

	var (
		sink   zapcore.WriteSyncer
		closer io.Closer
	)

	output := config.Output
	if output == nil && !config.LogToFile {
		output = os.Stdout
	}

	if config.LogToFile && config.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.LogFile), 0o750); err != nil {
			return nil, err
		}

		rotator := &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    orDefault(config.MaxSizeMB, 10),
			MaxBackups: orDefault(config.MaxBackups, 3),
			MaxAge:     orDefault(config.MaxAgeDays, 28),
		}
		closer = rotator

		if output == os.Stdout {
			sink = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotator))
		} else {
			sink = zapcore.AddSync(rotator)
		}
	} else {
		sink = zapcore.AddSync(output)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.ConsoleSeparator = " "
	encoderCfg.CallerKey = ""
	encoderCfg.NameKey = ""

	atom := zap.NewAtomicLevelAt(config.Level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), sink, atom)

	return &Logger{
		sugar:  zap.New(core).Sugar(),
		level:  atom,
		closer: closer,
	}, nil
}

// NewSimpleLogger creates a logger that outputs to stdout with the given level.
func NewSimpleLogger(level Level) *Logger {
	config := DefaultConfig()
	config.Level = level
	logger, _ := NewLogger(config) // Safe to ignore error with this config

	return logger
}

// NewFileLogger creates a logger that outputs to a rotated file with the given level.
func NewFileLogger(level Level, logFile string) (*Logger, error) {
	config := DefaultConfig()
	config.Level = level
	config.Output = nil
	config.LogToFile = true
	config.LogFile = logFile

	return NewLogger(config)
}

// Debug logs a debug message (implements interfaces.Logger).
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an info message (implements interfaces.Logger).
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs an error message (implements interfaces.Logger).
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a child logger that adds key/value context to every line.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), level: l.level}
}

// SetLevel changes the logging level.
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// GetLevel returns the current logging level.
func (l *Logger) GetLevel() Level {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.InfoLevel:
		return LevelInfo
	default:
		return LevelError
	}
}

// Close flushes buffered entries and closes the log file, if any.
func (l *Logger) Close() error {
	_ = l.sugar.Sync()

	if l.closer != nil {
		return l.closer.Close()
	}

	return nil
}

// Verify that Logger implements the interfaces.Logger interface.
var _ interfaces.Logger = (*Logger)(nil)

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}

	return v
}

// Global logger shared by packages that are not handed one explicitly.
var (
	globalLogger     interfaces.Logger
	globalLoggerOnce sync.Once
	globalMu         sync.RWMutex
)

// InitGlobalLogger initializes the global logger writing into cacheDir.
// Only the first call has an effect.
func InitGlobalLogger(level Level, cacheDir string) error {
	var err error

	globalLoggerOnce.Do(func() {
		var l interfaces.Logger
		l, err = NewInternalLogger(level, cacheDir)
		if err != nil {
			// Fallback to simple logger if file logging fails
			l = NewSimpleLogger(level)
		}

		globalMu.Lock()
		globalLogger = l
		globalMu.Unlock()
	})

	return err
}

// GetGlobalLogger returns the global logger. Before InitGlobalLogger it is a
// no-op logger, so nothing reaches stdout behind the UI.
func GetGlobalLogger() interfaces.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalLogger == nil {
		return &interfaces.NoOpLogger{}
	}

	return globalLogger
}
