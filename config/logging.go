package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Log is the structured application logger. It is a no-op until InitLogging runs.
var Log = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "faculty-api.log")
}

// InitLogging prepares the log file, builds the zap logger on top of it and
// redirects the standard logger to the same writer.
func InitLogging() (*os.File, io.Writer) {
	logPath := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	var logFile *os.File
	file, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
	} else {
		logFile = file
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(LogWriter)

	Log = NewLogger(LogWriter, isProduction())
	zap.ReplaceGlobals(Log)
	return logFile, LogWriter
}

// NewLogger builds a zap logger writing to w. Production uses JSON at info
// level, everything else a console encoder at debug level.
func NewLogger(w io.Writer, production bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.DebugLevel
	encoder := zapcore.NewConsoleEncoder(encCfg)
	if production {
		level = zapcore.InfoLevel
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller())
}

func isProduction() bool {
	return strings.ToLower(os.Getenv("ENVIRONMENT")) == "production"
}
