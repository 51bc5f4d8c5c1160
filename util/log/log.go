// Package log writes Realist's diagnostic log. Development builds log to stderr with
// debug lines; release builds log to a rotating file in the user's cache or home
// directory and drop debug lines.
package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Realist/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Print logs through the standard logger.
func Print(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
}

// Printf logs through the standard logger.
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Debugf logs with a [DEBUG] prefix. Release builds drop the line.
func Debugf(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
}

// Dir returns the log directory for goos. Windows keeps logs under the user cache
// directory, everything else under a dot directory in home.
func Dir(goos string) (string, error) {
	if goos == "windows" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("log dir: %w", err)
		}
		return filepath.Join(cache, config.LogWinSubDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("log dir: %w", err)
	}
	return filepath.Join(home, config.LogSubDir), nil
}

// FileName is the name of the active log file.
func FileName() string {
	return strings.ToLower(config.AppName) + config.LogExt
}

// NewFileWriter creates dir and returns a rotating writer for the log file inside it.
func NewFileWriter(dir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName()),
		MaxSize:    config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		MaxAge:     config.LogMaxAgeDays,
		Compress:   true,
	}, nil
}
