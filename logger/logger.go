// Package logger provides leveled, category-tagged log output with colored
// terminal formatting.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

type Logger struct {
	minLevel Level
}

// New creates a logger that drops entries below minLevel.
func New(minLevel Level) *Logger {
	return &Logger{minLevel: minLevel}
}

func (l *Logger) log(level Level, category, message string) {
	if level < l.minLevel {
		return
	}

	var levelColor *color.Color
	switch level {
	case DEBUG:
		levelColor = color.New(color.FgCyan)
	case INFO:
		levelColor = color.New(color.FgGreen)
	case WARN:
		levelColor = color.New(color.FgYellow)
	case ERROR:
		levelColor = color.New(color.FgRed)
	case FATAL:
		levelColor = color.New(color.FgRed, color.Bold)
	default:
		levelColor = color.New(color.FgWhite)
	}

	timeStr := color.New(color.FgBlue).Sprint(time.Now().UTC().Format("15:04:05"))
	levelStr := levelColor.Sprintf("%-5s", levelName(level))
	categoryStr := levelColor.Sprintf("[%s]", category)

	fmt.Printf("%s %s %s %s\n", timeStr, levelStr, categoryStr, message)
}

func levelName(level Level) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "INFO"
	}
}

func (l *Logger) Debug(category, message string) {
	l.log(DEBUG, category, message)
}

func (l *Logger) Info(category, message string) {
	l.log(INFO, category, message)
}

func (l *Logger) Warn(category, message string) {
	l.log(WARN, category, message)
}

func (l *Logger) Error(category, message string) {
	l.log(ERROR, category, message)
}

func (l *Logger) Fatal(category, message string) {
	l.log(FATAL, category, message)
	os.Exit(1)
}

func (l *Logger) Infof(category, format string, args ...any) {
	l.log(INFO, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(category, format string, args ...any) {
	l.log(WARN, category, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(category, format string, args ...any) {
	l.log(ERROR, category, fmt.Sprintf(format, args...))
}
