package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the logging interface used across the application
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	With(keyvals ...interface{}) Logger
}

type logLevel int

const (
	debugLevel logLevel = iota
	infoLevel
	warnLevel
	errorLevel
)

type keyvalLogger struct {
	out     *log.Logger
	errOut  *log.Logger
	level   logLevel
	context string
}

// NewLogger creates a new logger filtering below the specified level
func NewLogger(level string) Logger {
	var l logLevel

	switch strings.ToLower(level) {
	case "debug":
		l = debugLevel
	case "info":
		l = infoLevel
	case "warn":
		l = warnLevel
	case "error":
		l = errorLevel
	default:
		l = infoLevel
	}

	return &keyvalLogger{
		out:    log.New(os.Stdout, "", log.Ldate|log.Ltime),
		errOut: log.New(os.Stderr, "", log.Ldate|log.Ltime),
		level:  l,
	}
}

func (l *keyvalLogger) Debug(msg string, keyvals ...interface{}) {
	if l.level <= debugLevel {
		l.out.Println("DEBUG:", l.format(msg, keyvals...))
	}
}

func (l *keyvalLogger) Info(msg string, keyvals ...interface{}) {
	if l.level <= infoLevel {
		l.out.Println("INFO:", l.format(msg, keyvals...))
	}
}

func (l *keyvalLogger) Warn(msg string, keyvals ...interface{}) {
	if l.level <= warnLevel {
		l.out.Println("WARN:", l.format(msg, keyvals...))
	}
}

func (l *keyvalLogger) Error(msg string, keyvals ...interface{}) {
	if l.level <= errorLevel {
		l.errOut.Println("ERROR:", l.format(msg, keyvals...))
	}
}

// With returns a logger that prepends the given key-value pairs to every entry
func (l *keyvalLogger) With(keyvals ...interface{}) Logger {
	clone := *l
	clone.context = strings.TrimSpace(l.context + " " + formatPairs(keyvals...))
	return &clone
}

func (l *keyvalLogger) format(msg string, keyvals ...interface{}) string {
	parts := []string{msg}

	if l.context != "" {
		parts = append(parts, l.context)
	}

	if pairs := formatPairs(keyvals...); pairs != "" {
		parts = append(parts, pairs)
	}

	return strings.Join(parts, " ")
}

func formatPairs(keyvals ...interface{}) string {
	if len(keyvals) == 0 {
		return ""
	}

	var b strings.Builder

	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		value := "missing"

		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}

		if strings.ContainsAny(value, " \t") {
			value = fmt.Sprintf("%q", value)
		}

		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key + "=" + value)
	}

	return b.String()
}
