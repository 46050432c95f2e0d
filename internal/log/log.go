package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu       sync.Mutex
	logger   = stdlog.New(os.Stderr, "", 0)
	minLevel = LevelInfo
)

var rank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a config string ("debug", "info", ...) to a Level.
// Unknown or empty values fall back to INFO.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rank[l]; ok {
		return l
	}
	return LevelInfo
}

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := rank[l]; !ok {
		l = LevelInfo
	}
	minLevel = l
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func Debug(msg string, kv ...any) {
	logWithLevel(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(LevelInfo, msg, kv...)
}

func Warn(msg string, kv ...any) {
	logWithLevel(LevelWarn, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	extended := append([]any{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...any) {
	mu.Lock()
	defer mu.Unlock()
	if rank[level] < rank[minLevel] {
		return
	}

	// 2025-01-01T00:00:00Z [LEVEL] msg key=value ...
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339Nano))
	b.WriteString(" [")
	b.WriteString(string(level))
	b.WriteString("] ")
	b.WriteString(msg)
	b.WriteString(formatKVs(kv...))

	logger.Println(b.String())
}

// formatKVs renders key/value pairs. A trailing key without a value is dropped.
func formatKVs(kv ...any) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		val := fmt.Sprint(kv[i+1])
		if strings.ContainsAny(val, " \t\"") {
			val = fmt.Sprintf("%q", val)
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(val)
	}
	return b.String()
}
