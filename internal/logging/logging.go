package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger writes tab-separated human lines or JSON objects. Fields attached
// with With are appended to every line.
type Logger struct {
	min    Level
	json   bool
	out    io.Writer
	mu     *sync.Mutex
	fields []field
}

type field struct {
	key string
	val any
}

// New logs to stderr. JSON output goes to stdout so it can be piped.
func New(level string, jsonOut bool) *Logger {
	out := io.Writer(os.Stderr)
	if jsonOut {
		out = os.Stdout
	}
	return NewWithWriter(out, level, jsonOut)
}

func NewWithWriter(out io.Writer, level string, jsonOut bool) *Logger {
	return &Logger{min: ParseLevel(level), json: jsonOut, out: out, mu: &sync.Mutex{}}
}

// With returns a logger that adds key/value pairs to each entry.
func (l *Logger) With(kv ...any) *Logger {
	nl := *l
	nl.fields = append(append([]field(nil), l.fields...), pairs(kv)...)
	return &nl
}

func pairs(kv []any) []field {
	var out []field
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, field{key: fmt.Sprint(kv[i]), val: kv[i+1]})
	}
	return out
}

func (l *Logger) Enabled(v Level) bool { return v >= l.min }

func (l *Logger) Debugf(format string, a ...any) { l.log(Debug, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)  { l.log(Info, fmt.Sprintf(format, a...)) }
func (l *Logger) Warnf(format string, a ...any)  { l.log(Warn, fmt.Sprintf(format, a...)) }
func (l *Logger) Errorf(format string, a ...any) { l.log(Error, fmt.Sprintf(format, a...)) }

func (l *Logger) log(level Level, msg string) {
	if l == nil || !l.Enabled(level) {
		return
	}
	lvl := levelString(level)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.json {
		payload := map[string]any{
			"ts":    time.Now().Format(time.RFC3339Nano),
			"level": lvl,
			"msg":   msg,
		}
		for _, f := range l.fields {
			payload[f.key] = f.val
		}
		_ = json.NewEncoder(l.out).Encode(payload)
		return
	}
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(lvl))
	sb.WriteByte('\t')
	sb.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&sb, "\t%s=%v", f.key, f.val)
	}
	sb.WriteByte('\n')
	_, _ = io.WriteString(l.out, sb.String())
}

func levelString(l Level) string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}
