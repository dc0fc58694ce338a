package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

type Level int

const (
	LevelAll Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var logLevelNames = []string{"ALL", "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "NONE"}

func (lvl *Level) UnmarshalText(b []byte) error {
	l, ok := ParseLogLevelP(string(b))
	if !ok {
		return fmt.Errorf("invalid log level: %s", string(b))
	}
	*lvl = l
	return nil
}

func (lvl Level) String() string {
	return LogLevelName(lvl)
}

// ParseLogLevel returns LevelAll for an unknown name.
func ParseLogLevel(name string) Level {
	lvl, _ := ParseLogLevelP(name)
	return lvl
}

func ParseLogLevelP(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ALL":
		return LevelAll, true
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "NONE":
		return LevelNone, true
	default:
		return LevelAll, false
	}
}

func LogLevelName(level Level) string {
	if level >= 0 && int(level) < len(logLevelNames) {
		return logLevelNames[level]
	}
	return "UNKNOWN"
}

type Log interface {
	io.Writer

	TraceEnabled() bool
	Trace(...any)
	Tracef(format string, args ...any)
	DebugEnabled() bool
	Debug(...any)
	Debugf(format string, args ...any)
	InfoEnabled() bool
	Info(...any)
	Infof(format string, args ...any)
	WarnEnabled() bool
	Warn(...any)
	Warnf(format string, args ...any)
	ErrorEnabled() bool
	Error(...any)
	Errorf(format string, args ...any)

	LogEnabled(level Level) bool
	Logf(level Level, format string, args ...any)

	SetLevel(level Level)
	Level() Level
}

type levelLogger struct {
	name         string
	level        Level
	underlying   []*logWriter
	prefixWidth  int
	enableSrcLoc bool
	// slog compat
	attrs []slog.Attr
}

func (l *levelLogger) SetLevel(level Level) { l.level = level }
func (l *levelLogger) Level() Level         { return l.level }

func (l *levelLogger) TraceEnabled() bool { return l.level <= LevelTrace }
func (l *levelLogger) DebugEnabled() bool { return l.level <= LevelDebug }
func (l *levelLogger) InfoEnabled() bool  { return l.level <= LevelInfo }
func (l *levelLogger) WarnEnabled() bool  { return l.level <= LevelWarn }
func (l *levelLogger) ErrorEnabled() bool { return l.level <= LevelError }

func (l *levelLogger) LogEnabled(lvl Level) bool { return l.level <= lvl }

func (l *levelLogger) Trace(m ...any) { l._log(LevelTrace, 1, m) }
func (l *levelLogger) Debug(m ...any) { l._log(LevelDebug, 1, m) }
func (l *levelLogger) Info(m ...any)  { l._log(LevelInfo, 1, m) }
func (l *levelLogger) Warn(m ...any)  { l._log(LevelWarn, 1, m) }
func (l *levelLogger) Error(m ...any) { l._log(LevelError, 1, m) }

func (l *levelLogger) Tracef(format string, args ...any)          { l._logf(LevelTrace, 0, format, args) }
func (l *levelLogger) Debugf(format string, args ...any)          { l._logf(LevelDebug, 0, format, args) }
func (l *levelLogger) Infof(format string, args ...any)           { l._logf(LevelInfo, 0, format, args) }
func (l *levelLogger) Warnf(format string, args ...any)           { l._logf(LevelWarn, 0, format, args) }
func (l *levelLogger) Errorf(format string, args ...any)          { l._logf(LevelError, 0, format, args) }
func (l *levelLogger) Logf(lvl Level, format string, args ...any) { l._logf(lvl, 0, format, args) }

// Write lets the logger stand in where an io.Writer is expected (gin writers).
func (l *levelLogger) Write(buff []byte) (n int, err error) {
	ts := fmt.Sprintf("%s -     ", time.Now().Format(timestampFormat))
	for _, w := range l.underlying {
		w.Write([]byte(ts))
		n, err = w.Write(buff)
	}
	return
}

const (
	yellow = "\033[90;43m"
	red    = "\033[97;41m"
	reset  = "\033[0m"
)

var (
	warnCounter  gometrics.Counter
	errorCounter gometrics.Counter
	totalCounter gometrics.Counter
)

func init() {
	totalCounter = gometrics.NewRegisteredCounter("log.total", gometrics.DefaultRegistry)
	warnCounter = gometrics.NewRegisteredCounter("log.warns", gometrics.DefaultRegistry)
	errorCounter = gometrics.NewRegisteredCounter("log.errors", gometrics.DefaultRegistry)
}

var (
	levelLock                   sync.RWMutex
	levelConfig                 = make(map[string]Level)
	levelDefault                = LevelInfo
	prefixWidthDefault          = 18
	enableSourceLocationDefault = false
)

func SetDefaultLevel(lvl Level) {
	levelLock.Lock()
	levelDefault = lvl
	levelLock.Unlock()
}

func DefaultLevel() Level {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return levelDefault
}

func SetDefaultEnableSourceLocation(flag bool) {
	levelLock.Lock()
	enableSourceLocationDefault = flag
	levelLock.Unlock()
}

func SetDefaultPrefixWidth(width int) {
	if width <= 0 {
		width = 18
	}
	levelLock.Lock()
	prefixWidthDefault = width
	levelLock.Unlock()
}

func layoutDefaults() (prefixWidth int, enableSrcLoc bool) {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return prefixWidthDefault, enableSourceLocationDefault
}

// resetLevels replaces every per name level with levels.
func resetLevels(levels map[string]Level) {
	levelLock.Lock()
	levelConfig = levels
	levelLock.Unlock()
}

// SetLevel assigns lvl to every logger whose name matches pattern.
// The pattern syntax is that of path.Match, "httpd*" or "calc-?".
func SetLevel(pattern string, lvl Level) {
	levelLock.Lock()
	levelConfig[pattern] = lvl
	levelLock.Unlock()
}

// GetLevel returns the level of the longest pattern that matches name.
func GetLevel(name string) Level {
	levelLock.RLock()
	defer levelLock.RUnlock()

	var matchedPattern string
	var matchedLevel Level
	for pattern, level := range levelConfig {
		if match, err := path.Match(pattern, name); match && err == nil {
			if len(matchedPattern) < len(pattern) {
				matchedPattern = pattern
				matchedLevel = level
			}
		}
	}
	if matchedPattern != "" {
		return matchedLevel
	}
	return levelDefault
}
