package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const timestampFormat = "2006/01/02 15:04:05.000"

func (l *levelLogger) _log(lvl Level, callstackOffset int, args []any) {
	l._logf(lvl, callstackOffset, "", args)
}

func (l *levelLogger) _logf(lvl Level, callstackOffset int, format string, args []any) {
	if lvl < l.level || lvl >= LevelNone {
		return
	}

	totalCounter.Inc(1)
	if lvl == LevelWarn {
		warnCounter.Inc(1)
	} else if lvl == LevelError {
		errorCounter.Inc(1)
	}
	if len(l.underlying) == 0 {
		return
	}

	var name string
	if l.enableSrcLoc {
		_, srcFileName, srcFileLine, _ := runtime.Caller(2 + callstackOffset)
		srcFileName = filepath.Base(srcFileName)
		width := l.prefixWidth - len(srcFileName) - 5
		if width <= 0 {
			width = 1
		}
		name = fmt.Sprintf("%-*s %s %3d", width, l.name, srcFileName, srcFileLine)
	} else {
		name = fmt.Sprintf("%-*s", l.prefixWidth, l.name)
	}

	levelColorBegin, levelColorEnd := "", ""
	if lvl == LevelWarn {
		levelColorBegin, levelColorEnd = yellow, reset
	} else if lvl == LevelError {
		levelColorBegin, levelColorEnd = red, reset
	}

	timestamp := time.Now().Format(timestampFormat)
	levelName := fmt.Sprintf("%-5s", logLevelNames[lvl])

	var msg string
	if format == "" {
		toks := make([]string, 0, len(args)+len(l.attrs))
		for _, a := range args {
			if s, ok := a.(string); ok {
				toks = append(toks, s)
			} else {
				toks = append(toks, fmt.Sprintf("%v", a))
			}
		}
		for _, a := range l.attrs {
			toks = append(toks, fmt.Sprintf("%s=%v", a.Key, a.Value))
		}
		msg = strings.Join(toks, " ")
	} else {
		msg = fmt.Sprintf(format, args...)
	}

	for _, w := range l.underlying {
		var line string
		if w.isTerm {
			line = fmt.Sprintf("%s %s%s%s %s %s\n", timestamp, levelColorBegin, levelName, levelColorEnd, name, msg)
		} else {
			line = removeEscape(fmt.Sprintf("%s %s %s %s\n", timestamp, levelName, name, msg))
		}
		w.Write([]byte(line))
	}
}

func removeEscape(str string) string {
	for {
		idx := strings.Index(str, "\033[")
		if idx == -1 {
			break
		}
		period := strings.Index(str[idx:], "m")
		if period == -1 {
			break
		}
		str = str[0:idx] + str[idx+period+1:]
	}
	return str
}
