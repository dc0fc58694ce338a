package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, LevelTrace, ParseLogLevel("trace"))
	require.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	require.Equal(t, LevelInfo, ParseLogLevel(" Info "))
	require.Equal(t, LevelWarn, ParseLogLevel("WARN"))
	require.Equal(t, LevelError, ParseLogLevel("error"))
	require.Equal(t, LevelNone, ParseLogLevel("none"))
	require.Equal(t, LevelAll, ParseLogLevel("whatever"))

	_, ok := ParseLogLevelP("whatever")
	require.False(t, ok)

	var lvl Level
	require.NoError(t, lvl.UnmarshalText([]byte("warn")))
	require.Equal(t, LevelWarn, lvl)
	require.Error(t, lvl.UnmarshalText([]byte("loud")))
	require.Equal(t, "WARN", lvl.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLog("filter-test", buf)
	log.SetLevel(LevelWarn)

	log.Info("hidden")
	log.Debugf("hidden %d", 1)
	log.Warn("visible", 1, true)
	log.Errorf("failed %s", "here")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "WARN  filter-test")
	require.Contains(t, out, "visible 1 true")
	require.Contains(t, out, "ERROR filter-test")
	require.Contains(t, out, "failed here")
	require.Equal(t, 2, strings.Count(out, "\n"))

	require.False(t, log.InfoEnabled())
	require.True(t, log.WarnEnabled())
	require.True(t, log.LogEnabled(LevelError))
}

func TestLevelPattern(t *testing.T) {
	SetLevel("pattern-*", LevelError)
	SetLevel("pattern-http*", LevelDebug)
	defer func() {
		levelLock.Lock()
		delete(levelConfig, "pattern-*")
		delete(levelConfig, "pattern-http*")
		levelLock.Unlock()
	}()

	require.Equal(t, LevelError, GetLevel("pattern-calc"))
	require.Equal(t, LevelDebug, GetLevel("pattern-httpd"))
	require.Equal(t, DefaultLevel(), GetLevel("other"))
}

func TestCounters(t *testing.T) {
	total := gometrics.GetOrRegisterCounter("log.total", gometrics.DefaultRegistry)
	warns := gometrics.GetOrRegisterCounter("log.warns", gometrics.DefaultRegistry)
	before, beforeWarns := total.Count(), warns.Count()

	log := NewLog("counter-test", &bytes.Buffer{})
	log.SetLevel(LevelTrace)
	log.Trace("one")
	log.Warn("two")

	require.Equal(t, before+2, total.Count())
	require.Equal(t, beforeWarns+1, warns.Count())
}

func TestSlog(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLog("slog-test", buf)
	log.SetLevel(LevelInfo)

	s := Wrap(log)
	s.Debug("hidden")
	s.Info("converted", "expr", "1+2", "postfix", "12+")
	s.With("req", 7).Warn("slow")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "converted expr=1+2 postfix=12+")
	require.Contains(t, out, "slow req=7")
}

func TestRemoveEscape(t *testing.T) {
	require.Equal(t, "WARN text", removeEscape("\033[90;43mWARN\033[0m text"))
	require.Equal(t, "no escape", removeEscape("no escape"))
}

func TestConfigureFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "calc.log")
	err := Configure(&Config{
		Filename:           file,
		Append:             true,
		MaxSize:            1,
		RotateSchedule:     "@midnight",
		DefaultPrefixWidth: 10,
		DefaultLevel:       "INFO",
		Levels:             []LevelConfig{{Pattern: "file-test", Level: "DEBUG"}},
	})
	require.NoError(t, err)
	defer func() {
		Shutdown()
		Configure(&PresetConfigStdout)
	}()

	log := GetLog("file-test")
	log.Debug("written to file")
	Shutdown()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(content), "DEBUG file-test")
	require.Contains(t, string(content), "written to file")
}

func TestConfigureErrors(t *testing.T) {
	err := Configure(&Config{Filename: ".", DefaultLevel: "LOUD"})
	require.Error(t, err)

	err = Configure(&Config{Filename: ".", Levels: []LevelConfig{{Pattern: "x", Level: "?"}}})
	require.Error(t, err)

	err = Configure(&Config{
		Filename:       filepath.Join(t.TempDir(), "x.log"),
		Append:         true,
		RotateSchedule: "not a schedule",
	})
	require.Error(t, err)

	require.NoError(t, Configure(&PresetConfigStdout))
}

func TestConfigureReplacesLevels(t *testing.T) {
	defer Configure(&PresetConfigStdout)

	require.NoError(t, Configure(&Config{
		Filename:           ".",
		DefaultLevel:       "INFO",
		DefaultPrefixWidth: 30,
		Levels:             []LevelConfig{{Pattern: "reconf-*", Level: "ERROR"}},
	}))
	require.Equal(t, LevelError, GetLevel("reconf-1"))
	require.Equal(t, 30, GetLog("reconf-1").(*levelLogger).prefixWidth)

	require.NoError(t, Configure(&Config{Filename: ".", DefaultLevel: "WARN"}))
	require.Equal(t, LevelWarn, GetLevel("reconf-1"))
	require.Equal(t, 18, GetLog("reconf-1").(*levelLogger).prefixWidth)

	// a rejected config leaves the levels in place
	require.NoError(t, Configure(&Config{Filename: ".", Levels: []LevelConfig{{Pattern: "reconf-*", Level: "DEBUG"}}}))
	require.Error(t, Configure(&Config{Filename: ".", Levels: []LevelConfig{{Pattern: "reconf-*", Level: "?"}}}))
	require.Equal(t, LevelDebug, GetLevel("reconf-1"))
}

func TestLayoutDefaultsConcurrent(t *testing.T) {
	defer SetDefaultPrefixWidth(0)
	defer SetDefaultEnableSourceLocation(false)

	widths := make(chan int, 8)
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			SetDefaultPrefixWidth(10 + n)
			SetDefaultEnableSourceLocation(n%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			widths <- NewLog("layout-test", &bytes.Buffer{}).(*levelLogger).prefixWidth
		}()
	}
	wg.Wait()
	close(widths)
	for w := range widths {
		require.GreaterOrEqual(t, w, 10)
	}
}
