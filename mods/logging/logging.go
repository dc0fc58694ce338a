package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/robfig/cron/v3"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
	Log rotation schedule

	"0 30 * * * *"             Every hour on the half hour
	"@hourly"                  Every hour
	"@every 1h30m"             Every hour thirty

	@yearly
	@monthly
	@daily
	@hourly
	@midnight
*/

// Config is filled from the `log` block of the config file.
//
// Filename "-" writes to stdout, "." discards everything,
// any other value is a file rotated by size and optionally by RotateSchedule.
type Config struct {
	Console                     bool
	Filename                    string
	Append                      bool
	RotateSchedule              string
	MaxSize                     int
	MaxBackups                  int
	MaxAge                      int
	Compress                    bool
	UTC                         bool
	Levels                      []LevelConfig
	DefaultPrefixWidth          int
	DefaultEnableSourceLocation bool
	DefaultLevel                string
}

type LevelConfig struct {
	Pattern string
	Level   string
}

var PresetConfigStdout = Config{
	Filename:           "-",
	Append:             true,
	DefaultPrefixWidth: 10,
	DefaultLevel:       "INFO",
}

var PresetConfigDiscard = Config{
	Filename:           ".",
	DefaultPrefixWidth: 10,
	DefaultLevel:       "TRACE",
}

type logWriter struct {
	io.Writer
	isTerm bool
}

var (
	writerLock    sync.RWMutex
	defaultWriter = []*logWriter{stdoutWriter()}
	rotateCron    *cron.Cron
	rotateFile    *lumberjack.Logger
)

func stdoutWriter() *logWriter {
	isTerm := term.IsTerminal(int(os.Stdout.Fd()))
	if isTerm {
		return &logWriter{Writer: colorable.NewColorableStdout(), isTerm: true}
	}
	return &logWriter{Writer: os.Stdout, isTerm: false}
}

// Configure replaces the levels, the layout and the writers set by a previous call.
func Configure(cfg *Config) error {
	levels := make(map[string]Level, len(cfg.Levels))
	for _, c := range cfg.Levels {
		lvl, ok := ParseLogLevelP(c.Level)
		if !ok {
			return fmt.Errorf("invalid log level %q for %q", c.Level, c.Pattern)
		}
		levels[c.Pattern] = lvl
	}
	resetLevels(levels)
	if cfg.DefaultLevel != "" {
		lvl, ok := ParseLogLevelP(cfg.DefaultLevel)
		if !ok {
			return fmt.Errorf("invalid default log level %q", cfg.DefaultLevel)
		}
		SetDefaultLevel(lvl)
	}
	SetDefaultPrefixWidth(cfg.DefaultPrefixWidth)
	SetDefaultEnableSourceLocation(cfg.DefaultEnableSourceLocation)

	writers, err := newWriters(cfg)
	if err != nil {
		return err
	}
	writerLock.Lock()
	defaultWriter = writers
	writerLock.Unlock()
	return nil
}

func newWriters(cfg *Config) ([]*logWriter, error) {
	Shutdown()
	switch cfg.Filename {
	case ".":
		return []*logWriter{}, nil
	case "", "-":
		return []*logWriter{stdoutWriter()}, nil
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  !cfg.UTC,
	}
	if !cfg.Append {
		if err := lj.Rotate(); err != nil {
			return nil, err
		}
	}
	if len(cfg.RotateSchedule) > 0 {
		c := cron.New()
		if _, err := c.AddFunc(cfg.RotateSchedule, func() { lj.Rotate() }); err != nil {
			return nil, fmt.Errorf("invalid log rotate schedule %q, %w", cfg.RotateSchedule, err)
		}
		c.Start()
		rotateCron = c
	}
	rotateFile = lj

	ret := []*logWriter{{Writer: lj, isTerm: false}}
	if cfg.Console {
		ret = append(ret, stdoutWriter())
	}
	return ret, nil
}

// Shutdown stops the rotation schedule and closes the log file, if any.
func Shutdown() {
	if rotateCron != nil {
		<-rotateCron.Stop().Done()
		rotateCron = nil
	}
	if rotateFile != nil {
		rotateFile.Close()
		rotateFile = nil
	}
}

func GetLog(name string) Log {
	width, srcLoc := layoutDefaults()
	writerLock.RLock()
	defer writerLock.RUnlock()
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		underlying:   defaultWriter,
		prefixWidth:  width,
		enableSrcLoc: srcLoc,
	}
}

// NewLog returns a logger that writes only to writer, without color.
func NewLog(name string, writer io.Writer) Log {
	width, srcLoc := layoutDefaults()
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		underlying:   []*logWriter{{Writer: writer, isTerm: false}},
		prefixWidth:  width,
		enableSrcLoc: srcLoc,
	}
}
