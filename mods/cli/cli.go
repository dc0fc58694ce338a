// Package cli implements the neocalc command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/machbase/neo-calc/mods/calc"
	"github.com/machbase/neo-calc/mods/config"
	"github.com/machbase/neo-calc/mods/logging"
	"golang.org/x/term"
)

type Globals struct {
	Config   string `name:"config" short:"c" type:"path" help:"config file path"`
	Posture  string `name:"posture" help:"error posture, strict or permissive"`
	Grouping string `name:"grouping" help:"same rank grouping, left or legacy"`
	LogLevel string `name:"log-level" help:"TRACE, DEBUG, INFO, WARN or ERROR"`
}

type CalcCmd struct {
	Globals

	Convert   ConvertCmd   `cmd:"" help:"convert an infix expression to postfix"`
	Eval      EvalCmd      `cmd:"" help:"evaluate an expression"`
	Batch     BatchCmd     `cmd:"" help:"evaluate an expression per line"`
	Serve     ServeCmd     `cmd:"" help:"run the http service"`
	GenConfig GenConfigCmd `cmd:"" name:"gen-config" help:"print the default config"`
	Version   VersionCmd   `cmd:"" help:"show version"`
}

// Streams are the standard streams of a command run.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func Main() int {
	return Run(os.Args[1:], &Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
}

// Run parses args and executes the selected command, it returns the exit code.
func Run(args []string, streams *Streams) int {
	var cli CalcCmd
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("neocalc"),
		kong.Description("single digit infix and postfix calculator"),
		kong.Writers(streams.Stdout, streams.Stderr),
		kong.HelpOptions{NoAppSummary: false, Compact: true, FlagsLast: true},
		kong.UsageOnError(),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(streams.Stderr, "ERR", err.Error())
		return 1
	}
	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// help was printed
		return exitCode
	}
	if err != nil {
		fmt.Fprintln(streams.Stderr, "ERR", err.Error())
		return 2
	}
	if err := ctx.Run(&cli.Globals, streams); err != nil {
		fmt.Fprintln(streams.Stderr, "ERR", commandError(err).Error())
		return 1
	}
	return 0
}

// commandError strips the "<type>.Run(): " prefix kong puts on errors
// returned by a command.
func commandError(err error) error {
	inner := errors.Unwrap(err)
	if inner == nil {
		return err
	}
	prefix := strings.TrimSuffix(err.Error(), inner.Error())
	if strings.HasSuffix(prefix, ".Run(): ") {
		return inner
	}
	return err
}

// loadConfig merges the default config, the config file and the flags.
func (g *Globals) loadConfig() (*config.Config, error) {
	var conf *config.Config
	if g.Config != "" {
		c, err := config.LoadFile(g.Config)
		if err != nil {
			return nil, err
		}
		conf = c
	} else {
		conf = config.Default()
	}
	if g.Posture != "" {
		conf.Calc.Posture = g.Posture
	}
	if g.Grouping != "" {
		conf.Calc.Grouping = g.Grouping
	}
	if g.LogLevel != "" {
		conf.Log.DefaultLevel = strings.ToUpper(g.LogLevel)
	}
	return conf, nil
}

// newService configures logging and builds the calculator service.
// quiet discards the log unless a log level is given explicitly.
func (g *Globals) newService(quiet bool) (*calc.Service, *config.Config, error) {
	conf, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if quiet && g.LogLevel == "" && g.Config == "" {
		conf.Log.Filename = "."
	}
	if err := logging.Configure(&conf.Log); err != nil {
		return nil, nil, err
	}
	svc, err := calc.New(conf.Calc, conf.Cache)
	if err != nil {
		logging.Shutdown()
		return nil, nil, err
	}
	return svc, conf, nil
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
