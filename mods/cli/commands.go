package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/machbase/neo-calc/mods"
	"github.com/machbase/neo-calc/mods/box"
	"github.com/machbase/neo-calc/mods/config"
	"github.com/machbase/neo-calc/mods/httpd"
	"github.com/machbase/neo-calc/mods/logging"
)

type ConvertCmd struct {
	Expr string `arg:"" name:"expr" help:"infix expression"`
}

func (cmd *ConvertCmd) Run(g *Globals, s *Streams) error {
	svc, _, err := g.newService(true)
	if err != nil {
		return err
	}
	defer logging.Shutdown()
	postfix, err := svc.Convert(cmd.Expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Stdout, postfix)
	return nil
}

type EvalCmd struct {
	Postfix bool   `name:"postfix" short:"p" help:"the expression is in postfix notation"`
	Expr    string `arg:"" name:"expr" help:"expression"`
}

func (cmd *EvalCmd) Run(g *Globals, s *Streams) error {
	svc, _, err := g.newService(true)
	if err != nil {
		return err
	}
	defer logging.Shutdown()
	var ret float64
	if cmd.Postfix {
		ret, err = svc.EvaluatePostfix(cmd.Expr)
	} else {
		ret, err = svc.EvaluateInfix(cmd.Expr)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Stdout, strconv.FormatFloat(ret, 'f', -1, 64))
	return nil
}

// maxBatchLine bounds the length of one batch input line.
const maxBatchLine = 64 * 1024 * 1024

type BatchCmd struct {
	Format    string `name:"format" short:"f" enum:"box,csv,md,html,tsv" default:"box" help:"output format (box,csv,md,html,tsv)"`
	Style     string `name:"style" enum:"default,bold,double,light,round" default:"default" help:"box style"`
	Precision int    `name:"precision" default:"-1" help:"fraction digits of results, -1 for the shortest"`
	Heading   bool   `name:"heading" default:"true" negatable:"" help:"show heading"`
	Rownum    bool   `name:"rownum" default:"true" negatable:"" help:"show row numbers"`
	File      string `arg:"" optional:"" name:"file" default:"-" help:"expression per line, '-' for stdin"`
}

func (cmd *BatchCmd) Run(g *Globals, s *Streams) error {
	svc, _, err := g.newService(true)
	if err != nil {
		return err
	}
	defer logging.Shutdown()

	in := s.Stdin
	if cmd.File != "-" {
		f, err := os.Open(cmd.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	exprs := []string{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBatchLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	results, err := svc.Batch(ctx, exprs)
	if err != nil {
		return err
	}

	enc := box.NewEncoder(s.Stdout)
	enc.Format = cmd.Format
	enc.Style = cmd.Style
	enc.Precision = cmd.Precision
	enc.Heading = cmd.Heading
	enc.Rownum = cmd.Rownum
	enc.Colored = cmd.Format == "box" && isTerminal(s.Stdout)
	if err := enc.Open(); err != nil {
		return err
	}
	enc.AddResults(results)
	enc.Close()
	return nil
}

type ServeCmd struct {
	Listen []string `name:"listen" short:"l" help:"listen addresses, overrides the config"`
}

func (cmd *ServeCmd) Run(g *Globals, s *Streams) error {
	svc, conf, err := g.newService(false)
	if err != nil {
		return err
	}
	defer logging.Shutdown()
	log := logging.GetLog("neocalc")

	listen := conf.Http.Listen
	if len(cmd.Listen) > 0 {
		listen = cmd.Listen
	}

	svc.Start()
	defer svc.Stop()

	web, err := httpd.New(svc,
		httpd.OptionListenAddress(listen...),
		httpd.OptionDebugMode(conf.Http.Debug),
		httpd.OptionShutdownTimeout(conf.Http.ShutdownTimeout),
	)
	if err != nil {
		return err
	}
	if err := web.Start(); err != nil {
		return err
	}
	log.Infof("neocalc %s started, posture=%s grouping=%s",
		mods.DisplayVersion(), svc.Calculator().Posture(), svc.Calculator().Grouping())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	log.Infof("neocalc shutting down")
	web.Stop()
	return nil
}

type GenConfigCmd struct{}

func (cmd *GenConfigCmd) Run(s *Streams) error {
	_, err := s.Stdout.Write(config.DefaultConfig)
	return err
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run(s *Streams) error {
	fmt.Fprintf(s.Stdout, "neocalc %s\n", mods.VersionString())
	if c := mods.BuildCompiler(); c != "" {
		fmt.Fprintf(s.Stdout, "go %s\n", c)
	}
	return nil
}
