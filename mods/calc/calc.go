// Package calc serves the rpn calculator to the command line and http surfaces,
// adding a conversion cache, metrics and logging around it.
package calc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/machbase/neo-calc/mods/config"
	"github.com/machbase/neo-calc/mods/logging"
	"github.com/machbase/neo-calc/mods/rpn"
	gometrics "github.com/rcrowley/go-metrics"
)

type Service struct {
	log      logging.Log
	calc     *rpn.Calculator
	cache    *Cache
	registry gometrics.Registry

	convertCounter gometrics.Counter
	evalCounter    gometrics.Counter
	errorCounter   gometrics.Counter
	hitCounter     gometrics.Counter
	missCounter    gometrics.Counter
	evalTimer      gometrics.Timer
}

type Option func(*Service)

func WithRegistry(r gometrics.Registry) Option {
	return func(s *Service) {
		s.registry = r
	}
}

func WithLog(l logging.Log) Option {
	return func(s *Service) {
		s.log = l
	}
}

func New(calcConf config.CalcConfig, cacheConf config.CacheConfig, opts ...Option) (*Service, error) {
	posture, ok := rpn.ParsePosture(calcConf.Posture)
	if !ok {
		return nil, fmt.Errorf("unknown posture %q", calcConf.Posture)
	}
	grouping, ok := rpn.ParseGrouping(calcConf.Grouping)
	if !ok {
		return nil, fmt.Errorf("unknown grouping %q", calcConf.Grouping)
	}

	s := &Service{
		calc: rpn.New(rpn.WithPosture(posture), rpn.WithGrouping(grouping)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logging.GetLog("calc")
	}
	if s.registry == nil {
		s.registry = gometrics.NewRegistry()
	}
	s.convertCounter = gometrics.NewRegisteredCounter("calc.convert", s.registry)
	s.evalCounter = gometrics.NewRegisteredCounter("calc.eval", s.registry)
	s.errorCounter = gometrics.NewRegisteredCounter("calc.errors", s.registry)
	s.hitCounter = gometrics.NewRegisteredCounter("calc.cache.hit", s.registry)
	s.missCounter = gometrics.NewRegisteredCounter("calc.cache.miss", s.registry)
	s.evalTimer = gometrics.NewRegisteredTimer("calc.eval.latency", s.registry)

	if cacheConf.Enabled {
		size := gometrics.NewRegisteredGauge("calc.cache.size", s.registry)
		s.cache = newCache(cacheConf.Capacity, cacheConf.TTL, size)
	}
	s.log.Debugf("calculator posture=%s grouping=%s cache=%t", posture, grouping, s.cache != nil)
	return s, nil
}

func (s *Service) Start() {
	if s.cache != nil {
		s.cache.start()
	}
}

func (s *Service) Stop() {
	if s.cache != nil {
		s.cache.stop()
	}
}

func (s *Service) Calculator() *rpn.Calculator { return s.calc }

// Cache returns nil if the conversion cache is disabled.
func (s *Service) Cache() *Cache { return s.cache }

func (s *Service) Convert(infix string) (string, error) {
	s.convertCounter.Inc(1)
	if s.cache != nil {
		if postfix, ok := s.cache.Get(infix); ok {
			s.hitCounter.Inc(1)
			return postfix, nil
		}
		s.missCounter.Inc(1)
	}
	postfix, err := s.calc.Convert(infix)
	if err != nil {
		s.errorCounter.Inc(1)
		s.log.Debugf("convert %q, %s", infix, err.Error())
		return "", err
	}
	if s.cache != nil {
		s.cache.Set(infix, postfix)
	}
	return postfix, nil
}

func (s *Service) EvaluatePostfix(postfix string) (float64, error) {
	s.evalCounter.Inc(1)
	defer s.evalTimer.UpdateSince(time.Now())
	ret, err := s.calc.EvaluatePostfix(postfix)
	if err != nil {
		s.errorCounter.Inc(1)
		s.log.Debugf("evaluate %q, %s", postfix, err.Error())
		return 0, err
	}
	return ret, nil
}

func (s *Service) EvaluateInfix(infix string) (float64, error) {
	r := s.Eval(infix)
	return r.Value, r.Err
}

// Eval converts and evaluates infix. An evaluation error refers to infix.
func (s *Service) Eval(infix string) Result {
	r := Result{Expr: infix}
	r.Postfix, r.Err = s.Convert(infix)
	if r.Err != nil {
		return r
	}
	if r.Value, r.Err = s.EvaluatePostfix(r.Postfix); r.Err != nil {
		r.Err = s.calc.Locate(infix, r.Err)
	}
	return r
}

type Result struct {
	Expr    string
	Postfix string
	Value   float64
	Err     error
}

// Batch evaluates every infix expression of exprs. An expression that fails
// does not stop the batch, its Result carries the error.
// Batch returns early with ctx.Err() when ctx is done.
func (s *Service) Batch(ctx context.Context, exprs []string) ([]Result, error) {
	ret := make([]Result, 0, len(exprs))
	for _, expr := range exprs {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		ret = append(ret, s.Eval(expr))
	}
	s.log.Tracef("batch %d expressions", len(ret))
	return ret, nil
}

// WriteMetrics writes a JSON snapshot of the service metrics.
func (s *Service) WriteMetrics(w io.Writer) {
	gometrics.WriteJSONOnce(s.registry, w)
}
