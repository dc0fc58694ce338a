// Package httpd exposes the calculator over HTTP.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/machbase/neo-calc/mods/calc"
	"github.com/machbase/neo-calc/mods/logging"
)

type Service interface {
	Start() error
	Stop()
	Router() *gin.Engine
	// Addrs returns the addresses actually bound by Start.
	Addrs() []string
}

func New(svc *calc.Service, options ...Option) (Service, error) {
	if svc == nil {
		return nil, errors.New("no calculator service")
	}
	s := &httpd{
		log:             logging.GetLog("httpd"),
		calc:            svc,
		shutdownTimeout: 3 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

type httpd struct {
	log  logging.Log
	calc *calc.Service

	listenAddresses []string
	shutdownTimeout time.Duration
	debugMode       bool

	httpServer *http.Server
	listeners  []net.Listener
}

func (svr *httpd) Start() error {
	if len(svr.listenAddresses) == 0 {
		return errors.New("no listen address")
	}
	if svr.debugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	svr.httpServer = &http.Server{}
	svr.httpServer.Handler = svr.Router()

	for _, listen := range svr.listenAddresses {
		lsnr, err := makeListener(listen)
		if err != nil {
			svr.closeListeners()
			return fmt.Errorf("cannot start with failed listener, %w", err)
		}
		svr.listeners = append(svr.listeners, lsnr)
		go svr.httpServer.Serve(lsnr)
		svr.log.Infof("HTTP Listen %s", lsnr.Addr().String())
	}
	return nil
}

func (svr *httpd) Stop() {
	if svr.httpServer == nil {
		return
	}
	ctx, cancelFunc := context.WithTimeout(context.Background(), svr.shutdownTimeout)
	defer cancelFunc()
	if err := svr.httpServer.Shutdown(ctx); err != nil {
		svr.log.Warnf("HTTP shutdown, %s", err.Error())
	}
	svr.log.Infof("HTTP stopped")
}

func (svr *httpd) closeListeners() {
	for _, l := range svr.listeners {
		l.Close()
	}
	svr.listeners = nil
}

func (svr *httpd) Addrs() []string {
	ret := make([]string, 0, len(svr.listeners))
	for _, l := range svr.listeners {
		ret = append(ret, l.Addr().String())
	}
	return ret
}

func (svr *httpd) Router() *gin.Engine {
	r := gin.New()
	r.Use(RecoveryWithLogging(svr.log))
	r.Use(HttpLogger("httpd-access"))
	r.Use(svr.corsHandler())
	r.Use(requestId(uuid.NewGen()))

	r.GET("/healthz", svr.handleHealthz)
	r.GET("/debug/metrics", svr.handleMetrics)

	group := r.Group("/api")
	group.GET("/convert", svr.handleConvert)
	group.POST("/convert", svr.handleConvert)
	group.GET("/eval", svr.handleEval)
	group.POST("/eval", svr.handleEval)
	group.POST("/batch", svr.handleBatch)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "reason": "not found"})
	})
	return r
}

func (svr *httpd) corsHandler() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Accept", "Content-Type", "X-Request-Id"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-Id"},
		MaxAge:          12 * time.Hour,
	})
}

// requestId keeps the X-Request-Id of the request or issues a new one.
func requestId(gen uuid.Generator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-Id")
		if id == "" {
			if uid, err := gen.NewV4(); err == nil {
				id = uid.String()
			}
		}
		ctx.Set("request-id", id)
		ctx.Header("X-Request-Id", id)
		ctx.Next()
	}
}

// makeListener accepts "host:port", "tcp://host:port" and "unix://path".
func makeListener(addr string) (net.Listener, error) {
	switch {
	case strings.HasPrefix(addr, "unix://"):
		return net.Listen("unix", strings.TrimPrefix(addr, "unix://"))
	case strings.HasPrefix(addr, "tcp://"):
		return net.Listen("tcp", strings.TrimPrefix(addr, "tcp://"))
	default:
		return net.Listen("tcp", addr)
	}
}
